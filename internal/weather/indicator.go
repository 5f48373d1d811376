package weather

// An Indicator is the state of the two indicator LEDs, showing how warm it feels outside.
type Indicator int

const (
	VeryCold Indicator = iota
	Cold
	Mild
	Hot
)

var indicators = map[Indicator]struct {
	name string
	pins [2]bool
}{
	VeryCold: {name: "very cold", pins: [2]bool{false, true}},
	Cold:     {name: "cold", pins: [2]bool{true, false}},
	Mild:     {name: "mild", pins: [2]bool{false, true}},
	Hot:      {name: "hot", pins: [2]bool{true, true}},
}

func (i Indicator) String() string {
	if ind, ok := indicators[i]; ok {
		return ind.name
	}
	return "unknown"
}

// Pins returns the level of each indicator pin. True means high.
func (i Indicator) Pins() [2]bool {
	return indicators[i].pins
}

// ClassifyTemperature returns the Indicator for the snapshot's temperature. If the snapshot has no temperature,
// it returns false.
func ClassifyTemperature(s Snapshot) (Indicator, bool) {
	if s.Temperature == nil {
		return 0, false
	}
	switch t := *s.Temperature; {
	case t <= 10:
		return VeryCold, true
	case t <= 20:
		return Cold, true
	case t <= 30:
		return Mild, true
	default:
		return Hot, true
	}
}
