package sensor

import (
	"math"
)

// Average returns the mean of the samples, truncated to an integer.
func Average(samples []float64) (int, error) {
	if len(samples) == 0 {
		return 0, ErrNoData
	}
	var total float64
	for _, s := range samples {
		total += s
	}
	return int(total / float64(len(samples))), nil
}

// MapRange maps value from [inLo, inHi] onto [outLo, outHi]. If the result lies outside [outLo, outHi], MapRange
// returns ErrMappingOutOfRange.
func MapRange(inLo, inHi, outLo, outHi, value float64) (float64, error) {
	if inHi == inLo {
		return 0, &rangeError{value: value, lo: outLo, hi: outHi}
	}
	mapped := outLo + (outHi-outLo)/(inHi-inLo)*(value-inLo)
	if mapped < outLo || mapped > outHi || math.IsNaN(mapped) {
		return mapped, &rangeError{value: mapped, lo: outLo, hi: outHi}
	}
	return mapped, nil
}

// Classify converts a mapped reading in [0,100] into a duty cycle: a dark room gets full brightness, a well-lit
// room turns the lamp off.
func Classify(mapped float64) int {
	switch {
	case mapped <= 33:
		return 100
	case mapped <= 66:
		return 50
	default:
		return 0
	}
}

// Volts converts a raw reading of the sensor's 10-bit ADC to volts, rounded to two decimals.
func Volts(average int) float64 {
	return math.Round(float64(average)*5/1023*100) / 100
}
