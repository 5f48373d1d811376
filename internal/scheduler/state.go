package scheduler

import (
	"github.com/clambin/smartlamp/internal/alarm"
	"github.com/clambin/smartlamp/internal/sensor"
	"github.com/clambin/smartlamp/internal/weather"
	"time"
)

// State summarizes what the scheduler is waiting for.
type State int

const (
	StateIdle State = iota
	AwaitingPhotoWindow
	AwaitingWeatherWindow
	AlarmActive
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	AwaitingPhotoWindow:   "awaiting sensor window",
	AwaitingWeatherWindow: "awaiting weather window",
	AlarmActive:           "alarm active",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// States lists all states, in order.
var States = []State{StateIdle, AwaitingPhotoWindow, AwaitingWeatherWindow, AlarmActive}

// Counters track the outcome of the scheduler's actions since startup.
type Counters struct {
	AlarmsActivated int `json:"alarmsActivated"`
	AlarmsMissed    int `json:"alarmsMissed"`
	SensorReads     int `json:"sensorReads"`
	SensorFailures  int `json:"sensorFailures"`
	WeatherFetches  int `json:"weatherFetches"`
	WeatherFailures int `json:"weatherFailures"`
	Uploads         int `json:"uploads"`
	UploadFailures  int `json:"uploadFailures"`
}

// Status is published after every tick.
type Status struct {
	Time           time.Time           `json:"time"`
	State          State               `json:"state"`
	DutyCycle      int                 `json:"dutyCycle"`
	Indicator      *string             `json:"indicator,omitempty"`
	Windows        []alarm.Window      `json:"windows,omitempty"`
	Measurement    *sensor.Measurement `json:"measurement,omitempty"`
	Weather        *weather.Snapshot   `json:"weather,omitempty"`
	NextSensorRead time.Time           `json:"nextSensorRead"`
	Counters       Counters            `json:"counters"`
}
