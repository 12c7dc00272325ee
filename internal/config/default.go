package config

import "time"

// Default returns a complete sample configuration: a 60 second countdown with
// a dial, a three-button sequence and a wire, wired for a Raspberry Pi and
// scripted for a simulated defusal.
func Default() *Config {
	return &Config{
		DeadlineSeconds: 60,
		PollInterval:    DefaultPollInterval,
		Backend:         BackendSim,
		LogLevel:        "info",
		Alarm: AlarmConfig{
			InitialDelay: time.Second,
			MinDelay:     100 * time.Millisecond,
			Pulse:        100 * time.Millisecond,
			Decay:        "linear",
		},
		Actuation: ActuationConfig{
			AckBeep:    200 * time.Millisecond,
			AlarmHold:  3 * time.Second,
			ServoStart: 0,
			ServoEnd:   180,
			ServoRate:  90,
		},
		Puzzles: []PuzzleConfig{
			{
				Name:      "dial",
				Kind:      KindRange,
				Indicator: "led.dial",
				Channel:   "dial",
				Target:    155,
				Tolerance: 5,
			},
			{
				Name:      "keypad",
				Kind:      KindSequence,
				Indicator: "led.keypad",
				Buttons: map[string]string{
					"button.red":   "R",
					"button.green": "G",
					"button.blue":  "B",
				},
				Sequence:        []string{"R", "B", "G", "R"},
				DebounceSamples: 4,
				Reset:           "keep_seed",
			},
			{
				Name:      "wire",
				Kind:      KindDuration,
				Indicator: "led.wire",
				Channel:   "wire",
				Circuit:   "nc",
				Threshold: 20,
			},
		},
		Periph: PeriphConfig{
			Pull: "down",
			Digital: map[string]string{
				"button.red":   "GPIO17",
				"button.green": "GPIO27",
				"button.blue":  "GPIO22",
				"wire":         "GPIO23",
			},
			Analog: map[string]int{
				"dial": 0,
			},
			Indicators: map[string]RGBPins{
				"led.dial":   {R: "GPIO5", G: "GPIO6", B: "GPIO13"},
				"led.keypad": {R: "GPIO19", G: "GPIO26", B: "GPIO16"},
				"led.wire":   {R: "GPIO20", G: "GPIO21", B: "GPIO24"},
			},
			Alarm: "GPIO12",
			Servo: "GPIO18",
		},
		Simulation: SimulationConfig{
			Step: DefaultSimulationStep,
			Events: []EventConfig{
				{At: 0, Digital: map[string]bool{"wire": true}},
				{At: 5 * time.Second, Analog: map[string]int{"dial": 158}},
				{At: 8 * time.Second, Digital: map[string]bool{"button.red": true}},
				{At: 8200 * time.Millisecond, Digital: map[string]bool{"button.red": false}},
				{At: 9 * time.Second, Digital: map[string]bool{"button.blue": true}},
				{At: 9200 * time.Millisecond, Digital: map[string]bool{"button.blue": false}},
				{At: 10 * time.Second, Digital: map[string]bool{"button.green": true}},
				{At: 10200 * time.Millisecond, Digital: map[string]bool{"button.green": false}},
				{At: 11 * time.Second, Digital: map[string]bool{"button.red": true}},
				{At: 11200 * time.Millisecond, Digital: map[string]bool{"button.red": false}},
				{At: 15 * time.Second, Digital: map[string]bool{"wire": false}},
			},
		},
	}
}
