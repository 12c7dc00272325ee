package session

import (
	"fmt"

	"github.com/oshokin/defuse-box/internal/actuator"
	"github.com/oshokin/defuse-box/internal/config"
	"github.com/oshokin/defuse-box/internal/countdown"
	"github.com/oshokin/defuse-box/internal/domain/bomb"
	"github.com/oshokin/defuse-box/internal/engine"
	"github.com/oshokin/defuse-box/internal/hardware"
	"github.com/oshokin/defuse-box/internal/hardware/periph"
	"github.com/oshokin/defuse-box/internal/hardware/sim"
	"github.com/oshokin/defuse-box/internal/puzzle"
)

// engineConfig converts settings into an engine configuration.
func engineConfig(cfg *config.Config) (engine.Config, error) {
	decay, err := countdown.ParseDecay(cfg.Alarm.Decay)
	if err != nil {
		return engine.Config{}, fmt.Errorf("alarm: %w", err)
	}

	puzzles, err := buildPuzzles(cfg.Puzzles)
	if err != nil {
		return engine.Config{}, err
	}

	return engine.Config{
		DeadlineSeconds: cfg.DeadlineSeconds,
		Puzzles:         puzzles,
		Cadence: countdown.CadenceConfig{
			InitialDelay: cfg.Alarm.InitialDelay,
			MinDelay:     cfg.Alarm.MinDelay,
			Pulse:        cfg.Alarm.Pulse,
			Decay:        decay,
		},
		Actuation: actuator.Config{
			AckBeep:    cfg.Actuation.AckBeep,
			AlarmHold:  cfg.Actuation.AlarmHold,
			ServoStart: cfg.Actuation.ServoStart,
			ServoEnd:   cfg.Actuation.ServoEnd,
			ServoRate:  cfg.Actuation.ServoRate,
		},
	}, nil
}

// buildPuzzles creates one puzzle per configuration entry, in order.
func buildPuzzles(configs []config.PuzzleConfig) ([]puzzle.Puzzle, error) {
	puzzles := make([]puzzle.Puzzle, 0, len(configs))

	for _, pc := range configs {
		p, err := buildPuzzle(pc)
		if err != nil {
			return nil, fmt.Errorf("build puzzle: %w", err)
		}

		puzzles = append(puzzles, p)
	}

	return puzzles, nil
}

func buildPuzzle(pc config.PuzzleConfig) (puzzle.Puzzle, error) {
	switch pc.Kind {
	case config.KindRange:
		return puzzle.NewDial(puzzle.DialConfig{
			Name:      pc.Name,
			Indicator: hardware.Channel(pc.Indicator),
			Channel:   hardware.Channel(pc.Channel),
			Target:    pc.Target,
			Tolerance: pc.Tolerance,
			AnalogMax: pc.AnalogMax,
		})
	case config.KindSequence:
		buttons := make(map[hardware.Channel]bomb.Token, len(pc.Buttons))
		for ch, token := range pc.Buttons {
			buttons[hardware.Channel(ch)] = bomb.Token(token)
		}

		master := make([]bomb.Token, 0, len(pc.Sequence))
		for _, token := range pc.Sequence {
			master = append(master, bomb.Token(token))
		}

		return puzzle.NewSequence(puzzle.SequenceConfig{
			Name:            pc.Name,
			Indicator:       hardware.Channel(pc.Indicator),
			Buttons:         buttons,
			Master:          master,
			DebounceSamples: pc.DebounceSamples,
			Reset:           puzzle.ResetPolicy(pc.Reset),
		})
	case config.KindDuration:
		return puzzle.NewWire(puzzle.WireConfig{
			Name:      pc.Name,
			Indicator: hardware.Channel(pc.Indicator),
			Channel:   hardware.Channel(pc.Channel),
			Circuit:   puzzle.Circuit(pc.Circuit),
			Threshold: pc.Threshold,
		})
	default:
		return nil, fmt.Errorf("puzzle %q: kind %q: %w", pc.Name, pc.Kind, ErrUnknownKind)
	}
}

// buildScript converts the simulation events into an input script.
func buildScript(events []config.EventConfig) *sim.Script {
	converted := make([]sim.Event, 0, len(events))

	for _, ec := range events {
		event := sim.Event{
			At:      ec.At,
			Analog:  make(map[hardware.Channel]int, len(ec.Analog)),
			Digital: make(map[hardware.Channel]bool, len(ec.Digital)),
		}

		for ch, v := range ec.Analog {
			event.Analog[hardware.Channel(ch)] = v
		}

		for ch, v := range ec.Digital {
			event.Digital[hardware.Channel(ch)] = v
		}

		converted = append(converted, event)
	}

	return sim.NewScript(converted)
}

// periphConfig converts the pin map into a board configuration.
func periphConfig(pc config.PeriphConfig) periph.Config {
	out := periph.Config{
		SPIPort:    pc.SPIPort,
		Pull:       pc.Pull,
		Digital:    make(map[hardware.Channel]string, len(pc.Digital)),
		Analog:     make(map[hardware.Channel]int, len(pc.Analog)),
		Indicators: make(map[hardware.Channel]periph.RGBPins, len(pc.Indicators)),
		Alarm:      pc.Alarm,
		Servo:      pc.Servo,
	}

	for ch, pin := range pc.Digital {
		out.Digital[hardware.Channel(ch)] = pin
	}

	for ch, input := range pc.Analog {
		out.Analog[hardware.Channel(ch)] = input
	}

	for ch, pins := range pc.Indicators {
		out.Indicators[hardware.Channel(ch)] = periph.RGBPins{R: pins.R, G: pins.G, B: pins.B}
	}

	return out
}
