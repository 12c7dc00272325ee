package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of one prop.
type Config struct {
	// DeadlineSeconds is the countdown length.
	DeadlineSeconds int `yaml:"deadline_seconds"`
	// PollInterval is the period of the host loop.
	PollInterval time.Duration `yaml:"poll_interval"`
	// Backend selects the hardware: "sim" or "periph".
	Backend string `yaml:"backend"`
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level"`
	// Alarm configures the countdown beeps.
	Alarm AlarmConfig `yaml:"alarm"`
	// Actuation configures the terminal sequences.
	Actuation ActuationConfig `yaml:"actuation"`
	// Puzzles lists every puzzle that must be solved.
	Puzzles []PuzzleConfig `yaml:"puzzles"`
	// Periph maps channels to Raspberry Pi pins.
	Periph PeriphConfig `yaml:"periph"`
	// Simulation scripts the inputs of the sim backend.
	Simulation SimulationConfig `yaml:"simulation"`
}

// AlarmConfig configures the countdown beeps.
type AlarmConfig struct {
	InitialDelay time.Duration `yaml:"initial_delay"`
	MinDelay     time.Duration `yaml:"min_delay"`
	Pulse        time.Duration `yaml:"pulse"`
	// Decay is one of linear, quadratic, constant.
	Decay string `yaml:"decay"`
}

// ActuationConfig configures the terminal sequences.
type ActuationConfig struct {
	AckBeep    time.Duration `yaml:"ack_beep"`
	AlarmHold  time.Duration `yaml:"alarm_hold"`
	ServoStart int           `yaml:"servo_start"`
	ServoEnd   int           `yaml:"servo_end"`
	// ServoRate is the sweep speed in degrees per second.
	ServoRate float64 `yaml:"servo_rate"`
}

// PuzzleConfig describes one puzzle. Fields apply depending on Kind.
type PuzzleConfig struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Indicator string `yaml:"indicator,omitempty"`

	// Channel is the analog input of a range puzzle or the loop of a duration puzzle.
	Channel   string `yaml:"channel,omitempty"`
	Target    int    `yaml:"target,omitempty"`
	Tolerance int    `yaml:"tolerance,omitempty"`
	AnalogMax int    `yaml:"analog_max,omitempty"`

	// Buttons maps button channels to tokens of a sequence puzzle.
	Buttons         map[string]string `yaml:"buttons,omitempty"`
	Sequence        []string          `yaml:"sequence,omitempty"`
	DebounceSamples int               `yaml:"debounce_samples,omitempty"`
	Reset           string            `yaml:"reset,omitempty"`

	Circuit   string `yaml:"circuit,omitempty"`
	Threshold int    `yaml:"threshold,omitempty"`
}

// PeriphConfig maps logical channels to Raspberry Pi resources.
type PeriphConfig struct {
	// SPIPort is the SPI port of the MCP3008 ADC; empty selects the first one.
	SPIPort string `yaml:"spi_port"`
	// Pull is the input bias: "down", "up" or "float".
	Pull string `yaml:"pull"`
	// Digital maps input channels to GPIO names.
	Digital map[string]string `yaml:"digital"`
	// Analog maps input channels to ADC inputs.
	Analog map[string]int `yaml:"analog"`
	// Indicators maps LED channels to their RGB pins.
	Indicators map[string]RGBPins `yaml:"indicators"`
	// Alarm is the buzzer GPIO.
	Alarm string `yaml:"alarm"`
	// Servo is the PWM-capable servo GPIO.
	Servo string `yaml:"servo"`
}

// RGBPins names the GPIOs of one RGB LED.
type RGBPins struct {
	R string `yaml:"r"`
	G string `yaml:"g"`
	B string `yaml:"b"`
}

// SimulationConfig scripts the inputs of the sim backend.
type SimulationConfig struct {
	// Step is the virtual tick period of the simulate command.
	Step   time.Duration `yaml:"step"`
	Events []EventConfig `yaml:"events"`
}

// EventConfig sets input levels at an offset from the session start.
type EventConfig struct {
	At      time.Duration   `yaml:"at"`
	Analog  map[string]int  `yaml:"analog,omitempty"`
	Digital map[string]bool `yaml:"digital,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for prop settings.
	DefaultConfigFilename = "defuse-box.yaml"

	// DefaultPollInterval is the default host loop period.
	DefaultPollInterval = 5 * time.Millisecond

	// DefaultSimulationStep is the default virtual tick of the simulate command.
	DefaultSimulationStep = 10 * time.Millisecond

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

// Hardware backends.
const (
	BackendSim    = "sim"
	BackendPeriph = "periph"
)

// Puzzle kinds.
const (
	KindRange    = "range"
	KindSequence = "sequence"
	KindDuration = "duration"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errDeadlineRequired is returned when the deadline is not positive.
	errDeadlineRequired = errors.New("deadline_seconds must be positive")
	// errPuzzlesRequired is returned when no puzzle is configured.
	errPuzzlesRequired = errors.New("at least one puzzle must be configured")
	// errUnknownBackend is returned for an unsupported hardware backend.
	errUnknownBackend = errors.New("unknown backend")
	// errUnknownKind is returned for an unsupported puzzle kind.
	errUnknownKind = errors.New("unknown puzzle kind")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults. Puzzle-specific
// parameters are checked when the puzzles are built.
func Validate(cfg *Config) error {
	if cfg.DeadlineSeconds <= 0 {
		return errDeadlineRequired
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	switch cfg.Backend {
	case "":
		cfg.Backend = BackendSim
	case BackendSim, BackendPeriph:
	default:
		return fmt.Errorf("%q: %w", cfg.Backend, errUnknownBackend)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.Simulation.Step <= 0 {
		cfg.Simulation.Step = DefaultSimulationStep
	}

	validateAlarm(&cfg.Alarm)
	validateActuation(&cfg.Actuation)

	if len(cfg.Puzzles) == 0 {
		return errPuzzlesRequired
	}

	for i := range cfg.Puzzles {
		p := &cfg.Puzzles[i]

		switch p.Kind {
		case KindRange, KindSequence, KindDuration:
		default:
			return fmt.Errorf("puzzle #%d: %q: %w", i+1, p.Kind, errUnknownKind)
		}

		if p.Name == "" {
			p.Name = fmt.Sprintf("%s-%d", p.Kind, i+1)
		}
	}

	return nil
}

// validateAlarm fills the beep defaults: one 100 ms beep per second at the start.
func validateAlarm(a *AlarmConfig) {
	if a.InitialDelay <= 0 {
		a.InitialDelay = time.Second
	}

	if a.MinDelay <= 0 {
		a.MinDelay = 100 * time.Millisecond
	}

	if a.Pulse <= 0 {
		a.Pulse = 100 * time.Millisecond
	}

	if a.Decay == "" {
		a.Decay = "linear"
	}
}

// validateActuation fills the terminal sequence defaults.
func validateActuation(a *ActuationConfig) {
	if a.AckBeep <= 0 {
		a.AckBeep = 200 * time.Millisecond
	}

	if a.AlarmHold <= 0 {
		a.AlarmHold = 3 * time.Second
	}

	if a.ServoRate <= 0 {
		a.ServoRate = 90
	}
}
