package periph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/oshokin/defuse-box/internal/hardware"
	"github.com/oshokin/defuse-box/internal/logger"
)

const (
	// servoFrequency is the refresh rate of a hobby servo.
	servoFrequency = 50 * physic.Hertz
	// servoPeriodUs is the length of one servo frame.
	servoPeriodUs = 20000
	// servoMinPulseUs is the pulse width at 0 degrees.
	servoMinPulseUs = 500
	// servoMaxPulseUs is the pulse width at 180 degrees.
	servoMaxPulseUs = 2500
	// servoMaxAngle is the largest supported angle.
	servoMaxAngle = 180
	// adcFrequency is the SPI clock of the MCP3008.
	adcFrequency = physic.MegaHertz
	// adcChannels is the number of MCP3008 inputs.
	adcChannels = 8
)

var (
	// ErrUnknownPin is returned when a GPIO name does not exist on the host.
	ErrUnknownPin = errors.New("unknown GPIO")
	// ErrADCChannel is returned for an ADC input outside 0..7.
	ErrADCChannel = errors.New("ADC channel out of range")
	// ErrUnknownPull is returned for an unsupported input bias.
	ErrUnknownPull = errors.New("unknown pull")
)

// RGBPins names the GPIOs of one RGB LED.
type RGBPins struct {
	R string
	G string
	B string
}

// Config maps channels to Raspberry Pi resources.
type Config struct {
	// SPIPort is the ADC port; empty opens the first one.
	SPIPort string
	// Pull is the input bias: "down" (default), "up" or "float".
	Pull string
	// Digital maps input channels to GPIO names.
	Digital map[hardware.Channel]string
	// Analog maps input channels to MCP3008 inputs.
	Analog map[hardware.Channel]int
	// Indicators maps LED channels to their pins.
	Indicators map[hardware.Channel]RGBPins
	// Alarm is the buzzer GPIO, optional.
	Alarm string
	// Servo is the servo GPIO, optional.
	Servo string
	// Display receives the status text.
	Display io.Writer
}

// Board is a hardware.Board backed by periph.io.
type Board struct {
	*hardware.ConsoleDisplay

	digital    map[hardware.Channel]gpio.PinIO
	analog     map[hardware.Channel]int
	indicators map[hardware.Channel][3]gpio.PinIO
	alarm      gpio.PinIO
	servo      gpio.PinIO
	port       spi.PortCloser
	adc        spi.Conn
	// log reports I/O failures, which never stop the session.
	log *zap.SugaredLogger
	// mu serializes SPI transactions.
	mu sync.Mutex
}

// Open initializes the host drivers and claims every configured resource.
func Open(ctx context.Context, cfg Config) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize periph host: %w", err)
	}

	pull, err := parsePull(cfg.Pull)
	if err != nil {
		return nil, err
	}

	b := &Board{
		ConsoleDisplay: hardware.NewConsoleDisplay(cfg.Display),
		digital:        make(map[hardware.Channel]gpio.PinIO, len(cfg.Digital)),
		analog:         make(map[hardware.Channel]int, len(cfg.Analog)),
		indicators:     make(map[hardware.Channel][3]gpio.PinIO, len(cfg.Indicators)),
		log:            logger.FromContext(ctx).Named("periph"),
	}

	for ch, name := range cfg.Digital {
		pin, err := lookup(name)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", ch, err)
		}

		if err = pin.In(pull, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configure input %q on %s: %w", ch, name, err)
		}

		b.digital[ch] = pin
	}

	for ch, pins := range cfg.Indicators {
		var rgb [3]gpio.PinIO

		for i, name := range []string{pins.R, pins.G, pins.B} {
			if rgb[i], err = output(name); err != nil {
				return nil, fmt.Errorf("indicator %q: %w", ch, err)
			}
		}

		b.indicators[ch] = rgb
	}

	if cfg.Alarm != "" {
		if b.alarm, err = output(cfg.Alarm); err != nil {
			return nil, fmt.Errorf("alarm: %w", err)
		}
	}

	if cfg.Servo != "" {
		if b.servo, err = lookup(cfg.Servo); err != nil {
			return nil, fmt.Errorf("servo: %w", err)
		}
	}

	if len(cfg.Analog) > 0 {
		if err = b.openADC(cfg.SPIPort, cfg.Analog); err != nil {
			return nil, err
		}
	}

	b.log.Infow("Board opened",
		"inputs", len(b.digital),
		"analog_inputs", len(b.analog),
		"indicators", len(b.indicators),
	)

	return b, nil
}

// openADC connects to the MCP3008.
func (b *Board) openADC(port string, channels map[hardware.Channel]int) error {
	for ch, input := range channels {
		if input < 0 || input >= adcChannels {
			return fmt.Errorf("analog %q: input %d: %w", ch, input, ErrADCChannel)
		}

		b.analog[ch] = input
	}

	p, err := spireg.Open(port)
	if err != nil {
		return fmt.Errorf("open SPI port %q: %w", port, err)
	}

	conn, err := p.Connect(adcFrequency, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()

		return fmt.Errorf("connect ADC: %w", err)
	}

	b.port = p
	b.adc = conn

	return nil
}

// Close silences the outputs and releases the SPI port.
func (b *Board) Close() error {
	if b.alarm != nil {
		_ = b.alarm.Out(gpio.Low)
	}

	if b.servo != nil {
		_ = b.servo.Halt()
	}

	if b.port != nil {
		if err := b.port.Close(); err != nil {
			return fmt.Errorf("close SPI port: %w", err)
		}
	}

	return nil
}

// ReadAnalog implements hardware.Inputs. Unknown channels and failed
// transfers read as zero.
func (b *Board) ReadAnalog(ch hardware.Channel) int {
	input, ok := b.analog[ch]
	if !ok || b.adc == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		request  = adcRequest(input)
		response = make([]byte, len(request))
	)

	if err := b.adc.Tx(request, response); err != nil {
		b.log.Warnw("ADC read failed", "channel", ch, "error", err)

		return 0
	}

	return adcValue(response)
}

// ReadDigital implements hardware.Inputs. Unknown channels read low.
func (b *Board) ReadDigital(ch hardware.Channel) bool {
	pin, ok := b.digital[ch]
	if !ok {
		return false
	}

	return pin.Read() == gpio.High
}

// SetAlarm implements hardware.Outputs.
func (b *Board) SetAlarm(on bool) {
	if b.alarm == nil {
		return
	}

	if err := b.alarm.Out(gpio.Level(on)); err != nil {
		b.log.Warnw("Alarm write failed", "error", err)
	}
}

// SetServoAngle implements hardware.Outputs.
func (b *Board) SetServoAngle(angle int) {
	if b.servo == nil {
		return
	}

	if err := b.servo.PWM(servoDuty(angle), servoFrequency); err != nil {
		b.log.Warnw("Servo write failed", "angle", angle, "error", err)
	}
}

// SetIndicatorColor implements hardware.Outputs. Each color component lights
// its LED when it is at least half intensity.
func (b *Board) SetIndicatorColor(ch hardware.Channel, c hardware.Color) {
	pins, ok := b.indicators[ch]
	if !ok {
		return
	}

	for i, component := range []uint8{c.R, c.G, c.B} {
		if err := pins[i].Out(componentLevel(component)); err != nil {
			b.log.Warnw("Indicator write failed", "channel", ch, "error", err)
		}
	}
}

// lookup finds a GPIO by name.
func lookup(name string) (gpio.PinIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownPin)
	}

	return pin, nil
}

// output finds a GPIO and drives it low.
func output(name string) (gpio.PinIO, error) {
	pin, err := lookup(name)
	if err != nil {
		return nil, err
	}

	if err = pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("configure output %s: %w", name, err)
	}

	return pin, nil
}

// parsePull converts a bias name.
func parsePull(name string) (gpio.Pull, error) {
	switch name {
	case "", "down":
		return gpio.PullDown, nil
	case "up":
		return gpio.PullUp, nil
	case "float":
		return gpio.Float, nil
	default:
		return gpio.PullNoChange, fmt.Errorf("%q: %w", name, ErrUnknownPull)
	}
}

// adcRequest builds the MCP3008 single-ended read frame for input.
func adcRequest(input int) []byte {
	return []byte{0x01, byte(0x80 | (input&0x07)<<4), 0x00}
}

// adcValue extracts the 10-bit sample from an MCP3008 response.
func adcValue(response []byte) int {
	return int(response[1]&0x03)<<8 | int(response[2])
}

// servoDuty converts an angle to the PWM duty cycle of a 50 Hz servo frame.
func servoDuty(angle int) gpio.Duty {
	angle = min(max(angle, 0), servoMaxAngle)
	pulseUs := servoMinPulseUs + (servoMaxPulseUs-servoMinPulseUs)*angle/servoMaxAngle

	return gpio.Duty(int64(gpio.DutyMax) * int64(pulseUs) / servoPeriodUs)
}

// componentLevel maps a color component to an LED level.
func componentLevel(component uint8) gpio.Level {
	return gpio.Level(component >= 0x80)
}
