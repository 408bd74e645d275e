package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"

	"rotenc/pkg/encoder"
)

// Config holds the application configuration.
// Config defines the struct of global config and the struct of the configuration file.
// Integer fields with the suffix Int hold milliseconds and are converted to
// the time.Duration fields by LoadConfig.
type Config struct {
	Encoder         EncoderConfig   `yaml:"encoder"`
	Gpio            GpioConfig      `yaml:"gpio"`
	PollIntervalInt int             `yaml:"pollinterval"`
	PollInterval    time.Duration   `yaml:"-"`
	Velocity        VelocityConfig  `yaml:"velocity"`
	Flag            FlagConfig      `yaml:"-"`
	Debug           DebugConfig     `yaml:"debug"`
	Webserver       WebserverConfig `yaml:"webserver"`
	MQTT            MQTTConfig      `yaml:"mqtt"`
}

// EncoderConfig defines the encoder pins and scale.
type EncoderConfig struct {
	PinA          int           `yaml:"pina"`
	PinB          int           `yaml:"pinb"`
	BounceTimeInt int           `yaml:"bouncetime"`
	BounceTime    time.Duration `yaml:"-"`
	Detents       uint          `yaml:"detents"`
	MaxAngle      uint          `yaml:"maxangle"`
	// Strategy is the decoding strategy (quadrature|edge)
	Strategy string `yaml:"strategy"`
	// Pull is the bias of both contact pins (pullup|pulldown|none)
	Pull string `yaml:"pull"`
}

// GpioConfig defines the gpio backend.
type GpioConfig struct {
	Driver string `yaml:"driver"`
	Chip   string `yaml:"chip"`
}

// VelocityConfig defines fast spin detection.
type VelocityConfig struct {
	WindowInt int           `yaml:"window"`
	Window    time.Duration `yaml:"-"`
	FastSpin  int           `yaml:"fastspin"`
}

// FlagConfig defines the configured flags (parameters)
type FlagConfig struct {
	Debug      string
	ConfigFile string
}

// WebserverConfig defines the struct of the webserver and webservice configuration and configuration file
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration and configuration file
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	ClientID   string `yaml:"clientid"`
	Topic      string `yaml:"topic"`
}

// DebugConfig defines the struct of the debug configuration and configuration file
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

func NewConfig() *Config {
	return &Config{
		Encoder: EncoderConfig{
			PinA:          17,
			PinB:          27,
			BounceTimeInt: int(encoder.DefaultBounceTime / time.Millisecond),
			Detents:       encoder.DefaultDetents,
			MaxAngle:      encoder.DefaultMaxAngle,
			Strategy:      encoder.StrategyQuadrature,
			Pull:          "pullup",
		},
		Gpio: GpioConfig{
			Driver: "gpiod",
			Chip:   "gpiochip0",
		},
		PollIntervalInt: 1,
		Velocity: VelocityConfig{
			WindowInt: 200,
			FastSpin:  4,
		},
		Flag: FlagConfig{},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version": true,
				"health":  true,
				"data":    true,
			},
		},
		MQTT: MQTTConfig{
			Connection: "",
			ClientID:   "rotenc",
			Topic:      "/rotenc/position",
		},
	}
}

// LoadConfig reads the config file, applies the command line flags
// and opens the debug file.
func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.Debug != "" {
		c.Debug.FlagString = c.Flag.Debug
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to open debug file %q: %w", c.Debug.FileString, err)
	}

	c.setDurations()
	return nil
}

// EncoderParams returns the parameters of the encoder decoder.
func (c *Config) EncoderParams() encoder.Config {
	return encoder.Config{
		PinA:       c.Encoder.PinA,
		PinB:       c.Encoder.PinB,
		BounceTime: c.Encoder.BounceTime,
		Detents:    c.Encoder.Detents,
		MaxAngle:   c.Encoder.MaxAngle,
	}
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	return c.decode(file)
}

func (c *Config) decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (c *Config) setDurations() {
	c.Encoder.BounceTime = time.Duration(c.Encoder.BounceTimeInt) * time.Millisecond
	c.Velocity.Window = time.Duration(c.Velocity.WindowInt) * time.Millisecond
	c.PollInterval = time.Duration(c.PollIntervalInt) * time.Millisecond
	if c.PollInterval <= 0 {
		c.PollInterval = time.Millisecond
	}
}

func (c *Config) setDebugConfig() (err error) {
	// defines Debug section of global.Config
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	default:
		return fmt.Errorf("unknown debug flag %q", c.Debug.FlagString)
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}
