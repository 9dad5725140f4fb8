package periph

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MotorPins are the H-bridge pins of one motor.
type MotorPins struct {
	IN1 string `yaml:"in1"`
	IN2 string `yaml:"in2"`
	EN  string `yaml:"en"`
}

// Config maps vehicle signals to GPIO names.
type Config struct {
	Trigger   string    `yaml:"trigger"`
	FrontEcho string    `yaml:"front_echo"`
	RearEcho  string    `yaml:"rear_echo,omitempty"`
	DHT       string    `yaml:"dht"`
	Lights    string    `yaml:"lights,omitempty"`
	Left      MotorPins `yaml:"left"`
	Right     MotorPins `yaml:"right"`
	// PWMHz is the motor PWM frequency.
	PWMHz uint `yaml:"pwm_hz"`
}

// DefaultConfig is the wiring of the reference build on a Raspberry Pi.
func DefaultConfig() *Config {
	return &Config{
		Trigger:   "GPIO23",
		FrontEcho: "GPIO24",
		RearEcho:  "GPIO25",
		DHT:       "GPIO4",
		Lights:    "GPIO27",
		Left:      MotorPins{IN1: "GPIO5", IN2: "GPIO6", EN: "GPIO12"},
		Right:     MotorPins{IN1: "GPIO16", IN2: "GPIO26", EN: "GPIO13"},
		PWMHz:     1000,
	}
}

// LoadConfig reads a YAML pin map on top of DefaultConfig.
func LoadConfig(fn string) (*Config, error) {
	conf := DefaultConfig()
	if fn == "" {
		return conf, nil
	}
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, errors.Wrap(err, "read hardware config")
	}
	if err := yaml.Unmarshal(b, conf); err != nil {
		return nil, errors.Wrapf(err, "parse hardware config %s", fn)
	}
	return conf, nil
}
