// Package serial links a vehicle to a UART or Bluetooth SPP port.
package serial

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// DefaultBaud is the rate of the HC-05 class Bluetooth modules.
const DefaultBaud = 9600

// Spec is a serial port with its rate.
type Spec struct {
	Device string
	Baud   int
}

// ParseSpec parses DEVICE[@BAUD], e.g. /dev/rfcomm0@9600.
func ParseSpec(s string) (Spec, error) {
	spec := Spec{Device: s, Baud: DefaultBaud}
	if pos := strings.LastIndex(s, "@"); pos >= 0 {
		baud, err := strconv.Atoi(s[pos+1:])
		if err != nil || baud <= 0 {
			return spec, errors.Errorf("invalid baud rate in %q", s)
		}
		spec.Device, spec.Baud = s[:pos], baud
	}
	if spec.Device == "" {
		return spec, errors.New("serial device required")
	}
	return spec, nil
}

func (s Spec) String() string {
	return s.Device + "@" + strconv.Itoa(s.Baud)
}

// Open opens the port in 8N1.
func Open(spec Spec) (serial.Port, error) {
	port, err := serial.Open(spec.Device, &serial.Mode{
		BaudRate: spec.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", spec)
	}
	return port, nil
}
