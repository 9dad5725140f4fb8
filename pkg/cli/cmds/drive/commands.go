// Package drive exposes the vehicle command bytes as shell commands.
package drive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rover.go/pkg/cli/sh"
)

// Key is a shell command sending a single command byte.
type Key struct {
	Name    string
	Aliases []string
	Help    string
	Byte    byte
}

// Keys are the single byte commands.
var Keys = []Key{
	{Name: "forward", Aliases: []string{"f", "w"}, Help: "Drive forward", Byte: 'F'},
	{Name: "back", Aliases: []string{"b", "x"}, Help: "Drive backward", Byte: 'B'},
	{Name: "left", Aliases: []string{"l", "a"}, Help: "Turn left", Byte: 'L'},
	{Name: "right", Aliases: []string{"r", "d"}, Help: "Turn right", Byte: 'R'},
	{Name: "stop", Aliases: []string{"s"}, Help: "Stop", Byte: 'S'},
	{Name: "lights.on", Aliases: []string{"on"}, Help: "Lights on", Byte: 'O'},
	{Name: "lights.off", Aliases: []string{"off"}, Help: "Lights off", Byte: 'P'},
	{Name: "lights.auto", Aliases: []string{"auto"}, Help: "Toggle automatic lights", Byte: 'M'},
	{Name: "temp", Aliases: []string{"t"}, Help: "Read temperature", Byte: 'T'},
	{Name: "humidity", Aliases: []string{"h"}, Help: "Read humidity", Byte: 'H'},
	{Name: "dist", Aliases: []string{"u"}, Help: "Read distances", Byte: 'U'},
	{Name: "info", Aliases: []string{"i"}, Help: "Show status", Byte: 'I'},
}

// SpeedKey maps a speed percentage to its command byte. Only the
// multiples of 10 from 10 to 90 are representable.
func SpeedKey(pct int) (byte, error) {
	if pct < 10 || pct > 90 || pct%10 != 0 {
		return 0, fmt.Errorf("speed must be one of 10, 20, ... 90")
	}
	return byte('0' + pct/10), nil
}

func (k Key) cmd() *ishell.Cmd {
	b := k.Byte
	return &ishell.Cmd{
		Name:    k.Name,
		Aliases: k.Aliases,
		Help:    fmt.Sprintf("%s (%q)", k.Help, b),
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Send(c, b)
		}),
	}
}

var (
	// SpeedCmd sets the speed.
	SpeedCmd = ishell.Cmd{
		Name:    "speed",
		Aliases: []string{"sp"},
		Help:    "PERCENT",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PERCENT required"))
				return
			}
			pct, err := strconv.Atoi(strings.TrimSuffix(c.Args[0], "%"))
			if err != nil {
				c.Err(fmt.Errorf("Invalid PERCENT: %v", err))
				return
			}
			b, err := SpeedKey(pct)
			if err != nil {
				c.Err(err)
				return
			}
			sh.Send(c, b)
		}),
	}

	// RawCmd sends the arguments as command bytes.
	RawCmd = ishell.Cmd{
		Name:    "raw",
		Aliases: []string{"send"},
		Help:    "BYTES",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("BYTES required"))
				return
			}
			sh.Send(c, []byte(strings.Join(c.Args, " "))...)
		}),
	}
)

func init() {
	for _, k := range Keys {
		sh.AddCmds(k.cmd())
	}
	sh.AddCmds(&SpeedCmd, &RawCmd)
}
