package comm

import "fmt"

// Kind is the tag of a Command.
type Kind uint8

// Command kinds.
const (
	None Kind = iota
	Forward
	Backward
	Left
	Right
	Stop
	LightsOn
	LightsOff
	LightsAuto
	GetTemp
	GetHumidity
	GetDistance
	GetInfo
	SetSpeed
	Unknown
)

var kindNames = [...]string{
	None:        "None",
	Forward:     "Forward",
	Backward:    "Backward",
	Left:        "Left",
	Right:       "Right",
	Stop:        "Stop",
	LightsOn:    "LightsOn",
	LightsOff:   "LightsOff",
	LightsAuto:  "LightsAuto",
	GetTemp:     "GetTemp",
	GetHumidity: "GetHumidity",
	GetDistance: "GetDistance",
	GetInfo:     "GetInfo",
	SetSpeed:    "SetSpeed",
	Unknown:     "Unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsMovement reports whether the kind drives the vehicle.
func (k Kind) IsMovement() bool {
	switch k {
	case Forward, Backward, Left, Right, Stop:
		return true
	}
	return false
}

// Command is a decoded command byte.
type Command struct {
	Kind Kind
	// Speed is the requested speed percentage of SetSpeed.
	Speed int
	// Raw is the received byte.
	Raw byte
}

func (c Command) String() string {
	switch c.Kind {
	case SetSpeed:
		return fmt.Sprintf("SetSpeed(%d)", c.Speed)
	case Unknown:
		return fmt.Sprintf("Unknown(%q)", c.Raw)
	}
	return c.Kind.String()
}

// Err returns UnknownCommandError for an Unknown command.
func (c Command) Err() error {
	if c.Kind == Unknown {
		return &UnknownCommandError{Raw: c.Raw}
	}
	return nil
}

var commandKeys = map[byte]Kind{
	'F': Forward, 'W': Forward,
	'B': Backward, 'X': Backward,
	'L': Left, 'A': Left,
	'R': Right, 'D': Right,
	'S': Stop, ' ': Stop,
	'O': LightsOn,
	'P': LightsOff,
	'M': LightsAuto,
	'T': GetTemp,
	'H': GetHumidity,
	'U': GetDistance,
	'I': GetInfo,
}

// Decode maps a received byte to a Command. Letters are case-insensitive,
// '1'-'9' request 10%-90% speed and control bytes are ignored.
func Decode(b byte) Command {
	c := Command{Raw: b}
	key := b
	if key >= 'a' && key <= 'z' {
		key -= 'a' - 'A'
	}
	switch {
	case key >= '1' && key <= '9':
		c.Kind, c.Speed = SetSpeed, int(key-'0')*10
	case key < 32:
		c.Kind = None
	default:
		if kind, ok := commandKeys[key]; ok {
			c.Kind = kind
		} else {
			c.Kind = Unknown
		}
	}
	return c
}
