// Package see is the adapter to visualize a 2D world in
// github.com/robotalks/see.
package see

import (
	"encoding/json"
	"io"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/sim"
)

// Body is a visible object of a Scene.
type Body struct {
	ID   string
	Type string
	// Outline is the absolute area of a static body, or the area around
	// the pose of a moving body.
	Outline sim.Rect
	Pose    sim.Pose2D
	Static  bool
	Props   map[string]interface{}
}

// Scene provides the bodies to visualize.
type Scene interface {
	Bodies() []Body
	// Changed reports and clears pending changes of moving bodies.
	Changed() bool
}

// Object is the data model used to represents an object.
type Object map[string]interface{}

// Rect is object rect area.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Pos is a position.
type Pos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Message is the message for see.
type Message struct {
	Action string `json:"action"`
	Object Object `json:"object,omitempty"`
}

// Actions
const (
	ActionReset  = "reset"
	ActionObject = "object"
)

// Properties
const (
	PropID     = "id"
	PropType   = "type"
	PropRect   = "rect"
	PropOrigin = "origin"
	PropRotate = "rotate"
)

// ObjectFrom maps a Body into the see data model.
func ObjectFrom(b Body) Object {
	o := Object{PropID: b.ID, PropType: b.Type}
	rc := b.Outline
	o[PropRect] = &Rect{X: rc.X, Y: rc.Y, W: rc.CX, H: rc.CY}
	if !b.Static {
		o[PropOrigin] = &Pos{X: b.Pose.X, Y: b.Pose.Y}
		o[PropRotate] = b.Pose.Orientation.Degrees()
	}
	for k, v := range b.Props {
		o[k] = v
	}
	return o
}

// Adapter writes see messages for a Scene.
type Adapter struct {
	Config *Config
	Scene  Scene
	Writer io.Writer

	initial bool
}

// NewAdapter creates the adapter writing to stdout.
func NewAdapter(config *Config, scene Scene) *Adapter {
	return &Adapter{
		Config:  config,
		Scene:   scene,
		Writer:  os.Stdout,
		initial: true,
	}
}

// AddToLoop implements LoopAdder.
func (a *Adapter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(a.ReportChanges))
}

// ReportChanges is a controller to report changes.
func (a *Adapter) ReportChanges(cc fx.ControlContext) error {
	var msgs []Message
	changed := a.Scene.Changed()
	if a.initial {
		w, h := a.Config.W, a.Config.H
		msgs = append(msgs, Message{Action: ActionReset}, Message{
			Action: ActionObject,
			Object: Object{PropID: "area", PropType: "area", PropRect: &Rect{X: -w / 2, Y: -h / 2, W: w, H: h}},
		})
	}
	for _, b := range a.Scene.Bodies() {
		if a.initial || (changed && !b.Static) {
			msgs = append(msgs, Message{Action: ActionObject, Object: ObjectFrom(b)})
		}
	}
	a.initial = false
	if len(msgs) == 0 {
		return nil
	}
	encoded, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	if _, err := a.Writer.Write(append(encoded, '\n')); err != nil {
		glog.Warningf("see write error: %v", err)
	}
	return nil
}
