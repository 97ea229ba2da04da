package scene

import (
	"fmt"

	"github.com/taigrr/diorama/pkg/math3d"
)

// CommandKind selects what a Command does.
type CommandKind int

const (
	CommandOrbit            CommandKind = iota // Orbit the camera by Yaw, Pitch
	CommandZoom                                // Zoom the camera by Amount
	CommandChangeCenter                        // Look at Vector
	CommandToggleBirdView                      // Switch to or from the bird's-eye view
	CommandTranslateSubject                    // Move the subject by Vector
	CommandRotateSubject                       // Rotate the subject by Vector (Euler radians)
	CommandCycleFocus                          // Follow the next object, or none
	CommandToggleWireframe                     // Switch between filled and wireframe
	CommandQuit                                // Stop the frame loop
)

var commandNames = [...]string{
	CommandOrbit:            "orbit",
	CommandZoom:             "zoom",
	CommandChangeCenter:     "change-center",
	CommandToggleBirdView:   "toggle-bird-view",
	CommandTranslateSubject: "translate-subject",
	CommandRotateSubject:    "rotate-subject",
	CommandCycleFocus:       "cycle-focus",
	CommandToggleWireframe:  "toggle-wireframe",
	CommandQuit:             "quit",
}

// String returns the command name.
func (k CommandKind) String() string {
	if k >= 0 && int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// Command is one input to the scene, produced by a frontend from key
// presses or by Momentum.
type Command struct {
	Kind   CommandKind
	Yaw    float64
	Pitch  float64
	Amount float64
	Vector math3d.Vec3
}

// OrbitBy returns a camera orbit command.
func OrbitBy(yaw, pitch float64) Command {
	return Command{Kind: CommandOrbit, Yaw: yaw, Pitch: pitch}
}

// ZoomBy returns a camera zoom command. Positive amounts move closer.
func ZoomBy(amount float64) Command {
	return Command{Kind: CommandZoom, Amount: amount}
}

// ChangeCenter returns a command pointing the camera at center.
func ChangeCenter(center math3d.Vec3) Command {
	return Command{Kind: CommandChangeCenter, Vector: center}
}

// ToggleBirdView returns a bird's-eye toggle command.
func ToggleBirdView() Command {
	return Command{Kind: CommandToggleBirdView}
}

// TranslateSubject returns a command moving the subject by delta.
func TranslateSubject(delta math3d.Vec3) Command {
	return Command{Kind: CommandTranslateSubject, Vector: delta}
}

// RotateSubject returns a command rotating the subject by delta.
func RotateSubject(delta math3d.Vec3) Command {
	return Command{Kind: CommandRotateSubject, Vector: delta}
}

// CycleFocus returns a focus cycling command.
func CycleFocus() Command {
	return Command{Kind: CommandCycleFocus}
}

// ToggleWireframe returns a raster mode toggle command.
func ToggleWireframe() Command {
	return Command{Kind: CommandToggleWireframe}
}

// Quit returns a quit command.
func Quit() Command {
	return Command{Kind: CommandQuit}
}

func (c Command) String() string {
	switch c.Kind {
	case CommandOrbit:
		return fmt.Sprintf("%v(%.3f, %.3f)", c.Kind, c.Yaw, c.Pitch)
	case CommandZoom:
		return fmt.Sprintf("%v(%.3f)", c.Kind, c.Amount)
	case CommandChangeCenter, CommandTranslateSubject, CommandRotateSubject:
		return fmt.Sprintf("%v(%.3f, %.3f, %.3f)", c.Kind, c.Vector.X, c.Vector.Y, c.Vector.Z)
	default:
		return c.Kind.String()
	}
}
