package main

import (
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/scene"
)

const (
	orbitStep = 0.05 // Radians per key press
	zoomStep  = 3.0
	moveStep  = 0.5
	turnStep  = 0.1
)

// binding maps key names, as ultraviolet spells them, to a command.
type binding struct {
	keys []string
	cmd  scene.Command
}

var bindings = []binding{
	{[]string{"left"}, scene.OrbitBy(-orbitStep, 0)},
	{[]string{"right"}, scene.OrbitBy(orbitStep, 0)},
	{[]string{"up"}, scene.OrbitBy(0, orbitStep)},
	{[]string{"down"}, scene.OrbitBy(0, -orbitStep)},
	{[]string{"k", "+", "="}, scene.ZoomBy(zoomStep)},
	{[]string{"j", "-", "_"}, scene.ZoomBy(-zoomStep)},
	{[]string{"b"}, scene.ToggleBirdView()},
	{[]string{"f", "tab"}, scene.CycleFocus()},
	{[]string{"x"}, scene.ToggleWireframe()},
	{[]string{"w"}, scene.TranslateSubject(math3d.V3(0, 0, -moveStep))},
	{[]string{"s"}, scene.TranslateSubject(math3d.V3(0, 0, moveStep))},
	{[]string{"a"}, scene.TranslateSubject(math3d.V3(-moveStep, 0, 0))},
	{[]string{"d"}, scene.TranslateSubject(math3d.V3(moveStep, 0, 0))},
	{[]string{"q"}, scene.RotateSubject(math3d.V3(0, turnStep, 0))},
	{[]string{"e"}, scene.RotateSubject(math3d.V3(0, -turnStep, 0))},
	{[]string{"escape", "ctrl+c"}, scene.Quit()},
}

// commandFor returns the command bound to a key name.
func commandFor(key string) (scene.Command, bool) {
	for _, b := range bindings {
		for _, k := range b.keys {
			if k == key {
				return b.cmd, true
			}
		}
	}
	return scene.Command{}, false
}
