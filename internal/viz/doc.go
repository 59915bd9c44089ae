// Package viz renders a running simulation in the terminal.
//
// The live view is a Bubble Tea program that feeds key presses into the
// simulation's input controller and draws each frame descriptor onto a
// braille [Canvas]. Terminals report key presses but not releases, so a
// [Latch] holds each key down until its auto-repeat stops.
//
// # Key Bindings
//
// Camera and pause keys come from the configured bindings (WASD pan, arrow
// keys zoom and rotate, space pause, q wireframe, e texture). The view adds:
//
//	+ / -  scale gravity
//	R      respawn bodies
//	T      cycle color themes
//	?      show help overlay
//	Esc    quit
//
// [RunInteractive] opens a preset picker in front of the live view.
package viz
