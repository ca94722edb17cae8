package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/mode-compass/internal/compass"
)

var (
	cursorPosition       = ebiten.CursorPosition
	isMouseButtonPressed = ebiten.IsMouseButtonPressed
	isKeyPressed         = ebiten.IsKeyPressed
	appendTouchIDs       = ebiten.AppendTouchIDs
	touchPosition        = ebiten.TouchPosition
)

// SetInputForTest replaces the input sources and returns a function that
// restores the originals.
func SetInputForTest(
	cursor func() (int, int),
	mouse func(ebiten.MouseButton) bool,
	key func(ebiten.Key) bool,
) func() {
	oldCursor, oldMouse, oldKey := cursorPosition, isMouseButtonPressed, isKeyPressed
	oldTouches, oldTouchPos := appendTouchIDs, touchPosition
	cursorPosition = cursor
	isMouseButtonPressed = mouse
	isKeyPressed = key
	appendTouchIDs = func(ids []ebiten.TouchID) []ebiten.TouchID { return ids }
	return func() {
		cursorPosition = oldCursor
		isMouseButtonPressed = oldMouse
		isKeyPressed = oldKey
		appendTouchIDs = oldTouches
		touchPosition = oldTouchPos
	}
}

// pointer returns the primary pointer: the left mouse button, or else the
// first touch.
func pointer() (x, y int, down bool) {
	if isMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y = cursorPosition()
		return x, y, true
	}
	if ids := appendTouchIDs(nil); len(ids) > 0 {
		x, y = touchPosition(ids[0])
		return x, y, true
	}
	x, y = cursorPosition()
	return x, y, false
}

type actionKind int

const (
	actRotate actionKind = iota
	actSelect
	actReset
	actReplay
	actLoad
	actExport
	actQuit
)

type action struct {
	kind    actionKind
	control compass.Control
	n       int
}

var digitKeys = [...]ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// watchedKeys are polled for edges every frame.
var watchedKeys = append(digitKeys[:], []ebiten.Key{
	ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyArrowUp, ebiten.KeyArrowDown,
	ebiten.KeyBracketLeft, ebiten.KeyBracketRight,
	ebiten.KeyMinus, ebiten.KeyEqual,
	ebiten.KeyR, ebiten.KeySpace, ebiten.KeyO, ebiten.KeyE,
	ebiten.KeyEscape, ebiten.KeyQ,
}...)

// keyAction maps a key press to a command. Shift triples step sizes.
func keyAction(k ebiten.Key, shift bool) (action, bool) {
	step := 1
	if shift {
		step = 3
	}
	switch k {
	case ebiten.KeyArrowLeft:
		return action{kind: actRotate, control: compass.PitchControl, n: -step}, true
	case ebiten.KeyArrowRight:
		return action{kind: actRotate, control: compass.PitchControl, n: step}, true
	case ebiten.KeyArrowUp:
		return action{kind: actRotate, control: compass.DegreeControl, n: step}, true
	case ebiten.KeyArrowDown:
		return action{kind: actRotate, control: compass.DegreeControl, n: -step}, true
	case ebiten.KeyBracketLeft:
		return action{kind: actRotate, control: compass.ChromaticControl, n: -step}, true
	case ebiten.KeyBracketRight:
		return action{kind: actRotate, control: compass.ChromaticControl, n: step}, true
	case ebiten.KeyMinus:
		return action{kind: actSelect, n: 10}, true
	case ebiten.KeyEqual:
		return action{kind: actSelect, n: 11}, true
	case ebiten.KeyR:
		return action{kind: actReset}, true
	case ebiten.KeySpace:
		return action{kind: actReplay}, true
	case ebiten.KeyO:
		return action{kind: actLoad}, true
	case ebiten.KeyE:
		return action{kind: actExport}, true
	case ebiten.KeyEscape, ebiten.KeyQ:
		return action{kind: actQuit}, true
	}
	for i, d := range digitKeys {
		if k == d {
			return action{kind: actSelect, n: i}, true
		}
	}
	return action{}, false
}
