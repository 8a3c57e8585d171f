package session

import (
	"strconv"
	"strings"

	"picsort/internal/viewport"
	"picsort/internal/workflow"
)

// MaxSlots is the number of categories with a shortcut.
const MaxSlots = 9

// CommandKind identifies what a Command does.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdNavigate
	CmdMoveSlot
	CmdUndo
	CmdZoomStep
	CmdZoomAt
	CmdZoomFit
	CmdPan
)

// Command is one classified user input.
type Command struct {
	Kind      CommandKind
	Direction workflow.Direction // CmdNavigate
	Slot      int                // CmdMoveSlot, 1-based
	Steps     int                // CmdZoomStep, CmdZoomAt
	Cursor    viewport.Point     // CmdZoomAt
	Delta     viewport.Point     // CmdPan
}

var actionCommands = map[string]Command{
	"next":     {Kind: CmdNavigate, Direction: workflow.Next},
	"previous": {Kind: CmdNavigate, Direction: workflow.Prev},
	"first":    {Kind: CmdNavigate, Direction: workflow.First},
	"last":     {Kind: CmdNavigate, Direction: workflow.Last},
	"undo":     {Kind: CmdUndo},
	"zoom_in":  {Kind: CmdZoomStep, Steps: 1},
	"zoom_out": {Kind: CmdZoomStep, Steps: -1},
	"zoom_fit": {Kind: CmdZoomFit},
}

// CommandForAction maps a binding action name to a session command. Actions
// that only concern the window, such as help or exit, are not commands.
func CommandForAction(action string) (Command, bool) {
	if cmd, ok := actionCommands[action]; ok {
		return cmd, true
	}
	if rest, ok := strings.CutPrefix(action, "category_"); ok {
		n, err := strconv.Atoi(rest)
		if err == nil && n >= 1 && n <= MaxSlots {
			return Command{Kind: CmdMoveSlot, Slot: n}, true
		}
	}
	return Command{}, false
}

// WheelCommand builds a cursor-anchored zoom command.
func WheelCommand(cursor viewport.Point, steps int) Command {
	return Command{Kind: CmdZoomAt, Cursor: cursor, Steps: steps}
}

// PanCommand builds a drag command.
func PanCommand(dx, dy float64) Command {
	return Command{Kind: CmdPan, Delta: viewport.Point{X: dx, Y: dy}}
}
