package main

import "picsort/internal/session"

// ActionExecutor provides centralized action execution logic shared by the
// keyboard and mouse binding managers
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction executes the given action using the InputActions interface.
// Window-level actions are handled here; everything else is classified into
// a session command.
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions) bool {
	switch action {
	case "exit":
		inputActions.Exit()
	case "help":
		inputActions.ToggleHelp()
	case "copy_path":
		inputActions.CopyPath()
	default:
		cmd, ok := session.CommandForAction(action)
		if !ok {
			return false
		}
		inputActions.Dispatch(cmd)
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()
