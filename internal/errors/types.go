package errors

import "fmt"

type ErrorLevel int

const (
	ErrorLevelInfo ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelError
	ErrorLevelFatal
)

type ErrorCategory int

const (
	ErrorCategoryConfiguration ErrorCategory = iota
	ErrorCategoryInterpreter
	ErrorCategoryInterpreterNotFound
	ErrorCategoryScriptNotFound
	ErrorCategoryFileSystem
	ErrorCategoryDatabase
	ErrorCategoryInternal
)

type UserErrorOptions struct {
	Level      ErrorLevel
	Category   ErrorCategory
	Details    map[string]any
	Resolution []string
	Cause      error
}

// UserError is an error meant to be shown to the user as a notice
// rather than a crash: it carries a category, a severity, and
// suggested resolutions.
type UserError struct {
	message    string
	Level      ErrorLevel
	Category   ErrorCategory
	Details    map[string]any
	Resolution []string
	Cause      error
}

func (e *UserError) Error() string {
	return e.message
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

func (e *UserError) Message() string {
	return e.message
}

func (e *UserError) String() string {
	return fmt.Sprintf("%s (category=%s)", e.message, CategoryName(e.Category))
}

func CategoryName(category ErrorCategory) string {
	switch category {
	case ErrorCategoryConfiguration:
		return "Configuration"
	case ErrorCategoryInterpreter:
		return "Interpreter"
	case ErrorCategoryInterpreterNotFound:
		return "InterpreterNotFound"
	case ErrorCategoryScriptNotFound:
		return "ScriptNotFound"
	case ErrorCategoryFileSystem:
		return "FileSystem"
	case ErrorCategoryDatabase:
		return "Database"
	case ErrorCategoryInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

func LevelName(level ErrorLevel) string {
	switch level {
	case ErrorLevelInfo:
		return "Info"
	case ErrorLevelWarning:
		return "Warning"
	case ErrorLevelError:
		return "Error"
	case ErrorLevelFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}
