package errors

import (
	"fmt"
	"log/slog"
	"strings"
)

func CreateUserError(message string, options UserErrorOptions) *UserError {
	err := &UserError{
		message:    message,
		Level:      options.Level,
		Category:   options.Category,
		Details:    options.Details,
		Resolution: options.Resolution,
		Cause:      options.Cause,
	}

	level := slog.LevelWarn
	if err.Level == ErrorLevelFatal {
		level = slog.LevelError
	}

	attrs := []any{
		"category", CategoryName(err.Category),
		"level", LevelName(err.Level),
	}
	if len(err.Details) > 0 {
		attrs = append(attrs, "details", err.Details)
	}
	if len(err.Resolution) > 0 {
		attrs = append(attrs, "resolution", strings.Join(err.Resolution, "; "))
	}
	if err.Cause != nil {
		attrs = append(attrs, "cause", err.Cause.Error())
	}

	slog.Log(nil, level, "User error: "+message, attrs...)
	return err
}

func FormatErrorForDisplay(err error) string {
	if err == nil {
		return ""
	}
	if userErr, ok := err.(*UserError); ok {
		return formatUserError(userErr)
	}
	return formatSystemError(err)
}

func EnsureUserError(err error, defaultMessage string, options UserErrorOptions) *UserError {
	if err == nil {
		return CreateUserError(defaultMessage, options)
	}
	if userErr, ok := err.(*UserError); ok {
		return userErr
	}
	options.Cause = err
	return CreateUserError(defaultMessage, options)
}

func formatUserError(err *UserError) string {
	var b strings.Builder
	b.WriteString(err.Message())
	if len(err.Resolution) > 0 {
		b.WriteString("\n")
		for _, r := range err.Resolution {
			b.WriteString(fmt.Sprintf("  - %s\n", r))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSystemError(err error) string {
	return "Unexpected error: " + err.Error()
}
