package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureUserErrorPassesUserErrorsThrough(t *testing.T) {
	t.Parallel()

	orig := CreateUserError("Interpreter not found.", UserErrorOptions{
		Level:    ErrorLevelError,
		Category: ErrorCategoryInterpreterNotFound,
	})
	require.Same(t, orig, EnsureUserError(orig, "ignored", UserErrorOptions{}))
}

func TestEnsureUserErrorWrapsPlainErrors(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")
	err := EnsureUserError(cause, "Could not load the transcript.", UserErrorOptions{
		Level:    ErrorLevelWarning,
		Category: ErrorCategoryDatabase,
	})
	require.Equal(t, "Could not load the transcript.", err.Message())
	require.Equal(t, ErrorCategoryDatabase, err.Category)
	require.Same(t, cause, err.Cause)
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	require.Empty(t, FormatErrorForDisplay(nil))
	require.Equal(t, "Unexpected error: disk full",
		FormatErrorForDisplay(stderrors.New("disk full")))

	withRes := CreateUserError("Script not found.", UserErrorOptions{
		Level:      ErrorLevelError,
		Category:   ErrorCategoryScriptNotFound,
		Resolution: []string{"Run `scriptterm scripts` to list the stored scripts."},
	})
	require.Equal(t,
		"Script not found.\n  - Run `scriptterm scripts` to list the stored scripts.",
		FormatErrorForDisplay(withRes))
}
