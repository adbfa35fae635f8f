package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(stderrors.New("boom"), ExitSystem),
			want: "boom",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := stderrors.New("inner")
	err := NewUserError(inner, "try again")

	require.True(t, stderrors.Is(err, inner))
	assert.Equal(t, "try again", err.Suggestion)
}

func TestCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"exit error carries code", NewSystemError(stderrors.New("io"), ""), ExitSystem},
		{"user error", NewUserError(stderrors.New("bad flag"), ""), ExitUser},
		{"declined confirmation is clean abort", ErrConfirmationDeclined, ExitUser},
		{"plain error is system", stderrors.New("unknown"), ExitSystem},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrSourceMissing,
		ErrOptionalSourceMissing,
		ErrBackupNotFound,
		ErrConfirmationDeclined,
		ErrBackendUnavailable,
		ErrNoStrategy,
		ErrEmptyIntent,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, stderrors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}
