package exitcodes

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"plain error", errors.New("boom"), GeneralError},
		{"explicit code", ValidationErr("cannot downgrade"), ValidationError},
		{"wrapped cause", WrapError(NetworkError, "download failed", errors.New("reset")), NetworkError},
		{"nested in fmt wrap", fmt.Errorf("pipeline: %w", DataErr("asset not found")), DataError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeForError(tt.err); got != tt.want {
				t.Errorf("CodeForError = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorWithCodeMessage(t *testing.T) {
	err := WrapError(NetworkError, "download failed", errors.New("connection reset"))
	if err.Error() != "download failed: connection reset" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, err.Cause) {
		t.Error("Unwrap must expose the cause")
	}

	bare := PreconditionError("already installed")
	if bare.Error() != "already installed" {
		t.Errorf("Error() = %q", bare.Error())
	}
}
