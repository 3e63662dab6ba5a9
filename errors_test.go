package pad

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(CodeInvalidTarget, "element %s has no stack", "x")
	if got := err.Error(); got != "INVALID_TARGET: element x has no stack" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("eof")
	wrapped := WrapError(CodeInvalidConfig, cause, "decode")
	if got := wrapped.Error(); got != "INVALID_CONFIG: decode: eof" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause not unwrapped")
	}
}

func TestErrorCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(CodeElementRemoved, "gone"))
	if !IsCode(err, CodeElementRemoved) || CodeOf(err) != CodeElementRemoved {
		t.Errorf("code lost through fmt wrapping: %v", err)
	}
	if IsCode(errors.New("plain"), CodeElementRemoved) || CodeOf(nil) != "" {
		t.Error("plain errors carry no code")
	}
}
