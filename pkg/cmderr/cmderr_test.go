package cmderr

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{Modef("only in %s", "config"), ModeViolation},
		{Usagef("bad"), ArgumentFormat},
		{Ambiguousf("x"), Ambiguous},
		{Unknownf("x"), UnknownCommand},
		{Unavailablef("x"), Unavailable},
		{WrongModef("x"), WrongMode},
		{NoParent, NoParentMode},
		{fmt.Errorf("wrapped: %w", Usagef("bad")), ArgumentFormat},
		{errors.New("plain"), 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestErrorsIsByKind(t *testing.T) {
	err := fmt.Errorf("dispatch: %w", Ambiguousf("Ambiguous command: s"))
	if !errors.Is(err, &Error{Kind: Ambiguous}) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, &Error{Kind: UnknownCommand}) {
		t.Error("errors.Is matched the wrong kind")
	}
}

func TestExternalUnwraps(t *testing.T) {
	err := External(os.ErrNotExist, "Failed to execute %s: %v", "ping", os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("External should unwrap to the cause")
	}
	if err.Error() != "Failed to execute ping: file does not exist" {
		t.Errorf("message = %q", err.Error())
	}
	if !IsKind(err, ExternalCommand) {
		t.Error("kind should be external-command")
	}
}
