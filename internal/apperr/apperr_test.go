package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsUser(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "user", err: User("bad preset"), want: true},
		{name: "wrapped user", err: fmt.Errorf("load: %w", Userf("unknown preset %q", "x")), want: true},
		{name: "cancelled", err: ErrCancelled, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUser(tt.err); got != tt.want {
				t.Fatalf("IsUser(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestUserfFormatsMessage(t *testing.T) {
	err := Userf("unknown parameter %q", "neck_lenght")
	if err.Error() != `unknown parameter "neck_lenght"` {
		t.Fatalf("Error() = %q", err.Error())
	}
}
