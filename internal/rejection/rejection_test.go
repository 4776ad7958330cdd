package rejection

import (
	"errors"
	"fmt"
	"testing"
)

func TestAsAndCodeOf(t *testing.T) {
	sentinel := New(StepUpAuthorization, "NotAuthorized", "not authorized")
	wrapped := fmt.Errorf("approve: %w", sentinel)

	r, ok := As(wrapped)
	if !ok || r != sentinel {
		t.Fatalf("As(wrapped) = %v, %v", r, ok)
	}
	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is should see the sentinel through wrapping")
	}
	if got := CodeOf(wrapped); got != "NotAuthorized" {
		t.Errorf("CodeOf = %q", got)
	}
	if got := CodeOf(errors.New("boom")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if _, ok := As(nil); ok {
		t.Error("As(nil) should be false")
	}
}

func TestClassString(t *testing.T) {
	testCases := []struct {
		class Class
		want  string
	}{
		{IdentityCompliance, "identity_compliance"},
		{RecoveryAuthorization, "recovery_authorization"},
		{StepUpAuthorization, "step_up_authorization"},
		{Provisioning, "provisioning"},
		{Class(99), "unknown"},
	}
	for _, tc := range testCases {
		if got := tc.class.String(); got != tc.want {
			t.Errorf("Class(%d).String() = %q, want %q", tc.class, got, tc.want)
		}
	}
}
