// Package rejection classifies the terminal failures returned by the gate and the
// protocols that feed it. A rejection is a policy decision, never a transient fault:
// callers surface Code to the initiator and do not retry.
package rejection

import "errors"

// Class groups rejections by the mechanism that produced them.
type Class int

const (
	// IdentityCompliance covers attestation and quarantine failures.
	IdentityCompliance Class = iota + 1
	// RecoveryAuthorization covers quorum and cooldown failures.
	RecoveryAuthorization
	// StepUpAuthorization covers approval failures.
	StepUpAuthorization
	// Provisioning covers missing or duplicate records and malformed requests.
	Provisioning
)

func (c Class) String() string {
	switch c {
	case IdentityCompliance:
		return "identity_compliance"
	case RecoveryAuthorization:
		return "recovery_authorization"
	case StepUpAuthorization:
		return "step_up_authorization"
	case Provisioning:
		return "provisioning"
	default:
		return "unknown"
	}
}

// Error is a classified rejection. Values are compared by identity, so each
// package declares its rejections once as sentinels.
type Error struct {
	Class   Class
	Code    string
	Message string
}

// New returns a rejection sentinel.
func New(class Class, code, message string) *Error {
	return &Error{Class: class, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// As returns the rejection wrapped in err, if any.
func As(err error) (*Error, bool) {
	var r *Error
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// CodeOf returns the rejection code in err, or "" when err is not a rejection.
func CodeOf(err error) string {
	if r, ok := As(err); ok {
		return r.Code
	}
	return ""
}

// ErrInvalidArgument is the shared rejection for malformed requests.
var ErrInvalidArgument = New(Provisioning, "InvalidArgument", "invalid argument")
