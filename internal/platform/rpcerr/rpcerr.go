// Package rpcerr translates service errors into gRPC statuses. Rejections keep
// their kind in an ErrorInfo detail; anything else is logged and hidden behind Internal.
package rpcerr

import (
	"fmt"
	"log"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"transfer-gate/internal/address"
	"transfer-gate/internal/rejection"
)

// Domain is the ErrorInfo domain of every rejection.
const Domain = "tgate"

var codeByKind = map[string]codes.Code{
	"IdentityNotFound":           codes.NotFound,
	"AccountNotFound":            codes.NotFound,
	"RecoveryNotInitialized":     codes.NotFound,
	"StepUpNotInitialized":       codes.NotFound,
	"IdentityAlreadyExists":      codes.AlreadyExists,
	"IdentityAlreadyRecovered":   codes.AlreadyExists,
	"RecoveryAlreadyInitialized": codes.AlreadyExists,
	"StepUpAlreadyInitialized":   codes.AlreadyExists,
	"NotEnoughSignatures":        codes.PermissionDenied,
	"NotAuthorized":              codes.PermissionDenied,
	"IssuerNotTrusted":           codes.PermissionDenied,
	"AccountOwnerMismatch":       codes.PermissionDenied,
	"InvalidArgument":            codes.InvalidArgument,
	"InvalidFunction":            codes.InvalidArgument,
	"InvalidThreshold":           codes.InvalidArgument,
	"InvalidTransactionTime":     codes.InvalidArgument,
}

// Code returns the gRPC code for a rejection. Kinds without an explicit
// mapping are compliance or time-based failures.
func Code(r *rejection.Error) codes.Code {
	if c, ok := codeByKind[r.Code]; ok {
		return c
	}
	return codes.FailedPrecondition
}

// FromError returns err as a gRPC status error. Status errors pass through.
// op names the failed operation in the log line and the Internal message.
func FromError(op string, err error) error {
	if err == nil {
		return nil
	}
	if r, ok := rejection.As(err); ok {
		return Rejection(r)
	}
	if s, ok := status.FromError(err); ok {
		return s.Err()
	}
	log.Printf("rpc: %s failed: %v", op, err)
	return status.Error(codes.Internal, "failed to "+op)
}

// Rejection returns the status for r with an ErrorInfo naming its kind.
func Rejection(r *rejection.Error) error {
	st := status.New(Code(r), r.Message)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   r.Code,
		Domain:   Domain,
		Metadata: map[string]string{"class": r.Class.String()},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// Reason returns the rejection kind carried by a status error, or "".
func Reason(err error) string {
	s, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range s.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == Domain {
			return info.GetReason()
		}
	}
	return ""
}

// InvalidArgument returns an InvalidArgument status carrying the shared
// InvalidArgument kind and msg.
func InvalidArgument(msg string) error {
	st := status.New(codes.InvalidArgument, msg)
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   rejection.ErrInvalidArgument.Code,
		Domain:   Domain,
		Metadata: map[string]string{"class": rejection.ErrInvalidArgument.Class.String()},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// Address parses a hex address request field, returning InvalidArgument on failure.
func Address(field, s string) (address.Address, error) {
	a, err := address.Parse(s)
	if err != nil {
		return address.Address{}, InvalidArgument(field + ": " + err.Error())
	}
	return a, nil
}

// Addresses parses a list of hex addresses.
func Addresses(field string, list []string) ([]address.Address, error) {
	out := make([]address.Address, 0, len(list))
	for i, s := range list {
		a, err := Address(fmt.Sprintf("%s[%d]", field, i), s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
