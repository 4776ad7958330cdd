package interceptors

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"transfer-gate/internal/address"
	"transfer-gate/internal/security"
)

var caller = address.Address{0xc1}

func bearerContext(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.New(map[string]string{
		"authorization": "Bearer " + token,
	}))
}

func TestAuthUnary_PublicMethod(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	interceptor := AuthUnary(tokens, map[string]bool{"/test.Service/PublicMethod": true})

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		if _, ok := GetCaller(ctx); ok {
			t.Error("public call without token should carry no caller")
		}
		return "success", nil
	}
	resp, err := interceptor(context.Background(), "request", &grpc.UnaryServerInfo{
		FullMethod: "/test.Service/PublicMethod",
	}, handler)
	if err != nil {
		t.Fatalf("interceptor: %v", err)
	}
	if resp != "success" {
		t.Errorf("response = %v, want %q", resp, "success")
	}
}

func TestAuthUnary_PublicMethod_InvalidTokenIgnored(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	interceptor := AuthUnary(tokens, map[string]bool{"/test.Service/PublicMethod": true})
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "success", nil
	}
	if _, err := interceptor(bearerContext("garbage"), "request", &grpc.UnaryServerInfo{
		FullMethod: "/test.Service/PublicMethod",
	}, handler); err != nil {
		t.Fatalf("interceptor: %v", err)
	}
}

func TestAuthUnary_ProtectedMethod(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	access, _, err := tokens.IssueAccess(caller)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	signature, err := tokens.IssueSignature(caller, security.PurposeTwoAuth, "binding")
	if err != nil {
		t.Fatalf("IssueSignature: %v", err)
	}

	testCases := []struct {
		name     string
		ctx      context.Context
		wantCode codes.Code
	}{
		{"no token", context.Background(), codes.Unauthenticated},
		{"invalid token", bearerContext("invalid-token"), codes.Unauthenticated},
		{"signature token is not a bearer token", bearerContext(signature), codes.Unauthenticated},
		{"valid access token", bearerContext(access), codes.OK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			interceptor := AuthUnary(tokens, map[string]bool{})
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				got, ok := GetCaller(ctx)
				if !ok || got != caller {
					t.Errorf("caller = %s, ok = %v, want %s", got, ok, caller)
				}
				return "success", nil
			}
			_, err := interceptor(tc.ctx, "request", &grpc.UnaryServerInfo{
				FullMethod: "/test.Service/ProtectedMethod",
			}, handler)
			if got := status.Code(err); got != tc.wantCode {
				t.Errorf("status code = %v, want %v", got, tc.wantCode)
			}
		})
	}
}

func TestExtractBearer(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer token123", "token123"},
		{"case insensitive", "bearer token123", "token123"},
		{"invalid prefix", "Basic token123", ""},
		{"too short", "Bear", ""},
		{"whitespace", "  Bearer   token123  ", "token123"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := metadata.NewIncomingContext(context.Background(), metadata.New(map[string]string{
				"authorization": tc.header,
			}))
			if got := extractBearer(ctx); got != tc.want {
				t.Errorf("token = %q, want %q", got, tc.want)
			}
		})
	}
	if got := extractBearer(context.Background()); got != "" {
		t.Errorf("token without metadata = %q, want empty", got)
	}
}

func TestAuthenticate_Messages(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	if _, err := authenticate(context.Background(), tokens); err != errMissingBearer {
		t.Errorf("no token = %v, want errMissingBearer", err)
	}
	if _, err := authenticate(bearerContext("garbage"), tokens); err != errInvalidBearer {
		t.Errorf("bad token = %v, want errInvalidBearer", err)
	}
}
