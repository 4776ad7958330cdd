package interceptors

import (
	"context"
	"testing"

	"transfer-gate/internal/address"
)

func TestWithCaller(t *testing.T) {
	caller := address.Address{7}
	ctx := WithCaller(context.Background(), caller)
	got, ok := GetCaller(ctx)
	if !ok {
		t.Fatal("GetCaller should return true")
	}
	if got != caller {
		t.Errorf("caller = %s, want %s", got, caller)
	}
}

func TestGetCaller_NotSet(t *testing.T) {
	got, ok := GetCaller(context.Background())
	if ok {
		t.Error("GetCaller should return false when not set")
	}
	if !got.IsZero() {
		t.Errorf("caller = %s, want zero", got)
	}
}

func TestGetCaller_Overwrite(t *testing.T) {
	ctx := WithCaller(context.Background(), address.Address{1})
	ctx = WithCaller(ctx, address.Address{2})
	if got, _ := GetCaller(ctx); got != (address.Address{2}) {
		t.Errorf("caller = %s, want the later value", got)
	}
}
