package auth

import (
	"context"
	"errors"
	"testing"
)

func TestRequireAuthDisabledWithEmptySecret(t *testing.T) {
	v := NewHMAC("")
	// sem segredo, qualquer identidade passa mesmo sem token no contexto
	if err := v.RequireAuth(context.Background(), "anyone"); err != nil {
		t.Fatalf("err=%v want=nil", err)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	v := NewHMAC("supersecret")
	ctx := WithToken(context.Background(), v.TokenFor("alice"))
	if err := v.RequireAuth(ctx, "alice"); err != nil {
		t.Fatalf("err=%v want=nil", err)
	}
}

func TestRequireAuthWrongIdentity(t *testing.T) {
	v := NewHMAC("supersecret")
	// token prova "alice", não "bob"
	ctx := WithToken(context.Background(), v.TokenFor("alice"))
	if err := v.RequireAuth(ctx, "bob"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err=%v want=ErrInvalidToken", err)
	}
}

func TestRequireAuthMissingToken(t *testing.T) {
	v := NewHMAC("supersecret")
	if err := v.RequireAuth(context.Background(), "alice"); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("err=%v want=ErrMissingToken", err)
	}
}

func TestRequireAuthRejectsTokenFromOtherSecret(t *testing.T) {
	a := NewHMAC("secret-a")
	b := NewHMAC("secret-b")
	ctx := WithToken(context.Background(), a.TokenFor("alice"))
	if err := b.RequireAuth(ctx, "alice"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err=%v want=ErrInvalidToken", err)
	}
}
