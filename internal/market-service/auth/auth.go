package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

// Verificação de identidade por token HMAC: o chamador apresenta
// hex(hmac-sha256(secret, identidade)) e o verificador recalcula.
// Qualquer outro mecanismo (assinatura, mTLS) pode substituir esta
// implementação sem tocar no engine.

var (
	ErrMissingToken = errors.New("missing auth token")
	ErrInvalidToken = errors.New("invalid auth token")
)

type ctxKey struct{}

// WithToken anexa ao contexto a credencial apresentada na requisição.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(ctxKey{}).(string)
	return t
}

// HMACVerifier implementa engine.Verifier com segredo compartilhado.
// Segredo vazio desabilita a verificação (modo local).
type HMACVerifier struct {
	secret []byte
}

func NewHMAC(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// RequireAuth exige que a credencial do contexto prove a identidade alegada.
func (v *HMACVerifier) RequireAuth(ctx context.Context, identity string) error {
	if len(v.secret) == 0 {
		return nil
	}
	token := tokenFrom(ctx)
	if token == "" {
		return ErrMissingToken
	}

	// comparação em tempo constante, como em qualquer checagem de segredo
	want := v.TokenFor(identity)
	if subtle.ConstantTimeCompare([]byte(token), []byte(want)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

// TokenFor calcula o token esperado para uma identidade (clientes e testes).
func (v *HMACVerifier) TokenFor(identity string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(identity))
	return hex.EncodeToString(mac.Sum(nil))
}
