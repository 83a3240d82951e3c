package oidc

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// ExchangeVerifier checks the state, nonce and ID token of one
// authorization-code exchange.
type ExchangeVerifier struct {
	idTokenVerifier *oidc.IDTokenVerifier
	reqState        string
	reqNonce        string
}

// VerifyIDToken validates the raw ID token signature and claims.
func (v *ExchangeVerifier) VerifyIDToken(ctx context.Context, rawIDToken string) (*oidc.IDToken, error) {
	const op = "VerifyIDToken"
	idToken, err := v.idTokenVerifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("[%s] err=%w", op, err)
	}
	return idToken, nil
}

// VerifyState reports whether the callback state matches the login state.
func (v *ExchangeVerifier) VerifyState(state string) bool {
	return state == v.reqState
}

// VerifyNonce reports whether the ID token nonce matches the login nonce.
func (v *ExchangeVerifier) VerifyNonce(nonce string) bool {
	return nonce == v.reqNonce
}
