package oidc

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

var (
	ErrStateMismatch = errors.New("state mismatch")
	ErrNonceMismatch = errors.New("nonce mismatch")
)

// Provider wraps the upstream OIDC provider together with the relying
// party's client credentials.
type Provider struct {
	*oidc.Provider

	clientInfo ProvideClientInfo
}

type ProvideClientInfo struct {
	ID     string
	Secret string
}

// NewProvider discovers the issuer's endpoints and builds a Provider.
func NewProvider(issuerURL, clientID, clientSecret string) (*Provider, error) {
	const op = "NewProvider"
	provider, err := oidc.NewProvider(context.Background(), issuerURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create provider, err=%w", op, err)
	}
	return &Provider{
		Provider: provider,
		clientInfo: ProvideClientInfo{
			ID:     clientID,
			Secret: clientSecret,
		},
	}, nil
}

// AuthURL builds the provider's authorization URL carrying state and nonce.
func (p *Provider) AuthURL(state, nonce, redirectURL string, scopes []string, opts ...oauth2.AuthCodeOption) string {
	config := oauth2.Config{
		ClientID:     p.clientInfo.ID,
		ClientSecret: p.clientInfo.Secret,
		Endpoint:     p.Endpoint(),
		RedirectURL:  redirectURL,
		Scopes:       scopes,
	}
	return config.AuthCodeURL(state, append([]oauth2.AuthCodeOption{oidc.Nonce(nonce)}, opts...)...)
}

// Exchange trades the authorization code for tokens after checking that
// state and nonce match what this server issued at login time.
func (p *Provider) Exchange(ctx context.Context, verifier *ExchangeVerifier, code, state, redirectURL string) (*ExchangeToken, error) {
	const op = "Exchange"
	if !verifier.VerifyState(state) {
		return nil, ErrStateMismatch
	}
	config := oauth2.Config{
		ClientID:     p.clientInfo.ID,
		ClientSecret: p.clientInfo.Secret,
		Endpoint:     p.Endpoint(),
		RedirectURL:  redirectURL,
	}
	oauth2Token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("[%s] Failed to exchange token, err=%w", op, err)
	}
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("[%s] No id_token field in oauth2 token", op)
	}
	idToken, err := verifier.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("[%s] Failed to verify ID Token, err=%w", op, err)
	}
	if !verifier.VerifyNonce(idToken.Nonce) {
		return nil, ErrNonceMismatch
	}
	token := &ExchangeToken{
		OAuth2Token: oauth2Token,
		IDToken:     IDToken{internal: idToken},
	}
	if err := idToken.Claims(&token.IDToken); err != nil {
		return nil, fmt.Errorf("[%s] Failed to parse ID Token claims, err=%w", op, err)
	}

	return token, nil
}

// NewExchangeVerifier prepares a verifier for one callback round-trip.
func (p *Provider) NewExchangeVerifier(reqState, reqNonce string) *ExchangeVerifier {
	return &ExchangeVerifier{
		idTokenVerifier: p.Verifier(&oidc.Config{ClientID: p.clientInfo.ID}),
		reqState:        reqState,
		reqNonce:        reqNonce,
	}
}

type ExchangeToken struct {
	OAuth2Token *oauth2.Token
	IDToken     IDToken
}
