package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"vitrine/adapters/oidc"
	"vitrine/adapters/session"
)

// Back-office login via the external identity provider.
// (GET /auth/login)
func (impl *ServerImpl) GetAuthLogin(c *gin.Context) {
	const op = "GetAuthLogin"
	state, err := generateID("st")
	if err != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Unable to generate state, err=%w", op, err))
		return
	}
	nonce, err := generateID("n")
	if err != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Unable to generate nonce, err=%w", op, err))
		return
	}
	sess, err := session.GetSession(c)
	if err != nil {
		impl.abortInternal(c, op, err)
		return
	}
	sess.Set(SESSION_KEY_REQUEST_STATE, state)
	sess.Set(SESSION_KEY_REQUEST_NONCE, nonce)
	if err := sess.Save(); err != nil {
		impl.abortInternal(c, op, err)
		return
	}
	c.Redirect(http.StatusFound, impl.oidcProvider.AuthURL(state, nonce, impl.config.OIDC.RedirectURL, []string{"email", "openid", "profile"}))
}

// Authorization-code callback: verify, check the whitelist, mint the
// back-office cookie.
// (GET /auth/callback)
func (impl *ServerImpl) GetAuthCallback(c *gin.Context) {
	const op = "GetAuthCallback"
	sess, err := session.GetSession(c)
	if err != nil {
		impl.abortInternal(c, op, err)
		return
	}
	verifier := impl.oidcProvider.NewExchangeVerifier(
		sess.Get(SESSION_KEY_REQUEST_STATE),
		sess.Get(SESSION_KEY_REQUEST_NONCE),
	)
	// state and nonce are single-use
	sess.Delete(SESSION_KEY_REQUEST_STATE)
	sess.Delete(SESSION_KEY_REQUEST_NONCE)
	if err := sess.Save(); err != nil {
		impl.abortInternal(c, op, err)
		return
	}

	token, err := impl.oidcProvider.Exchange(c.Request.Context(), verifier, c.Query("code"), c.Query("state"), impl.config.OIDC.RedirectURL)
	if errors.Is(err, oidc.ErrStateMismatch) || errors.Is(err, oidc.ErrNonceMismatch) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid login state"})
		return
	}
	if err != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to exchange token, err=%w", op, err))
		return
	}

	isAdmin, err := impl.isAdminSubject(c.Request.Context(), token.IDToken.Sub)
	if err != nil {
		impl.abortInternal(c, op, err)
		return
	}
	if !isAdmin {
		// authenticated but not whitelisted: no account is created, the
		// visitor stays a visitor
		slog.Info("Login refused for non-whitelisted subject", slog.String("op", op), slog.String("subject", token.IDToken.Sub))
		c.JSON(http.StatusForbidden, gin.H{"message": "not an administrator"})
		return
	}

	adminToken := jwt.NewWithClaims(&jwt.SigningMethodEd25519{}, AdminToken{
		Email: token.IDToken.Email.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(impl.config.Auth.ExpireDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    impl.config.Auth.Issuer,
			Subject:   token.IDToken.Sub,
			ID:        uuid.NewString(),
			Audience:  []string{impl.config.Auth.Audience},
		},
	})
	signed, err := adminToken.SignedString(impl.config.Auth.PrivateKey)
	if err != nil {
		impl.abortInternal(c, op, fmt.Errorf("[%s] Fail to sign token, err=%w", op, err))
		return
	}
	c.SetCookie(AccessTokenCookie, signed, int(impl.config.Auth.ExpireDuration/time.Second), "/", "", true, true)
	c.Redirect(http.StatusFound, impl.config.SiteURL+"/admin")
}

// Sign-out only clears the cookie; the provider session is left alone.
// (GET /auth/logout)
func (impl *ServerImpl) GetAuthLogout(c *gin.Context) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Auth state for the back-office guard. Anonymous and non-admin callers get
// a plain answer, never an error.
// (GET /api/auth/status)
func (impl *ServerImpl) GetAuthStatus(c *gin.Context) {
	const op = "GetAuthStatus"
	type status struct {
		Authenticated bool    `json:"authenticated"`
		IsAdmin       bool    `json:"isAdmin"`
		Email         *string `json:"email,omitempty"`
	}

	raw, err := c.Cookie(AccessTokenCookie)
	if err != nil || raw == "" {
		c.JSON(http.StatusOK, status{})
		return
	}
	token, err := ParseAndValidateToken(raw, impl.config.Auth.PrivateKey, impl.config.Auth.Issuer, impl.config.Auth.Audience)
	if err != nil {
		// expired or tampered cookie degrades to anonymous
		c.JSON(http.StatusOK, status{})
		return
	}
	isAdmin, err := impl.isAdminSubject(c.Request.Context(), token.Subject)
	if err != nil {
		impl.abortInternal(c, op, err)
		return
	}
	c.JSON(http.StatusOK, status{
		Authenticated: true,
		IsAdmin:       isAdmin,
		Email:         lo.ToPtr(token.Email),
	})
}

// RequireAdmin guards the back-office routes: valid token plus a live
// whitelist check per request, so removing a row locks the account out
// immediately.
func (impl *ServerImpl) RequireAdmin() gin.HandlerFunc {
	const op = "RequireAdmin"
	return func(c *gin.Context) {
		raw, err := c.Cookie(AccessTokenCookie)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		token, err := ParseAndValidateToken(raw, impl.config.Auth.PrivateKey, impl.config.Auth.Issuer, impl.config.Auth.Audience)
		if err != nil {
			slog.Error("Fail to parse and validate token", slog.String("op", op), slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		isAdmin, err := impl.isAdminSubject(c.Request.Context(), token.Subject)
		if err != nil {
			impl.abortInternal(c, op, err)
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "not an administrator"})
			return
		}
		c.Next()
	}
}
