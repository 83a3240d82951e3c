package api

import (
	"github.com/gin-gonic/gin"

	redisAdapter "vitrine/adapters/redis"
	"vitrine/adapters/session"
)

const (
	SESSION_KEY_REQUEST_STATE     = "request_state"
	SESSION_KEY_REQUEST_NONCE     = "request_nonce"
	SESSION_KEY_CONSENT_ANALYTICS = "consent_analytics"
	SESSION_KEY_CONSENT_MARKETING = "consent_marketing"
)

func (impl *ServerImpl) SessionMiddleware() gin.HandlerFunc {
	store := redisAdapter.NewStore(
		impl.redisClient,
		redisAdapter.WithStorePrefix(impl.config.Redis.KeyPrefix+":"),
		redisAdapter.WithStoreTTL(impl.config.Session.CookieMaxAge),
	)
	return session.GinMiddleware(
		store,
		session.WithSessionKeyForCookie(impl.config.Session.KeyForCookie),
		session.WithCookieMaxAge(impl.config.Session.CookieMaxAge),
	)
}
