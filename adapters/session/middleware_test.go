package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestGinMiddlewareCookieSurvivesRenderedResponse(t *testing.T) {
	router := gin.New()
	router.Use(GinMiddleware(newFakeStore(), WithSessionKeyForCookie("sid")))
	router.GET("/", func(c *gin.Context) {
		// rendering flushes headers, exactly like a real handler does
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	cookie := sessionCookie(t, w, "sid")
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestGinMiddlewareKeepsPresentedSessionID(t *testing.T) {
	router := gin.New()
	router.Use(GinMiddleware(newFakeStore(), WithSessionKeyForCookie("sid")))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "existing-session"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	cookie := sessionCookie(t, w, "sid")
	require.NotNil(t, cookie)
	assert.Equal(t, "existing-session", cookie.Value)
}

func TestGinMiddlewarePlacesSessionInContext(t *testing.T) {
	store := newFakeStore()
	store.data["existing-session"] = map[string]string{"consent_analytics": "true"}

	router := gin.New()
	router.Use(GinMiddleware(store, WithSessionKeyForCookie("sid")))
	router.GET("/", func(c *gin.Context) {
		s, err := GetSession(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"analytics": s.Get("consent_analytics")})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "existing-session"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"analytics":"true"`)
}
