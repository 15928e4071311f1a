package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"relay_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	return r
}

func TestJWTAuthBearerHeader(t *testing.T) {
	jwt.Init("middleware-secret", 5)
	token, err := jwt.GenerateAccessToken("U1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newAuthEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "U1", w.Body.String())
}

func TestJWTAuthQueryToken(t *testing.T) {
	jwt.Init("middleware-secret", 5)
	token, err := jwt.GenerateAccessToken("U2")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)
	newAuthEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "U2", w.Body.String())
}

func TestJWTAuthRejects(t *testing.T) {
	jwt.Init("middleware-secret", 5)
	cases := map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"invalid":   "Bearer not-a-jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			newAuthEngine().ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "1006")
		})
	}
}

func TestTlsHandlerRedirects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	zap.ReplaceGlobals(zap.NewNop())
	r := gin.New()
	r.Use(TlsHandler("example.com", 8443))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://example.com/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://example.com:8443/ping")

	// websocket 握手同样跳转
	r.GET("/wss", func(c *gin.Context) { c.Status(http.StatusSwitchingProtocols) })
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example.com/wss?token=t", nil))
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://example.com:8443/wss?token=t")
}
