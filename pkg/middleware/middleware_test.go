package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGetLimiterKeysPerClientAndPath(t *testing.T) {
	a := getLimiter("/api/v1/transactions", "client-a")
	if got := getLimiter("/api/v1/transactions", "client-a"); got != a {
		t.Error("same client and path returned a different limiter")
	}
	if got := getLimiter("/api/v1/transactions", "client-b"); got == a {
		t.Error("different clients share a limiter")
	}
	if got := getLimiter("/api/v1/dashboard/stats", "client-a"); got == a {
		t.Error("different paths share a limiter")
	}
}

func TestRateLimitKeysOnAuthenticatedClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	// Stand-in for JWTAuth running first and identifying the caller.
	router.Use(func(c *gin.Context) {
		c.Set("clientID", c.GetHeader("X-Test-Client"))
	}, RateLimit())
	router.GET("/api/v1/things", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(client string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/things", nil)
		req.Header.Set("X-Test-Client", client)
		router.ServeHTTP(w, req)
		return w.Code
	}

	// Burn through one client's burst allowance.
	var last int
	for i := 0; i < 6; i++ {
		last = send("client-a")
	}
	if last != http.StatusBadRequest {
		t.Errorf("exhausted client status = %d, want %d", last, http.StatusBadRequest)
	}

	// A different client has its own bucket.
	if code := send("client-b"); code != http.StatusOK {
		t.Errorf("fresh client status = %d, want %d", code, http.StatusOK)
	}
}
