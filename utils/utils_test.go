package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	tok, err := GenerateToken(secret, "ops", RoleAdmin, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sub, role, err := ExtractRole(secret, tok)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if sub != "ops" || role != RoleAdmin {
		t.Fatalf("sub=%q role=%q", sub, role)
	}

	if _, _, err := ExtractRole([]byte("other"), tok); err == nil {
		t.Fatal("token signed with another secret must fail")
	}
}

func TestExpiredToken(t *testing.T) {
	secret := []byte("s3cret")
	tok, err := GenerateToken(secret, "ops", RoleAdmin, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateToken(secret, tok); err == nil {
		t.Fatal("expired token must fail")
	}
}

func TestEmptySecretRejected(t *testing.T) {
	if _, err := GenerateToken(nil, "ops", RoleAdmin, time.Minute); err == nil {
		t.Fatal("empty secret must be rejected")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"":      zapcore.InfoLevel,
		"loud":  zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("logger", zap.NewNop())
		c.Next()
	})
	r.Use(ErrorHandler())
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })
	r.GET("/bad", func(c *gin.Context) { JSONError(c, http.StatusBadRequest, "invalid parameter", "rv is required") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusBadRequest || body.Error != "invalid parameter" || body.Message != "rv is required" {
		t.Fatalf("status %d body %+v", w.Code, body)
	}
}
