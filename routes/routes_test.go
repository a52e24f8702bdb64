package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nikolasamardzija/busNS-rest-api/handlers"
	"github.com/nikolasamardzija/busNS-rest-api/utils"

	"github.com/gin-gonic/gin"
)

func stub(name string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, name) }
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, &handlers.HandlerBundle{
		JWTSecret:                   "routes-secret",
		GetCityLinesHandler:         stub("city"),
		GetIntercityLinesHandler:    stub("intercity"),
		GetTimetableHandler:         stub("live"),
		GetStoredTimetableHandler:   stub("stored"),
		ListStoredTimetablesHandler: stub("stored-list"),
		RefreshTimetablesHandler:    stub("refresh"),
	})
	return r
}

func TestRoutesDispatch(t *testing.T) {
	r := newEngine()
	cases := map[string]string{
		"/api/lines/city":            "city",
		"/api/lines/intercity":       "intercity",
		"/api/timetables/12":         "live",
		"/api/timetables/12/stored":  "stored",
		"/api/stored/timetables?d=R": "stored-list",
	}
	for path, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Errorf("%s: %d %q, want %q", path, w.Code, w.Body.String(), want)
		}
	}
}

func TestAdminRouteRequiresToken(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}

	token, err := utils.GenerateToken([]byte("routes-secret"), "ops", utils.RoleAdmin, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "refresh" {
		t.Fatalf("status %d body %q", w.Code, w.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	// no monitor has run, so both dependencies report down
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), `"mongo":false`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Fatalf("metrics: %d", w.Code)
	}
}
