package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	timetableRepo "github.com/nikolasamardzija/busNS-rest-api/database/repository/timetable"
	"github.com/nikolasamardzija/busNS-rest-api/models"
	"github.com/nikolasamardzija/busNS-rest-api/services/gspns"
	"github.com/nikolasamardzija/busNS-rest-api/services/scraper"
	"github.com/nikolasamardzija/busNS-rest-api/services/tasks"
	"github.com/nikolasamardzija/busNS-rest-api/services/timetable"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	err      error
	lastLine string
	lastDay  string
	lastRv   string
	lastKind timetable.ListingKind
}

func (f *fakeService) GetTimetable(_ context.Context, line, day, rv string) (*models.Timetable, error) {
	f.lastLine, f.lastDay, f.lastRv = line, day, rv
	if f.err != nil {
		return nil, f.err
	}
	s := models.NewScheduleMap()
	s.Reset("6")
	s.Append("6", "05")
	return models.NewOneWayTimetable(line, models.DayRegular, "12 Centar", s), nil
}

func (f *fakeService) StoredTimetable(ctx context.Context, line, day, rv string) (*models.Timetable, error) {
	return f.GetTimetable(ctx, line, day, rv)
}

func (f *fakeService) StoredTimetables(_ context.Context, day, rv string) ([]models.Timetable, error) {
	f.lastDay, f.lastRv = day, rv
	return nil, f.err
}

func (f *fakeService) ListLines(_ context.Context, kind timetable.ListingKind, day string) ([]models.LineOption, error) {
	f.lastKind, f.lastDay = kind, day
	if f.err != nil {
		return nil, f.err
	}
	return []models.LineOption{{Value: "1", Label: "1 Klisa"}}, nil
}

func (f *fakeService) Refresh(context.Context, string, string) (timetable.RefreshReport, error) {
	return timetable.RefreshReport{}, f.err
}

type fakeQueue struct {
	err   error
	tasks []*asynq.Task
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("task-%d", len(q.tasks)), Type: task.Type()}, nil
}

func newTestRouter(svc *fakeService, q *fakeQueue) *gin.Engine {
	h := NewTimetableHandler(svc, q)
	r := gin.New()
	r.GET("/lines/city", h.GetCityLinesHandler)
	r.GET("/lines/intercity", h.GetIntercityLinesHandler)
	r.GET("/timetables/:line", h.GetTimetableHandler)
	r.GET("/timetables/:line/stored", h.GetStoredTimetableHandler)
	r.GET("/stored", h.ListStoredTimetablesHandler)
	r.POST("/refresh", h.RefreshTimetablesHandler)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetTimetableHandler(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc, &fakeQueue{})

	w := do(r, http.MethodGet, "/timetables/12?day=S&rv=rvg", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if svc.lastLine != "12" || svc.lastDay != "S" || svc.lastRv != "rvg" {
		t.Fatalf("service got line=%q day=%q rv=%q", svc.lastLine, svc.lastDay, svc.lastRv)
	}
	want := `{"id":"12","day":"R","variant":"oneWay","line":"12 Centar","schedule":{"6":["05"]}`
	if got := w.Body.String(); !strings.HasPrefix(got, want) {
		t.Fatalf("body = %s\nwant  %s", got, want)
	}
}

type staticResolver struct{}

func (staticResolver) BaseValues(context.Context) (gspns.BaseValues, error) {
	return gspns.BaseValues{
		ValidFrom:  []string{"2017-11-20"},
		Days:       []string{"R", "S", "N"},
		Directions: []string{"rvg", "rvp"},
	}, nil
}

func (staticResolver) Invalidate(context.Context) error { return nil }

func TestTimetableHandlersRequireDirection(t *testing.T) {
	// Upstream, Repo and Cache stay nil: a missing rv must be rejected before any of them is used.
	svc := &timetable.DefaultTimetableService{Resolver: staticResolver{}, Logger: zap.NewNop()}
	h := NewTimetableHandler(svc, &fakeQueue{})
	r := gin.New()
	r.GET("/timetables/:line", h.GetTimetableHandler)
	r.GET("/timetables/:line/stored", h.GetStoredTimetableHandler)
	r.GET("/stored", h.ListStoredTimetablesHandler)

	for _, target := range []string{"/timetables/12?day=R", "/timetables/12/stored?day=R", "/stored?day=R", "/stored?day=R&rv=%20"} {
		w := do(r, http.MethodGet, target, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400: %s", target, w.Code, w.Body.String())
			continue
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] != "invalid parameter" {
			t.Errorf("%s: body %s", target, w.Body.String())
		}
	}
}

func TestTimetableHandlerForwardsMissingDirection(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc, &fakeQueue{})

	do(r, http.MethodGet, "/timetables/12", "")
	if svc.lastRv != "" {
		t.Fatalf("rv defaulted to %q", svc.lastRv)
	}
}

func TestListStoredTimetablesHandler(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc, &fakeQueue{})

	w := do(r, http.MethodGet, "/stored?day=S&rv=rvp", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	if svc.lastDay != "S" || svc.lastRv != "rvp" {
		t.Fatalf("service got day=%q rv=%q", svc.lastDay, svc.lastRv)
	}
}

func TestListLinesHandlers(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc, &fakeQueue{})

	w := do(r, http.MethodGet, "/lines/intercity?day=N", "")
	if w.Code != http.StatusOK || svc.lastKind != timetable.IntercityLines || svc.lastDay != "N" {
		t.Fatalf("status %d kind %q day %q", w.Code, svc.lastKind, svc.lastDay)
	}
	var lines []models.LineOption
	if err := json.Unmarshal(w.Body.Bytes(), &lines); err != nil || len(lines) != 1 {
		t.Fatalf("body %s: %v", w.Body.String(), err)
	}

	do(r, http.MethodGet, "/lines/city", "")
	if svc.lastKind != timetable.CityLines {
		t.Fatalf("kind = %q", svc.lastKind)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{scraper.InvalidParameter("rv", "x"), http.StatusBadRequest},
		{fmt.Errorf("line 9: %w", scraper.ErrEmptySchedule), http.StatusNotFound},
		{scraper.ErrEmptyListing, http.StatusNotFound},
		{timetableRepo.ErrNotFound, http.StatusNotFound},
		{&scraper.TransportError{URL: "http://x", Status: 503}, http.StatusBadGateway},
		{fmt.Errorf("wrap: %w", scraper.ErrMalformedDocument), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		svc := &fakeService{err: tc.err}
		r := newTestRouter(svc, &fakeQueue{})
		w := do(r, http.MethodGet, "/timetables/12/stored", "")
		if w.Code != tc.want {
			t.Errorf("%v: status %d, want %d", tc.err, w.Code, tc.want)
			continue
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" || body["message"] == "" {
			t.Errorf("%v: body %s", tc.err, w.Body.String())
		}
	}
}

func TestRefreshTimetablesHandler(t *testing.T) {
	q := &fakeQueue{}
	r := newTestRouter(&fakeService{}, q)

	w := do(r, http.MethodPost, "/refresh", `{"rv":"rvp"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if len(q.tasks) != 1 || q.tasks[0].Type() != tasks.TypeTimetableRefresh {
		t.Fatalf("tasks = %+v", q.tasks)
	}
	p, err := tasks.ParseRefreshPayload(q.tasks[0])
	if err != nil || p.Day != "R" || p.Direction != "rvp" {
		t.Fatalf("payload %+v: %v", p, err)
	}

	if w := do(r, http.MethodPost, "/refresh", `{"day":"S"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing rv: status %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/refresh", `{"rv":`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status %d", w.Code)
	}

	chunked := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(""))
	chunked.ContentLength = -1
	chunked.Header.Set("Content-Type", "application/json")
	cw := httptest.NewRecorder()
	r.ServeHTTP(cw, chunked)
	var body map[string]string
	if err := json.Unmarshal(cw.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if cw.Code != http.StatusBadRequest || body["message"] != "rv is required" {
		t.Fatalf("empty chunked body: status %d body %v", cw.Code, body)
	}
	if w := do(r, http.MethodPost, "/refresh", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("no body: status %d", w.Code)
	}

	failing := newTestRouter(&fakeService{}, &fakeQueue{err: errors.New("redis down")})
	if w := do(failing, http.MethodPost, "/refresh", `{"rv":"rvg"}`); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("queue failure: status %d", w.Code)
	}
}
