package api

import (
	"context"
	"elevator-dispatch-service/internal/adapters/metrics"
	"elevator-dispatch-service/internal/adapters/repositories"
	"elevator-dispatch-service/internal/api/dto"
	"elevator-dispatch-service/internal/api/handlers"
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/platform/db"
	"elevator-dispatch-service/internal/services"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu    sync.Mutex
	ticks []domain.TickEvent
}

func (p *recordingPublisher) PublishTick(_ context.Context, ev domain.TickEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ticks = append(p.ticks, ev)
	return nil
}

type testServer struct {
	*httptest.Server
	publisher *recordingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(conn, repositories.SQLite))
	journal := repositories.NewSQLiteRideJournal(conn)

	reg := prometheus.NewRegistry()
	collector := metrics.NewPrometheus(reg, "")
	pub := &recordingPublisher{}

	var fleets []*handlers.FleetHandler
	for _, name := range []string{"main", "annex"} {
		f, err := services.NewFleet(services.FleetOptions{
			Name:        name,
			Ledger:      services.LedgerOptions{Kind: services.LedgerScan},
			Cabin:       services.CabinOptions{DirectionalOpen: true},
			HigherFloor: 9,
			Capacity:    5,
			Cabins:      1,
		}, collector, log)
		require.NoError(t, err)
		fleets = append(fleets, &handlers.FleetHandler{Fleet: f, Journal: journal, Publisher: pub, Log: log})
	}

	srv := httptest.NewServer(NewRouter(Deps{
		Fleets:  fleets,
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Log:     log,
	}))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, publisher: pub}
}

func (s *testServer) get(t *testing.T, path string) (int, string) {
	t.Helper()
	res, err := http.Get(s.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func (s *testServer) mustGet(t *testing.T, path string) string {
	t.Helper()
	status, body := s.get(t, path)
	require.Equal(t, http.StatusOK, status, "GET %s: %s", path, body)
	return body
}

// tickUntil polls nextCommands until want is returned.
func (s *testServer) tickUntil(t *testing.T, prefix, want string) {
	t.Helper()
	for i := 0; i < 30; i++ {
		if s.mustGet(t, prefix+"/nextCommands") == want {
			return
		}
	}
	t.Fatalf("%s never returned %s", prefix, want)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.get(t, "/health")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"status":"ok"}`, body)

	var list dto.FleetListResponse
	require.NoError(t, json.Unmarshal([]byte(s.mustGet(t, "/fleets")), &list))
	require.Equal(t, []string{"main", "annex"}, list.Fleets)
}

func TestRideOverHTTP(t *testing.T) {
	s := newTestServer(t)

	s.mustGet(t, "/main/reset?cause=all+elevators+are+at+floor+0&lowerFloor=0&higherFloor=9&cabinSize=5&cabinCount=1")
	s.mustGet(t, "/main/call?atFloor=3&to=UP")
	s.tickUntil(t, "/main", "OPEN_UP")

	s.mustGet(t, "/main/userHasEntered?cabin=0")
	s.mustGet(t, "/main/go?cabin=0&floorToGo=6")
	require.Equal(t, "CLOSE", s.mustGet(t, "/main/nextCommands"))
	s.tickUntil(t, "/main", "OPEN_UP")
	s.mustGet(t, "/main/userHasExited?cabin=0")

	var snap domain.FleetSnapshot
	require.NoError(t, json.Unmarshal([]byte(s.mustGet(t, "/main/state")), &snap))
	require.Equal(t, 6, snap.Cabins[0].Floor)
	require.Equal(t, "OPEN", snap.Cabins[0].Doors)

	var stats dto.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(s.mustGet(t, "/main/stats")), &stats))
	require.NotNil(t, stats.Journal)
	require.Equal(t, 1, stats.Journal.Rides)
	require.Equal(t, snap.TotalScore, stats.Journal.TotalScore)
	require.Equal(t, 1, stats.Journal.Resets)
	require.Equal(t, 1, stats.Journal.CleanResets)
	require.Equal(t, map[int]int{3: 1}, stats.CallsByFloor)

	s.publisher.mu.Lock()
	require.NotEmpty(t, s.publisher.ticks)
	require.Equal(t, "main", s.publisher.ticks[0].Fleet)
	s.publisher.mu.Unlock()

	// The other fleet is untouched.
	require.NoError(t, json.Unmarshal([]byte(s.mustGet(t, "/annex/state")), &snap))
	require.Equal(t, -1, snap.Tick)
}

func TestRootMountsFirstFleet(t *testing.T) {
	s := newTestServer(t)
	// The idle floor of a single cabin on 0..9 is 5.
	require.Equal(t, "UP", s.mustGet(t, "/nextCommands"))

	var snap domain.FleetSnapshot
	require.NoError(t, json.Unmarshal([]byte(s.mustGet(t, "/main/state")), &snap))
	require.Equal(t, 0, snap.Tick)
}

func TestResetKeepsOmittedDimensions(t *testing.T) {
	s := newTestServer(t)
	s.mustGet(t, "/reset?cause=test&cabinCount=2")

	var snap domain.FleetSnapshot
	require.NoError(t, json.Unmarshal([]byte(s.mustGet(t, "/state")), &snap))
	require.Len(t, snap.Cabins, 2)
	require.Equal(t, 9, snap.HigherFloor)
	require.Equal(t, 5, snap.Cabins[1].Capacity)
	require.Equal(t, "UP\nUP", s.mustGet(t, "/nextCommands"))
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]int{
		"/reset?lowerFloor=5&higherFloor=2": http.StatusBadRequest,
		"/reset?cabinSize=0":                http.StatusBadRequest,
		"/reset?cabinCount=x":               http.StatusBadRequest,
		"/call?atFloor=2":                   http.StatusBadRequest,
		"/call?atFloor=two&to=UP":           http.StatusBadRequest,
		"/call?atFloor=2&to=SIDEWAYS":       http.StatusBadRequest,
		"/go?cabin=0":                       http.StatusBadRequest,
		"/userHasEntered?cabin=first":       http.StatusBadRequest,
		"/call?atFloor=99&to=UP":            http.StatusOK,
		"/go?cabin=4&floorToGo=1":           http.StatusOK,
		"/userHasExited?cabin=0":            http.StatusOK,
	}
	for path, want := range cases {
		status, body := s.get(t, path)
		require.Equal(t, want, status, "GET %s: %s", path, body)
	}

	req, err := http.NewRequest(http.MethodDelete, s.URL+"/nextCommands", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	require.Equal(t, "GET, POST", res.Header.Get("Allow"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.mustGet(t, "/call?atFloor=42&to=UP")
	s.mustGet(t, "/nextCommands")

	body := s.mustGet(t, "/metrics")
	require.True(t, strings.Contains(body, `elevator_scheduler_commands_total{command="UP",fleet="main"} 1`), body)
	require.Contains(t, body, `elevator_scheduler_ignored_events_total{event="call",fleet="main"} 1`)
}
