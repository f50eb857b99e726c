package remote

import (
	"context"
	"elevator-dispatch-service/internal/api"
	"elevator-dispatch-service/internal/api/handlers"
	"elevator-dispatch-service/internal/config"
	"elevator-dispatch-service/internal/domain"
	"elevator-dispatch-service/internal/services"
	"elevator-dispatch-service/internal/simulator"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("not a url", nil)
	require.Error(t, err)

	c, err := New("http://localhost:8080/main/", nil)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/main/nextCommands", c.baseURL.JoinPath("nextCommands").String())
}

func TestClientDrivesServer(t *testing.T) {
	log := quietLogger()
	opts := config.Default().Fleets[1].FleetOptions()
	opts.Name = "main"
	fleet, err := services.NewFleet(opts, nil, log)
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Fleets: []*handlers.FleetHandler{{Fleet: fleet, Log: log}},
		Log:    log,
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL+"/main", log)
	require.NoError(t, err)

	sim, err := simulator.New(simulator.Options{
		Building: simulator.BuildingOptions{LowerFloor: 0, HigherFloor: 9, Capacity: 5, Cabins: 2},
		Ticks:    150,
		Seed:     5,
	}, nil, nil, log)
	require.NoError(t, err)

	res, err := sim.RunScheduler(context.Background(), "main", client)
	require.NoError(t, err)
	require.NoError(t, client.Err())
	require.Zero(t, res.Incompatible)
	require.Positive(t, res.Rides)
	require.Len(t, fleet.Snapshot().Cabins, 2)
}

func TestClientRetriesUnavailable(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		if r.URL.Path != "/nextCommands" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "UP\nDOWN")
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, quietLogger())
	require.NoError(t, err)

	cmds := c.NextCommands(context.Background())
	require.Equal(t, []domain.Command{domain.CommandUp, domain.CommandDown}, cmds)
	require.Equal(t, int32(2), hits.Load())
	require.NoError(t, c.Err())
}

func TestClientDoesNotRetryRejectedCalls(t *testing.T) {
	var hits atomic.Int32
	queries := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		queries <- r.URL.RawQuery
		http.Error(w, "atFloor is required", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, quietLogger())
	require.NoError(t, err)

	c.Call(3, domain.Down)
	require.Equal(t, int32(1), hits.Load())
	require.Equal(t, "atFloor=3&to=DOWN", <-queries)

	var he *httpStatusError
	require.ErrorAs(t, c.Err(), &he)
	require.Equal(t, http.StatusBadRequest, he.Code)
	require.Contains(t, c.Err().Error(), "call")
}

func TestClientUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, quietLogger())
	require.NoError(t, err)

	require.Nil(t, c.NextCommands(context.Background()))
	require.Error(t, c.Err())
}
