package simulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSchedule(t *testing.T) {
	counts := []int{2, 0, 1}
	a, err := GenerateSchedule(counts, 7, -2, 4, 42)
	require.NoError(t, err)
	// ticks 0..6 cycle 2,0,1,2,0,1,2
	require.Len(t, a, 8)

	for _, r := range a {
		require.NotEqual(t, r.StartFloor, r.Destination)
		require.GreaterOrEqual(t, r.StartFloor, -2)
		require.LessOrEqual(t, r.StartFloor, 4)
		require.GreaterOrEqual(t, r.Destination, -2)
		require.LessOrEqual(t, r.Destination, 4)
		require.NotEqual(t, 1, r.Tick%3)
	}

	again, err := GenerateSchedule(counts, 7, -2, 4, 42)
	require.NoError(t, err)
	require.Equal(t, a, again)
}

func TestGenerateScheduleErrors(t *testing.T) {
	_, err := GenerateSchedule(nil, 5, 0, 9, 1)
	require.ErrorIs(t, err, ErrEmptyArrivals)

	_, err = GenerateSchedule([]int{1}, 5, 3, 3, 1)
	require.Error(t, err)
}

func TestDefaultArrivals(t *testing.T) {
	counts := DefaultArrivals()
	require.Len(t, counts, 400)
	total := 0
	for _, c := range counts {
		require.GreaterOrEqual(t, c, 0)
		total += c
	}
	require.Positive(t, total)
	require.Greater(t, counts[60]+counts[61], counts[200]+counts[201])
}

func TestLoadArrivals(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	counts, err := LoadArrivals(write("ok.json", "[1, 0, 3]"))
	require.NoError(t, err)
	require.Equal(t, []int{1, 0, 3}, counts)

	_, err = LoadArrivals(write("empty.json", "[]"))
	require.ErrorIs(t, err, ErrEmptyArrivals)

	_, err = LoadArrivals(write("negative.json", "[1, -1]"))
	require.Error(t, err)

	_, err = LoadArrivals(write("bad.json", "{"))
	require.Error(t, err)

	_, err = LoadArrivals(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
