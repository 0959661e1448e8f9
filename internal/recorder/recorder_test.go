// internal/recorder/recorder_test.go
package recorder

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T, at time.Time) (*Recorder, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "records")
	r, err := New(Config{Dir: dir})
	require.NoError(t, err)
	r.now = func() time.Time { return at }
	return r, dir
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRecorder_WritesHeaderAndRows(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	r, dir := newTestRecorder(t, start)

	path, err := r.Start()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "temperature_20240309_140507.csv"), path)
	require.True(t, r.Recording())

	at := start.Add(1500 * time.Millisecond)
	require.NoError(t, r.Write(Sample{At: at, Actual: 23.75, Target: 21}))
	require.NoError(t, r.Write(Sample{At: at.Add(2 * time.Second), Actual: 24, Target: 21.5}))
	require.NoError(t, r.Stop())
	require.False(t, r.Recording())
	require.Equal(t, "", r.Path())

	require.Equal(t, [][]string{
		{"Time", "Actual Temperature", "Target Temperature"},
		{"2024-03-09 14:05:08.500000", "23.75", "21.0"},
		{"2024-03-09 14:05:10.500000", "24.0", "21.5"},
	}, readRows(t, path))
}

func TestRecorder_DropsWhileStopped(t *testing.T) {
	r, dir := newTestRecorder(t, time.Now())

	require.NoError(t, r.Write(Sample{At: time.Now(), Actual: 1, Target: 2}))
	require.NoError(t, r.Stop())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRecorder_StartTwice(t *testing.T) {
	r, _ := newTestRecorder(t, time.Now())

	path, err := r.Start()
	require.NoError(t, err)
	again, err := r.Start()
	require.ErrorIs(t, err, ErrRecording)
	require.Equal(t, path, again)
	require.NoError(t, r.Stop())
}

func TestRecorder_RestartNewFile(t *testing.T) {
	t0 := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	r, _ := newTestRecorder(t, t0)

	first, err := r.Start()
	require.NoError(t, err)
	require.NoError(t, r.Stop())

	r.now = func() time.Time { return t0.Add(time.Second) }
	second, err := r.Start()
	require.NoError(t, err)
	require.NotEqual(t, first, second)
	require.NoError(t, r.Stop())

	require.Len(t, readRows(t, first), 1)
}

func TestRecorder_SameSecondCollision(t *testing.T) {
	r, _ := newTestRecorder(t, time.Now())

	_, err := r.Start()
	require.NoError(t, err)
	require.NoError(t, r.Stop())

	_, err = r.Start()
	require.Error(t, err)
	require.False(t, r.Recording())
}
