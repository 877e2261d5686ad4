package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteConvergenceWritesHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.html")
	points := []Point{
		{Backups: 1, Lower: 0.1, Upper: 0.1},
		{Backups: 2, Lower: 0.3, Upper: 0.3},
	}

	require.NoError(t, WriteConvergence(path, points))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lower bound")
	assert.NotContains(t, string(data), "upper bound", "no series is added when every point is degenerate")
}

func TestWriteConvergenceAddsUpperSeriesForIntervals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.html")
	points := []Point{
		{Backups: 1, Lower: 0.1, Upper: 0.4},
	}

	require.NoError(t, WriteConvergence(path, points))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "upper bound")
}

func TestWriteConvergenceErrorsOnUnwritablePath(t *testing.T) {
	err := WriteConvergence(filepath.Join(t.TempDir(), "missing-dir", "chart.html"), []Point{{Backups: 1}})
	assert.Error(t, err)
}
