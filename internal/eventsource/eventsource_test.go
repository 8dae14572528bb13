package eventsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suykerbuyk/aw-digest/internal/awclient"
	"github.com/suykerbuyk/aw-digest/internal/capture"
	"github.com/suykerbuyk/aw-digest/internal/config"
	"github.com/suykerbuyk/aw-digest/internal/events"
)

func TestOpenHTTP(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.URL = "http://127.0.0.1:5666"

	h, err := Open(cfg, "2025-03-14")
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, config.SourceHTTP, h.Kind)
	assert.Equal(t, "http://127.0.0.1:5666", h.Where)
	assert.IsType(t, &awclient.Client{}, h.Source)
}

func TestOpenCaptureUsesDayPath(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	c := &capture.Capture{
		Day:     "2025-03-14",
		Start:   start,
		End:     start.AddDate(0, 0, 1),
		Buckets: map[string]events.Bucket{"afk": {ID: "afk", Type: events.TypeAFK}},
		Events:  map[string][]events.Event{},
	}
	require.NoError(t, capture.Write(capture.Path(dir, "2025-03-14"), c))

	cfg := config.DefaultConfig()
	cfg.Source.Kind = config.SourceCapture
	cfg.Capture.Dir = dir

	h, err := Open(cfg, "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2025-03-14.jsonl.zst"), h.Where)

	buckets, err := h.Buckets(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buckets, "afk")
	assert.NoError(t, h.Close())
}

func TestOpenCaptureMissing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source.Kind = config.SourceCapture
	cfg.Source.CapturePath = filepath.Join(t.TempDir(), "missing.jsonl.zst")

	_, err := Open(cfg, "2025-03-14")
	var te *events.TransportError
	assert.True(t, errors.As(err, &te), "got %v", err)
}

func TestOpenSQLiteClosesTwice(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source.Kind = config.SourceSQLite
	cfg.Source.DatabasePath = filepath.Join(t.TempDir(), "aw.db")
	require.NoError(t, os.WriteFile(cfg.Source.DatabasePath, nil, 0o644))

	h, err := Open(cfg, "")
	require.NoError(t, err)
	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}

func TestOpenSQLiteMissing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source.Kind = config.SourceSQLite
	cfg.Source.DatabasePath = filepath.Join(t.TempDir(), "aw.db")

	_, err := Open(cfg, "")
	var te *events.TransportError
	require.True(t, errors.As(err, &te), "got %v", err)
	assert.Equal(t, "open database", te.Op)

	_, statErr := os.Stat(cfg.Source.DatabasePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenUnknownKind(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source.Kind = "ftp"
	_, err := Open(cfg, "")
	assert.Error(t, err)
}
