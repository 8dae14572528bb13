// Package eventsource opens the event source selected by the config.
package eventsource

import (
	"fmt"

	"github.com/suykerbuyk/aw-digest/internal/awclient"
	"github.com/suykerbuyk/aw-digest/internal/awstore"
	"github.com/suykerbuyk/aw-digest/internal/capture"
	"github.com/suykerbuyk/aw-digest/internal/config"
	"github.com/suykerbuyk/aw-digest/internal/events"
)

// Handle is an open source. Close releases whatever the source holds.
type Handle struct {
	events.Source
	Kind  string
	Where string
	close func() error
}

// Close releases the source. It is safe to call on every kind.
func (h *Handle) Close() error {
	if h.close == nil {
		return nil
	}
	err := h.close()
	h.close = nil
	return err
}

// Open returns the source for cfg.Source.Kind. day (YYYY-MM-DD) selects the
// capture file when source.capture_path is unset.
func Open(cfg config.Config, day string) (*Handle, error) {
	switch cfg.Source.Kind {
	case config.SourceHTTP, "":
		return &Handle{
			Source: awclient.New(cfg.Server.URL, cfg.Timeout(), cfg.Source.Lookback),
			Kind:   config.SourceHTTP,
			Where:  cfg.Server.URL,
		}, nil

	case config.SourceSQLite:
		st, err := awstore.Open(cfg.Source.DatabasePath, cfg.Source.Lookback)
		if err != nil {
			return nil, err
		}
		return &Handle{Source: st, Kind: config.SourceSQLite, Where: cfg.Source.DatabasePath, close: st.Close}, nil

	case config.SourceCapture:
		path := cfg.Source.CapturePath
		if path == "" {
			path = cfg.CapturePath(day)
		}
		src, err := capture.Open(path, cfg.Source.Lookback)
		if err != nil {
			return nil, err
		}
		return &Handle{Source: src, Kind: config.SourceCapture, Where: path}, nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
