package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/encodeous/coretopo/canvas"
	"github.com/encodeous/coretopo/core"
	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
	"github.com/goccy/go-yaml"
)

func loadConfig(path string) (state.Config, error) {
	cfg := state.DefaultConfig()
	file, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	state.ExpandConfig(&cfg)
	if logPath != "" {
		cfg.LogPath = logPath
	}
	if err := state.ConfigValidator(&cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func loadTopology(path string) (*state.TopologyFile, error) {
	var topo state.TopologyFile
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(file, &topo); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := state.TopologyValidator(&topo); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &topo, nil
}

func newLogger(cfg state.Config) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return core.NewLogger(level, "coretopo", cfg.LogPath)
}

// editorSession bundles an editor running on a headless canvas
type editorSession struct {
	cfg    state.Config
	log    *slog.Logger
	client *remote.Client
	cv     *canvas.Network
	ed     *core.Editor
}

// openEditor starts an editor against session, or against the configured remote when session is nil
func openEditor(ctx context.Context, session remote.Session) (*editorSession, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	es := &editorSession{cfg: cfg, log: log, cv: canvas.NewNetwork()}
	if session == nil {
		es.client, err = remote.NewClientFromConfig(cfg.Remote, log)
		if err != nil {
			return nil, err
		}
		session = es.client
	}
	es.ed, err = core.NewEditor(ctx, cfg, es.cv, session, log)
	if err != nil {
		es.Close()
		return nil, err
	}
	es.ed.Start()
	return es, nil
}

func (es *editorSession) Close() {
	if es.ed != nil {
		es.ed.Stop()
	}
	if es.client != nil {
		es.client.Close()
	}
}

func writeYaml(w io.Writer, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
