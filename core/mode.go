package core

import (
	"fmt"

	"github.com/encodeous/coretopo/state"
)

// SetLinkMode turns the canvas edge drawing mode on or off
func (e *Editor) SetLinkMode(enabled bool) {
	if enabled {
		e.canvas.AddEdgeMode()
	} else {
		e.canvas.DisableEditMode()
	}
}

// SetNodeMode sets the type and model given to nodes added afterwards. An empty model means none.
func (e *Editor) SetNodeMode(t state.NodeType, model string) error {
	if _, ok := t.Descriptor(); !ok {
		return fmt.Errorf("%w: %d", state.ErrUnknownNodeType, int(t))
	}
	_, err := e.DispatchWait(func(s *state.State) (any, error) {
		s.Mode = state.NodeMode{Type: t, Model: model}
		s.Log.Debug("node mode changed", "type", t, "model", model)
		return nil, nil
	})
	return err
}

func (e *Editor) NodeMode() (state.NodeMode, error) {
	return query(e, func(s *state.State) (state.NodeMode, error) {
		return s.Mode, nil
	})
}
