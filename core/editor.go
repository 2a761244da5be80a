package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync/atomic"
	"time"

	"github.com/encodeous/coretopo/canvas"
	"github.com/encodeous/coretopo/remote"
	"github.com/encodeous/coretopo/state"
)

var ErrStopped = errors.New("editor stopped")

// Editor keeps the local topology of one remote session. All topology state lives on the
// main loop, public methods may be called from any goroutine.
type Editor struct {
	*state.Env
	canvas  canvas.Canvas
	session remote.Session

	s        *state.State
	dispatch chan func(*state.State) error
	errs     chan error
	done     chan struct{}

	// canvas events that were received but not fully handled yet
	outstanding atomic.Int64
}

func NewEditor(ctx context.Context, cfg state.Config, cv canvas.Canvas, session remote.Session, log *slog.Logger) (*Editor, error) {
	t, err := state.ParseNodeType(cfg.NodeType)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancelCause(ctx)
	dispatch := make(chan func(*state.State) error, state.DispatchBuffer)
	e := &Editor{
		Env: &state.Env{
			DispatchChannel: dispatch,
			Config:          cfg,
			Context:         ctx,
			Cancel:          cancel,
			Log:             log,
		},
		canvas:   cv,
		session:  session,
		dispatch: dispatch,
		errs:     make(chan error, state.ErrorBuffer),
		done:     make(chan struct{}),
	}
	e.s = state.NewState(e.Env)
	e.s.Mode = state.NodeMode{Type: t, Model: cfg.NodeModel}

	cv.OnDoubleClick(e.onDoubleClick)
	cv.OnEdgeAdded(e.onEdgeAdded)
	return e, nil
}

// Run blocks until the editor is stopped. It returns nil unless the main loop failed.
func (e *Editor) Run() error {
	defer close(e.done)
	defer close(e.errs)
	err := MainLoop(e.s, e.dispatch)
	if errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (e *Editor) Start() {
	e.Started.Store(true)
	go func() {
		if err := e.Run(); err != nil {
			e.Log.Error("editor failed", "error", err)
		}
	}()
}

// Stop cancels the main loop and waits for it to exit
func (e *Editor) Stop() {
	e.Cancel(ErrStopped)
	if e.Started.Load() {
		<-e.done
	}
}

// Errors delivers failures of interactive operations. It is closed when the editor stops.
func (e *Editor) Errors() <-chan error {
	return e.errs
}

// report must be called on the main loop
func (e *Editor) report(err error) {
	select {
	case e.errs <- err:
	default:
		e.Log.Warn("dropped editor error, nobody is reading Errors()", "error", err)
	}
}

func (e *Editor) settled() {
	e.outstanding.Add(-1)
}

// Settle waits until every canvas event received so far has been handled, including
// the address allocations it started
func (e *Editor) Settle(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for e.outstanding.Load() > 0 {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		case <-e.Context.Done():
			return context.Cause(e.Context)
		}
	}
	return nil
}

func query[T any](e *Editor, fun func(s *state.State) (T, error)) (T, error) {
	res, err := e.DispatchWait(func(s *state.State) (any, error) {
		return fun(s)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func cloneNode(n *state.Node) state.Node {
	c := *n
	c.Interfaces = maps.Clone(n.Interfaces)
	if n.Geo != nil {
		geo := *n.Geo
		c.Geo = &geo
	}
	return c
}

func cloneLink(l *state.Link) state.Link {
	c := *l
	if l.Interface1 != nil {
		itf := *l.Interface1
		c.Interface1 = &itf
	}
	if l.Interface2 != nil {
		itf := *l.Interface2
		c.Interface2 = &itf
	}
	return c
}

// Nodes returns a copy of the registered nodes in registration order
func (e *Editor) Nodes() ([]state.Node, error) {
	return query(e, func(s *state.State) ([]state.Node, error) {
		out := make([]state.Node, 0, s.Registry.Len())
		for _, n := range s.Registry.Nodes() {
			out = append(out, cloneNode(n))
		}
		return out, nil
	})
}

func (e *Editor) Node(id state.NodeId) (state.Node, error) {
	return query(e, func(s *state.State) (state.Node, error) {
		n, err := s.Registry.Get(id)
		if err != nil {
			return state.Node{}, err
		}
		return cloneNode(n), nil
	})
}

// Links returns a copy of the stored links in insertion order
func (e *Editor) Links() ([]state.Link, error) {
	return query(e, func(s *state.State) ([]state.Link, error) {
		out := make([]state.Link, 0, s.Store.Len())
		for _, l := range s.Store.Links() {
			out = append(out, cloneLink(l))
		}
		return out, nil
	})
}

func (e *Editor) Link(key string) (state.Link, error) {
	return query(e, func(s *state.State) (state.Link, error) {
		l, ok := s.Store.Get(key)
		if !ok {
			return state.Link{}, fmt.Errorf("link %s: %w", key, state.ErrNotFound)
		}
		return cloneLink(l), nil
	})
}

// LastId is the highest node id known to the allocator
func (e *Editor) LastId() (state.NodeId, error) {
	return query(e, func(s *state.State) (state.NodeId, error) {
		return s.Registry.Alloc.Last(), nil
	})
}
