package state

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrRemoteCall      = errors.New("remote call failed")
	ErrSelfLink        = errors.New("link connects a node to itself")
	ErrDuplicateLink   = errors.New("link already exists")
	ErrUnknownNodeType = errors.New("unknown node type")
)

// NotFoundError is returned when a node id is not in the registry.
type NotFoundError struct {
	Id NodeId
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("node %d not found", e.Id)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RemoteError wraps a failed call against the remote session.
type RemoteError struct {
	Op   string
	Node NodeId // zero when the call is not about a single node
	Err  error
}

func (e *RemoteError) Error() string {
	if e.Node != 0 {
		return fmt.Sprintf("%s (node %d): %v", e.Op, e.Node, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() []error {
	return []error{ErrRemoteCall, e.Err}
}
