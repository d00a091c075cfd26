package core

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedProps = errors.New("malformed property bag")

// ScopeRecursionError reports a render that nested deeper than the
// dispatcher allows, typically an override that renders its own name
// against the scope it was registered in.
type ScopeRecursionError struct {
	Name  string
	Depth int
}

func (e *ScopeRecursionError) Error() string {
	return fmt.Sprintf("component %q exceeded max render depth %d (self-referential override?)", e.Name, e.Depth)
}

// RenderError wraps a failure with the component path where it happened.
type RenderError struct {
	Path []string
	Err  error
}

const maxErrorPath = 8

func (e *RenderError) Error() string {
	path := e.Path
	prefix := ""
	if len(path) > maxErrorPath {
		path = path[len(path)-maxErrorPath:]
		prefix = "... > "
	}
	if len(path) == 0 {
		return fmt.Sprintf("render: %v", e.Err)
	}
	return fmt.Sprintf("render %s%s: %v", prefix, strings.Join(path, " > "), e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
