// Package tool declares the function-calling surface of the agents: tool
// schemas, a registry of handlers, and the product/order handler sets.
package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Handler executes one tool call. Domain failures (product not found, order
// not cancellable) are folded into the returned payload with success=false;
// a non-nil error is reserved for infrastructure failures that abort the turn.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Registry maps declared tool schemas to their handlers. The two sets are
// validated against each other at construction, so an unknown tool name at
// runtime can only ever come from the model, never from wiring.
type Registry struct {
	infos    []*schema.ToolInfo
	handlers map[string]Handler
}

func NewRegistry(infos []*schema.ToolInfo, handlers map[string]Handler) (*Registry, error) {
	if len(infos) == 0 {
		return nil, errors.New("tool registry requires at least one schema")
	}

	declared := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info == nil || strings.TrimSpace(info.Name) == "" {
			return nil, errors.New("tool schema with empty name")
		}
		if _, dup := declared[info.Name]; dup {
			return nil, fmt.Errorf("duplicate tool schema %q", info.Name)
		}
		declared[info.Name] = struct{}{}
		if _, ok := handlers[info.Name]; !ok {
			return nil, fmt.Errorf("tool %q declared but has no handler", info.Name)
		}
	}
	for name := range handlers {
		if _, ok := declared[name]; !ok {
			return nil, fmt.Errorf("handler %q has no declared schema", name)
		}
	}

	return &Registry{
		infos:    infos,
		handlers: handlers,
	}, nil
}

func (r *Registry) Infos() []*schema.ToolInfo {
	return r.infos
}

func (r *Registry) Handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

/* ------------------------------ arg helpers ------------------------------ */

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// intArg accepts float64 too, since JSON-decoded numbers arrive as floats.
func intArg(args map[string]any, key string) (int, bool) {
	raw, ok := args[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func floatArg(args map[string]any, key string) (float64, bool) {
	raw, ok := args[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func stringMapArg(args map[string]any, key string) map[string]string {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			if s, ok := val.(string); ok && s != "" {
				out[k] = s
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}
