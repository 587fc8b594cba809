package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Caller invokes a named backend operation and waits for its result.
type Caller interface {
	Call(ctx context.Context, method string, params Params) Result
}

// Handler returns the value for a call. A nil value with a nil error is
// reported as a declined operation.
type Handler func(ctx context.Context, params Params) (any, error)

// Registry dispatches calls to handlers in the same process. It is the
// Caller used when no remote backend is configured, and the dispatch table
// behind Server.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

func (r *Registry) Register(method string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[method] = h
}

func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.handlers))
	for m := range r.handlers {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

func (r *Registry) Call(ctx context.Context, method string, params Params) (result Result) {
	r.mu.RLock()
	h, ok := r.handlers[method]
	r.mu.RUnlock()

	if !ok {
		return Fail(method, ReasonUnknownMethod, "")
	}
	if params == nil {
		params = Params{}
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("RPC handler panicked", "method", method, "panic", p)
			result = Fail(method, ReasonInternal, fmt.Sprint(p))
		}
	}()

	value, err := h(ctx, params)
	if err != nil {
		r.logger.Debug("RPC handler failed", "method", method, "error", err)
		return FailWith(method, err)
	}
	if value == nil {
		return Fail(method, ReasonDeclined, "")
	}
	return OK(method, value)
}
