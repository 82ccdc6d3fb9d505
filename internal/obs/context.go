package obs

import (
	"context"
	"sync"
)

type routePatternKey struct{}

type annotationsKey struct{}

// annotations collects per-request fields that handlers attach for the
// request log line written after they return.
type annotations struct {
	mu     sync.Mutex
	fields map[string]string
	order  []string
}

// WithRoutePattern stores the matched router pattern on the context.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routePatternKey{}, pattern)
}

// RoutePatternFromContext extracts the route pattern from context if present.
func RoutePatternFromContext(ctx context.Context) string {
	v, _ := ctx.Value(routePatternKey{}).(string)
	return v
}

func withAnnotations(ctx context.Context) (context.Context, *annotations) {
	if a, ok := ctx.Value(annotationsKey{}).(*annotations); ok {
		return ctx, a
	}
	a := &annotations{fields: map[string]string{}}
	return context.WithValue(ctx, annotationsKey{}, a), a
}

// Annotate attaches key=value to the request log line. It is a no-op when
// the request did not pass through RequestLogger.
func Annotate(ctx context.Context, key, value string) {
	a, ok := ctx.Value(annotationsKey{}).(*annotations)
	if !ok {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, seen := a.fields[key]; !seen {
		a.order = append(a.order, key)
	}
	a.fields[key] = value
}

func (a *annotations) each(fn func(key, value string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range a.order {
		fn(key, a.fields[key])
	}
}
