package app

import (
	"sync"

	"go.uber.org/zap"

	"signa/internal/domain"
)

// Router is the Navigator for the CLI. Each route maps to a handler run when
// the session or the wizard moves the user there.
type Router struct {
	log *zap.Logger

	mu       sync.Mutex
	handlers map[domain.Route]func()
	visited  []domain.Route
}

// NewRouter returns an empty Router.
func NewRouter(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{log: log, handlers: make(map[domain.Route]func())}
}

// Handle registers fn for route, replacing any previous handler.
func (r *Router) Handle(route domain.Route, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[route] = fn
}

// Navigate records the visit and runs the route's handler, if any.
func (r *Router) Navigate(route domain.Route) {
	r.mu.Lock()
	r.visited = append(r.visited, route)
	fn := r.handlers[route]
	r.mu.Unlock()

	r.log.Debug("navigate", zap.String("route", string(route)))
	if fn != nil {
		fn()
	}
}

// Visited returns the routes navigated to so far, oldest first.
func (r *Router) Visited() []domain.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Route(nil), r.visited...)
}

var _ domain.Navigator = (*Router)(nil)
