package v1

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Pinger is the connectivity probe the health endpoint checks. The sqlite
// credential store satisfies it with a database ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthcheckRouter sets up the healthcheck route.
func HealthcheckRouter(store Pinger) http.Handler {
	routes := &healthcheckRoutes{store: store}
	r := chi.NewRouter()
	r.Get("/", routes.getHealthcheck)
	return r
}

type healthcheckRoutes struct {
	store Pinger
}

func (h *healthcheckRoutes) getHealthcheck(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		http.Error(w, "credential store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
