package providers

import (
	"net/http"
	"sync"

	"github.com/brygal1/flowise/pkg/errors"
	"github.com/brygal1/flowise/pkg/logger"
)

// Registry is the lookup table from provider key to descriptor. It is
// constructed by the composition root and passed by handle to the routes
// that need it; registration completes before routes are exposed, and the
// key set is stable for the process lifetime afterwards. There is no
// removal operation.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
	}
}

// Register stores a descriptor under its provider key. Registration is
// idempotent per key; the last write wins.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := d.ProviderKey()
	if _, exists := r.descriptors[key]; exists {
		logger.Warnw("overwriting registered provider", "provider", key)
	}
	r.descriptors[key] = d

	logger.Infow("registered OAuth provider",
		"provider", key,
		"display_name", d.DisplayName(),
		"credential_type", d.CredentialType(),
	)
}

// Get returns the descriptor for the given key. Unknown keys are a
// terminal, user-visible error, not a retry condition.
func (r *Registry) Get(key string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[key]
	if !ok {
		return nil, errors.NewNotFoundError("provider "+key+" is not registered", nil)
	}
	return d, nil
}

// Has reports whether a descriptor is registered under the key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.descriptors[key]
	return ok
}

// All returns a snapshot of the registered descriptors, safe to iterate
// without holding any lock on the registry.
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	return out
}

// DefaultDescriptors returns the providers shipped with the service,
// sharing one HTTP client for exchange and probe calls.
func DefaultDescriptors(client *http.Client) []Descriptor {
	return []Descriptor{
		NewGmail(WithHTTPClient(client)),
		NewOutlook(WithHTTPClient(client)),
	}
}
