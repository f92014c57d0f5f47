package visual

import (
	"log"
	"sync"
)

// Fixed keys for table fixtures. Player seats are keyed by player id and
// hand cards by CardKey.
const (
	KeyCenter  = "center"
	KeyBuyPile = "buy-pile"
)

// CardKey builds the registry key for a hand card: "<playerId>_CARD_<cardId>".
func CardKey(playerID, cardID string) string {
	return playerID + "_CARD_" + cardID
}

// Registry maps stable entity keys to live scene handles. Registration
// happens as a side effect of scene-node mounting; the reconciliation loop
// is the only caller of UnregisterAll.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]Handle)}
}

// Register binds a handle to a key. Re-registering the same handle for a key
// is a no-op, preventing redundant downstream re-subscription. Registering a
// different handle replaces the old one; the caller is responsible for
// having cancelled any animation or listener bound to the old handle first.
func (r *Registry) Register(key string, handle Handle) {
	if handle == nil {
		log.Printf("[Registry] Ignoring nil handle for key %q", key)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.handles[key]; ok {
		if existing == handle {
			return
		}
		log.Printf("[Registry] Replacing handle for key %q", key)
	}
	r.handles[key] = handle
}

// Get returns the handle for a key. A missing handle is a normal condition
// (the node may simply not have mounted yet) and never an error.
func (r *Registry) Get(key string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[key]
	return h, ok
}

// Release removes a single key. Used when a hand card departs after a play
// animation completes.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, key)
}

// UnregisterAll clears every key. Only the reconciliation loop calls this;
// handles must not be read for coordinates afterwards.
func (r *Registry) UnregisterAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.handles)
	r.handles = make(map[string]Handle)
	log.Printf("[Registry] Unregistered all handles (%d)", n)
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Keys returns a snapshot of all registered keys. Debug surface only.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.handles))
	for k := range r.handles {
		keys = append(keys, k)
	}
	return keys
}
