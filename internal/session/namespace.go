package session

import "sync"

// Namespace addresses session entities by session id. It guarantees that no
// two entities ever manage the same id concurrently, which is the
// serialization anchor for the whole session layer.
type Namespace struct {
	storage Storage

	mu       sync.Mutex
	entities map[string]*Entity
}

func NewNamespace(storage Storage) *Namespace {
	return &Namespace{
		storage:  storage,
		entities: make(map[string]*Entity),
	}
}

// Entity returns the one entity for the given session id, creating it on
// first use. The returned instance is shared by all concurrent callers.
// Entities release themselves once their durable record is gone, so the map
// holds only sessions with live (or still-unresolved) records.
func (n *Namespace) Entity(sessionID string) *Entity {
	n.mu.Lock()
	defer n.mu.Unlock()

	entity, ok := n.entities[sessionID]
	if !ok {
		entity = newEntity(sessionID, n.storage)
		entity.release = func() { n.Evict(sessionID) }
		n.entities[sessionID] = entity
	}
	return entity
}

// Evict drops the in-process entity for a session id. The durable record is
// untouched; a later Entity call creates a fresh instance that hydrates from
// storage. Invoked by entities themselves after revocation, expiry purge, or
// a not-found read, so dead sessions do not pin memory.
func (n *Namespace) Evict(sessionID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entities, sessionID)
}

// Len reports the number of resident entities.
func (n *Namespace) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entities)
}
