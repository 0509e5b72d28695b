// Package manager holds the hub's core: a registry of backend types and
// live model instances, and a dispatcher that routes prompts to one or
// many of them concurrently.
package manager

import (
	"fmt"
	"sort"
	"sync"

	"github.com/requiem-ai/modelhub/llm"
	"github.com/rs/zerolog/log"
)

// Instance is a live, named binding of a backend plus its own conversation
// context. The context belongs to the instance alone; anything leaving this
// package is a copy.
type Instance struct {
	id      string
	backend llm.Backend

	mu      sync.Mutex
	context []llm.Message
}

// snapshot returns a copy of the live context.
func (inst *Instance) snapshot() []llm.Message {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	out := make([]llm.Message, len(inst.context))
	copy(out, inst.context)
	return out
}

// append adds messages to the live context in one atomic step. Two
// concurrent rounds against the same instance interleave their appends in
// an unspecified order, but each call's messages land adjacent and the
// sequence itself stays intact.
func (inst *Instance) append(msgs ...llm.Message) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.context = append(inst.context, msgs...)
}

func (inst *Instance) clear() {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.context = nil
}

// Manager owns the catalog of instantiable backend types and the map of
// live instances. Construct one per composition; there is no package-level
// singleton.
type Manager struct {
	mu        sync.RWMutex
	catalog   map[string]llm.Constructor
	instances map[string]*Instance
}

func New() *Manager {
	return &Manager{
		catalog:   make(map[string]llm.Constructor),
		instances: make(map[string]*Instance),
	}
}

// RegisterBackendType adds a constructor to the catalog under name.
func (m *Manager) RegisterBackendType(name string, ctor llm.Constructor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.catalog[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, name)
	}
	m.catalog[name] = ctor

	log.Debug().Str("type", name).Msg("registered backend type")
	return nil
}

// Instantiate constructs a backend of the given registered type and stores
// it as a live instance with an empty context. On failure nothing is
// mutated.
func (m *Manager) Instantiate(id, typeName string, cfg *llm.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctor, ok := m.catalog[typeName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	if _, ok := m.instances[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateInstance, id)
	}

	if cfg == nil {
		cfg = llm.NewConfig()
	}
	m.instances[id] = &Instance{
		id:      id,
		backend: ctor(cfg),
	}

	log.Info().Str("instance", id).Str("type", typeName).Msg("instantiated model")
	return nil
}

// Remove clears the instance's context and drops it from the live map.
// Removing an absent id is a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.instances[id]
	if !ok {
		return
	}
	inst.clear()
	delete(m.instances, id)

	log.Info().Str("instance", id).Msg("removed model instance")
}

// BackendTypes returns a sorted snapshot of registered type names.
func (m *Manager) BackendTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.catalog))
	for name := range m.catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Instances returns a sorted snapshot of live instance ids.
func (m *Manager) Instances() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.instances))
	for id := range m.instances {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) resolve(id string) (*Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, ok := m.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	return inst, nil
}
