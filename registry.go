package corostack

import "sync"

// registryTable is the engine dispatcher of spec.md §4.4: a fixed,
// build-time table of the engines this binary was linked with, exposed to
// callers via [EngineList]/[EngineFlags] and consulted internally by
// [selectEngine]. Grounded on the shape of the teacher's registry.go (a
// mutex-guarded table behind a handful of accessor methods); the content is
// unrelated, since the teacher's registry solves promise bookkeeping rather
// than engine dispatch.
type registryTable struct {
	mu      sync.RWMutex
	engines []engine
	byName  map[string]engine
}

var engineRegistry = newEngineRegistry()

// newEngineRegistry builds the table of built-in engines. The order matters
// for [selectEngine]'s unnamed-flags-superset search: jump is tried first as
// the lightest-weight back-end, then context, then thread last since it is
// the most heavyweight (it parks an OS thread per coroutine).
func newEngineRegistry() *registryTable {
	r := &registryTable{
		byName: make(map[string]engine, 3),
	}
	r.register(newJumpEngine())
	r.register(newContextEngine())
	r.register(newThreadEngine())
	return r
}

func (r *registryTable) register(e engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines = append(r.engines, e)
	r.byName[e.engineName()] = e
}

func (r *registryTable) list() []engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]engine, len(r.engines))
	copy(out, r.engines)
	return out
}

func (r *registryTable) lookup(name string) (engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// registeredEngines returns the engines this binary was linked with, in
// dispatcher search order.
func registeredEngines() []engine {
	return engineRegistry.list()
}

// EngineList returns the names of every engine this binary was linked with,
// in dispatcher search order (spec.md §6: "the library MUST expose ...
// enumeration of available engines").
func EngineList() []string {
	es := engineRegistry.list()
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.engineName()
	}
	return out
}

// EngineFlags returns the full capability set the named engine advertises,
// or the zero [Flags] value if no such engine is registered (spec.md §6:
// "... and their capability flags").
func EngineFlags(name string) Flags {
	e, ok := engineRegistry.lookup(name)
	if !ok {
		return 0
	}
	return e.engineFlags()
}
