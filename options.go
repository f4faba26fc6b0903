package corostack

// poolOptions holds configuration gathered from a [PoolCreate] call's
// options, mirroring the C API's pool_create vs. pool_create_full split
// (spec.md §4.5) as a single functional-options constructor.
type poolOptions struct {
	alloc    Allocator
	allocCtx any
}

// PoolOption configures a [Pool] at construction. Grounded on the teacher's
// options.go functional-options pattern (LoopOption → PoolOption); the
// knobs themselves are unrelated, since the teacher configures an event
// loop's scheduling behaviour and this configures a state pool's backing
// allocator.
type PoolOption interface {
	applyPool(*poolOptions) error
}

// poolOptionImpl implements PoolOption.
type poolOptionImpl struct {
	applyPoolFunc func(*poolOptions) error
}

func (p *poolOptionImpl) applyPool(opts *poolOptions) error {
	return p.applyPoolFunc(opts)
}

// WithPoolAllocator sets the pool's backing [Allocator] and its opaque
// context, corresponding to pool_create_full's resize_cb/free_cb/ctx
// parameters (spec.md §4.5's external-interface note). Every coroutine the
// pool cannot satisfy from a free slot falls through to alloc for its
// initial buffer and final release.
func WithPoolAllocator(alloc Allocator, allocCtx any) PoolOption {
	return &poolOptionImpl{func(opts *poolOptions) error {
		opts.alloc = alloc
		opts.allocCtx = allocCtx
		return nil
	}}
}

// resolvePoolOptions applies opts over the zero-value defaults (system
// allocator, nil context).
func resolvePoolOptions(opts []PoolOption) (*poolOptions, error) {
	cfg := &poolOptions{
		alloc: defaultAllocator{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyPool(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
