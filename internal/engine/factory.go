package engine

import (
	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/logging"
	"github.com/san-kum/spinsim/internal/solver"
	"github.com/san-kum/spinsim/internal/spin"
)

// Target is what a method binds to. Image is ignored by chain-scoped kinds.
type Target struct {
	Chain *data.Chain
	Image *data.Image
}

type Option func(*base)

func WithLogger(l *logging.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(b *base) { b.observers = append(b.observers, o) }
}

// New builds a method of the given kind bound to target. An empty solverName
// selects the solver named in the target's parameters. Unknown kinds and
// solvers fail with data.ErrNotImplemented.
func New(kind Kind, target Target, solverName string, opts ...Option) (Method, error) {
	if target.Chain == nil {
		return nil, data.Errorf("new method", data.ErrNotInitialized, "no chain")
	}

	switch kind {
	case Relaxation:
		if err := checkImage(target); err != nil {
			return nil, err
		}
		params := target.Image.Params().LLG
		s, err := solver.New(pick(solverName, params.Solver, "heun"))
		if err != nil {
			return nil, err
		}
		m := newLLG(target.Chain, target.Image, s, params)
		apply(&m.base, opts)
		return m, nil

	case ModeFollowing:
		if err := checkImage(target); err != nil {
			return nil, err
		}
		params := target.Image.Params().MMF
		s, err := solver.New(pick(solverName, params.Solver, "vp"))
		if err != nil {
			return nil, err
		}
		m := newMMF(target.Chain, target.Image, s, params)
		apply(&m.base, opts)
		return m, nil

	case PathRelaxation:
		for i, im := range target.Chain.Images() {
			if !hasHamiltonian(im) {
				return nil, data.Errorf("new method", data.ErrNotInitialized, "image %d has no hamiltonian", i)
			}
		}
		params := target.Chain.Params()
		s, err := solver.New(pick(solverName, params.Solver, "vp"))
		if err != nil {
			return nil, err
		}
		m := newGNEB(target.Chain, s, params)
		apply(&m.base, opts)
		return m, nil
	}

	return nil, data.Errorf("new method", data.ErrNotImplemented, "unknown method: %s", kind)
}

func apply(b *base, opts []Option) {
	for _, opt := range opts {
		opt(b)
	}
}

func pick(names ...string) string {
	for _, n := range names {
		if n != "" {
			return n
		}
	}
	return ""
}

func checkImage(target Target) error {
	if target.Image == nil {
		return data.Errorf("new method", data.ErrNotInitialized, "no image")
	}
	if !hasHamiltonian(target.Image) {
		return data.Errorf("new method", data.ErrNotInitialized, "image has no hamiltonian")
	}
	return nil
}

func hasHamiltonian(im *data.Image) bool {
	ok := false
	im.View(func(cfg *spin.Configuration) { ok = cfg.Hamiltonian != nil })
	return ok
}
