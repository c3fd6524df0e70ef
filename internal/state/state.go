package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/engine"
	"github.com/san-kum/spinsim/internal/logging"
	"github.com/san-kum/spinsim/internal/spin"
)

// State is the root of one simulation session.
type State struct {
	mu    sync.RWMutex
	chain *data.Chain

	clipboardImage *data.Image
	clipboardSpins spin.Field

	methodImage map[uuid.UUID]engine.Method
	methodChain map[int]engine.Method

	created    time.Time
	configFile string
	quiet      bool
	log        *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

type Option func(*State)

func WithLogger(l *logging.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

// WithQuiet suppresses info level lifecycle logs of the state and its methods.
func WithQuiet(quiet bool) Option {
	return func(s *State) { s.quiet = quiet }
}

// WithConfigFile records the file the chain was loaded from.
func WithConfigFile(path string) Option {
	return func(s *State) { s.configFile = path }
}

// New creates a session around chain. It fails with data.ErrNotInitialized if
// chain is nil and returns no State in that case.
func New(chain *data.Chain, opts ...Option) (*State, error) {
	s := &State{
		methodImage: make(map[uuid.UUID]engine.Method),
		methodChain: make(map[int]engine.Method),
		created:     time.Now(),
		log:         logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if chain == nil {
		s.log.Error("state initialization failed", "error", data.ErrNotInitialized)
		return nil, data.Errorf("new state", data.ErrNotInitialized, "no chain")
	}

	s.chain = chain
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.info("state initialized", "noi", chain.NOI(), "nos", chain.NOS(), "config", s.configFile)
	return s, nil
}

// Resolved is the outcome of index resolution.
type Resolved struct {
	Image    *data.Image
	Chain    *data.Chain
	IdxImage int
	IdxChain int
}

// FromIndices resolves an image and chain index pair. Negative indices select
// the active image and chain. It never changes the state.
func (s *State) FromIndices(idxImage, idxChain int) (Resolved, error) {
	if s == nil {
		return Resolved{}, data.Errorf("resolve", data.ErrNotInitialized, "no state")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(idxImage, idxChain)
}

func (s *State) resolve(idxImage, idxChain int) (Resolved, error) {
	if s.closed || s.chain == nil {
		return Resolved{}, data.Errorf("resolve", data.ErrNotInitialized, "no chain")
	}

	// only one chain exists
	if idxChain >= 1 {
		return Resolved{}, data.Errorf("resolve", data.ErrIndexOutOfRange, "chain %d points to non-existent chain (noc=1)", idxChain)
	}
	if idxChain < 0 {
		idxChain = 0
	}

	im, idx, err := s.chain.Lookup(idxImage)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Image: im, Chain: s.chain, IdxImage: idx, IdxChain: idxChain}, nil
}

// Dispatch starts a method of the given kind on the resolved image, or on the
// whole chain for chain scoped kinds, and runs it on its own goroutine. An
// empty solverName selects the solver named in the target's parameters.
func (s *State) Dispatch(kind engine.Kind, solverName string, idxImage, idxChain int, opts ...engine.Option) (engine.Method, error) {
	if s == nil {
		return nil, data.Errorf("dispatch", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(idxImage, idxChain)
	if err != nil {
		return nil, err
	}

	log := s.log.WithChain(r.IdxChain)
	if kind.ChainScoped() {
		if live(s.methodChain[r.IdxChain]) {
			return nil, data.Errorf("dispatch", data.ErrSlotBusy, "chain %d already runs a method", r.IdxChain)
		}
		for _, im := range r.Chain.Images() {
			if live(s.methodImage[im.ID()]) {
				return nil, data.Errorf("dispatch", data.ErrSlotBusy, "chain %d has a running image method", r.IdxChain)
			}
		}
	} else {
		if live(s.methodImage[r.Image.ID()]) {
			return nil, data.Errorf("dispatch", data.ErrSlotBusy, "image %d already runs a method", r.IdxImage)
		}
		if live(s.methodChain[r.IdxChain]) {
			return nil, data.Errorf("dispatch", data.ErrSlotBusy, "chain %d runs a path method", r.IdxChain)
		}
		log = log.WithImage(r.IdxImage, r.Image.ID().String())
	}

	methodLog := logging.NopLogger()
	if !s.quiet {
		methodLog = log.WithMethod(string(kind), solverName)
	}
	all := append([]engine.Option{engine.WithLogger(methodLog)}, opts...)

	m, err := engine.New(kind, engine.Target{Chain: r.Chain, Image: r.Image}, solverName, all...)
	if err != nil {
		return nil, err
	}

	if kind.ChainScoped() {
		s.methodChain[r.IdxChain] = m
	} else {
		s.methodImage[r.Image.ID()] = m
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := m.Run(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("method ended with error", "method", kind, "error", err)
		}
	}()

	s.info("method dispatched", "method", kind, "image", r.IdxImage, "chain", r.IdxChain, "solver", m.Status().Solver)
	return m, nil
}

// Method returns the method last dispatched onto the image slot, or nil.
func (s *State) Method(idxImage, idxChain int) (engine.Method, error) {
	if s == nil {
		return nil, data.Errorf("method", data.ErrNotInitialized, "no state")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.resolve(idxImage, idxChain)
	if err != nil {
		return nil, err
	}
	return s.methodImage[r.Image.ID()], nil
}

// Status reports the method last dispatched onto the image slot. A slot that
// never held a method reports the zero Status, which is Idle.
func (s *State) Status(idxImage, idxChain int) (engine.Status, error) {
	m, err := s.Method(idxImage, idxChain)
	if err != nil || m == nil {
		return engine.Status{}, err
	}
	return m.Status(), nil
}

// ChainStatus reports the path method last dispatched onto the chain.
func (s *State) ChainStatus(idxChain int) (engine.Status, error) {
	m, err := s.chainMethod(idxChain)
	if err != nil || m == nil {
		return engine.Status{}, err
	}
	return m.Status(), nil
}

func (s *State) chainMethod(idxChain int) (engine.Method, error) {
	if s == nil {
		return nil, data.Errorf("chain method", data.ErrNotInitialized, "no state")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.resolve(-1, idxChain)
	if err != nil {
		return nil, err
	}
	return s.methodChain[r.IdxChain], nil
}

// IsRunning reports whether the image is simulated, either by its own method
// or by a path method on its chain.
func (s *State) IsRunning(idxImage, idxChain int) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.resolve(idxImage, idxChain)
	if err != nil {
		return false
	}
	return s.busy(r)
}

// Running returns the number of live methods.
func (s *State) Running() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.methodImage {
		if live(m) {
			n++
		}
	}
	for _, m := range s.methodChain {
		if live(m) {
			n++
		}
	}
	return n
}

// StopCurrent stops the method on the active image. Without one it stops the
// live path method of the chain. It is a no-op when neither runs.
func (s *State) StopCurrent() {
	if s == nil {
		return
	}
	s.mu.RLock()
	var m engine.Method
	if r, err := s.resolve(-1, -1); err == nil {
		m = s.methodImage[r.Image.ID()]
		if !live(m) {
			m = s.methodChain[r.IdxChain]
		}
	}
	s.mu.RUnlock()

	if live(m) {
		m.Stop()
		s.info("stopped current method", "method", m.Kind())
	}
}

// Stop stops the method on the image slot, if any.
func (s *State) Stop(idxImage, idxChain int) error {
	m, err := s.Method(idxImage, idxChain)
	if err != nil {
		return err
	}
	if m != nil {
		m.Stop()
	}
	return nil
}

// StopChain stops the path method of the chain, if any.
func (s *State) StopChain(idxChain int) error {
	m, err := s.chainMethod(idxChain)
	if err != nil {
		return err
	}
	if m != nil {
		m.Stop()
	}
	return nil
}

// StopAll stops every method of the session.
func (s *State) StopAll() {
	if s == nil {
		return
	}
	methods := s.methods()
	for _, m := range methods {
		m.Stop()
	}
	if len(methods) > 0 {
		s.info("stopped all methods", "count", len(methods))
	}
}

func (s *State) methods() []engine.Method {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]engine.Method, 0, len(s.methodImage)+len(s.methodChain))
	for _, m := range s.methodChain {
		out = append(out, m)
	}
	for _, m := range s.methodImage {
		out = append(out, m)
	}
	return out
}

// Close stops every method, waits for them to return and releases the chain.
// Later calls on the State fail with data.ErrNotInitialized.
func (s *State) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	for _, m := range s.methods() {
		m.Stop()
	}
	s.wg.Wait()

	s.mu.Lock()
	s.chain = nil
	s.clipboardImage = nil
	s.clipboardSpins = nil
	s.methodImage = make(map[uuid.UUID]engine.Method)
	s.methodChain = make(map[int]engine.Method)
	s.mu.Unlock()

	s.info("state closed")
	return nil
}

// busy reports whether r's image or its chain is simulated. Callers hold s.mu.
func (s *State) busy(r Resolved) bool {
	return live(s.methodImage[r.Image.ID()]) || live(s.methodChain[r.IdxChain])
}

func (s *State) info(msg string, args ...any) {
	if !s.quiet {
		s.log.Info(msg, args...)
	}
}

func live(m engine.Method) bool {
	return m != nil && m.Status().Phase.Live()
}
