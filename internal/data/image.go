package data

import (
	"sync"

	"github.com/google/uuid"
	"github.com/san-kum/spinsim/internal/spin"
)

// Image owns one spin configuration and its per-image method parameters.
// The configuration is guarded by the image lock, which is also the slot lock
// a running method holds while it mutates the spins.
type Image struct {
	mu     sync.RWMutex
	id     uuid.UUID
	config *spin.Configuration
	params Params
}

func NewImage(cfg *spin.Configuration, params Params) *Image {
	return &Image{
		id:     uuid.New(),
		config: cfg,
		params: params,
	}
}

// ID is the stable identity of the image. It survives reordering of the chain.
func (im *Image) ID() uuid.UUID { return im.id }

// NOS is fixed for the lifetime of the image.
func (im *Image) NOS() int { return im.config.NOS() }

func (im *Image) Geometry() *spin.Geometry { return im.config.Geometry }

func (im *Image) Params() Params {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.params
}

func (im *Image) SetParams(p Params) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.params = p
}

// Update runs fn with exclusive access to the configuration.
func (im *Image) Update(fn func(cfg *spin.Configuration)) {
	im.mu.Lock()
	defer im.mu.Unlock()
	fn(im.config)
}

// View runs fn with shared access to the configuration. fn must not mutate it.
func (im *Image) View(fn func(cfg *spin.Configuration)) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	fn(im.config)
}

// Snapshot returns a deep copy of the spins.
func (im *Image) Snapshot() spin.Field {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.config.Spins.Clone()
}

func (im *Image) Energy() float64 {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.config.Energy()
}

// SetSpins overwrites the spins with a copy of f.
func (im *Image) SetSpins(f spin.Field) error {
	if len(f) != im.NOS() {
		return Errorf("set spins", ErrIncompatibleGeometry, "nos %d, image has %d", len(f), im.NOS())
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.config.Spins.CopyFrom(f)
	return nil
}

// Clone returns a deep copy of the image with a fresh identity.
func (im *Image) Clone() *Image {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return &Image{
		id:     uuid.New(),
		config: im.config.Clone(),
		params: im.params,
	}
}

// UpdateAll locks every image in slice order and runs fn with their
// configurations. Callers pass images in chain order so that concurrent
// callers agree on the lock order.
func UpdateAll(images []*Image, fn func(cfgs []*spin.Configuration)) {
	cfgs := make([]*spin.Configuration, len(images))
	for i, im := range images {
		im.mu.Lock()
		cfgs[i] = im.config
	}
	defer func() {
		for i := len(images) - 1; i >= 0; i-- {
			images[i].mu.Unlock()
		}
	}()
	fn(cfgs)
}
