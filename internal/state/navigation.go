package state

import (
	"time"

	"github.com/san-kum/spinsim/internal/data"
)

// JumpToImage makes idxImage the active image.
func (s *State) JumpToImage(idxImage int) error {
	if s == nil {
		return data.Errorf("jump to image", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(idxImage, -1)
	if err != nil {
		return err
	}
	return r.Chain.SetActive(r.IdxImage)
}

// NextImage moves the focus one image forward and returns the active index.
// It stays on the last image.
func (s *State) NextImage() (int, error) {
	return s.step(1)
}

// PrevImage moves the focus one image back and returns the active index.
// It stays on the first image.
func (s *State) PrevImage() (int, error) {
	return s.step(-1)
}

func (s *State) step(delta int) (int, error) {
	if s == nil {
		return 0, data.Errorf("navigate", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(-1, -1)
	if err != nil {
		return 0, err
	}
	next := r.IdxImage + delta
	if next < 0 || next >= r.Chain.NOI() {
		return r.IdxImage, nil
	}
	if err := r.Chain.SetActive(next); err != nil {
		return r.IdxImage, err
	}
	return next, nil
}

func (s *State) ActiveImageIndex() (int, error) {
	r, err := s.FromIndices(-1, -1)
	if err != nil {
		return 0, err
	}
	return r.IdxImage, nil
}

// NOI returns the number of images of the chain, 0 without one.
func (s *State) NOI() int {
	r, err := s.FromIndices(-1, -1)
	if err != nil {
		return 0
	}
	return r.Chain.NOI()
}

// NOS returns the number of spins per image, 0 without a chain.
func (s *State) NOS() int {
	r, err := s.FromIndices(-1, -1)
	if err != nil {
		return 0
	}
	return r.Chain.NOS()
}

// Chain returns the simulated chain.
func (s *State) Chain() (*data.Chain, error) {
	r, err := s.FromIndices(-1, -1)
	if err != nil {
		return nil, err
	}
	return r.Chain, nil
}

// Info summarizes a session.
type Info struct {
	Created     time.Time
	ConfigFile  string
	NOI         int
	NOS         int
	ActiveImage int
	Running     int
}

func (s *State) Info() (Info, error) {
	r, err := s.FromIndices(-1, -1)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Created:     s.created,
		ConfigFile:  s.configFile,
		NOI:         r.Chain.NOI(),
		NOS:         r.Chain.NOS(),
		ActiveImage: r.IdxImage,
		Running:     s.Running(),
	}, nil
}
