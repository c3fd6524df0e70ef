package data

import (
	"sync"

	"github.com/google/uuid"
)

// Chain is an ordered sequence of images sharing one number of spins.
// It always holds at least one image and keeps its active index in [0, noi).
type Chain struct {
	mu        sync.RWMutex
	images    []*Image
	idxActive int
	nos       int
	params    GNEBParams
}

func NewChain(images []*Image, params GNEBParams) (*Chain, error) {
	if len(images) == 0 {
		return nil, Errorf("new chain", ErrEmptyChain, "")
	}

	for i, im := range images {
		if im == nil {
			return nil, Errorf("new chain", ErrNotInitialized, "image %d is nil", i)
		}
	}

	nos := images[0].NOS()
	for i, im := range images {
		if im.NOS() != nos {
			return nil, Errorf("new chain", ErrIncompatibleGeometry, "image %d has nos %d, expected %d", i, im.NOS(), nos)
		}
	}

	c := &Chain{
		images: make([]*Image, len(images)),
		nos:    nos,
		params: params,
	}
	copy(c.images, images)
	return c, nil
}

func (c *Chain) NOI() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

func (c *Chain) NOS() int { return c.nos }

func (c *Chain) Params() GNEBParams {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params
}

func (c *Chain) SetParams(p GNEBParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = p
}

func (c *Chain) Image(idx int) (*Image, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if idx < 0 || idx >= len(c.images) {
		return nil, Errorf("image", ErrIndexOutOfRange, "index %d, noi %d", idx, len(c.images))
	}
	return c.images[idx], nil
}

// Lookup resolves idx to an image. A negative idx selects the active image.
// An index at or beyond noi fails without touching the chain.
func (c *Chain) Lookup(idx int) (*Image, int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if idx >= len(c.images) {
		return nil, 0, Errorf("lookup", ErrIndexOutOfRange, "index %d points to non-existent image (noi=%d)", idx, len(c.images))
	}
	if idx < 0 {
		return c.images[c.idxActive], c.idxActive, nil
	}
	return c.images[idx], idx, nil
}

// ByID returns the image with the given identity and its current index.
func (c *Chain) ByID(id uuid.UUID) (*Image, int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, im := range c.images {
		if im.id == id {
			return im, i, true
		}
	}
	return nil, -1, false
}

// Images returns a copy of the image sequence.
func (c *Chain) Images() []*Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Image, len(c.images))
	copy(out, c.images)
	return out
}

func (c *Chain) ActiveIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.idxActive
}

func (c *Chain) Active() *Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.images[c.idxActive]
}

func (c *Chain) SetActive(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.images) {
		return Errorf("set active", ErrIndexOutOfRange, "index %d, noi %d", idx, len(c.images))
	}
	c.idxActive = idx
	return nil
}

// Insert places im at position idx, shifting later images back. idx may equal noi
// to append. The active image stays focused.
func (c *Chain) Insert(idx int, im *Image) error {
	if im == nil {
		return Errorf("insert", ErrNotInitialized, "image is nil")
	}
	if im.NOS() != c.nos {
		return Errorf("insert", ErrIncompatibleGeometry, "image has nos %d, chain has %d", im.NOS(), c.nos)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx > len(c.images) {
		return Errorf("insert", ErrIndexOutOfRange, "index %d, noi %d", idx, len(c.images))
	}

	c.images = append(c.images, nil)
	copy(c.images[idx+1:], c.images[idx:])
	c.images[idx] = im

	if idx <= c.idxActive {
		c.idxActive++
	}
	return nil
}

// Remove deletes and returns the image at idx. The last image of a chain cannot be removed.
func (c *Chain) Remove(idx int) (*Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx < 0 || idx >= len(c.images) {
		return nil, Errorf("remove", ErrIndexOutOfRange, "index %d, noi %d", idx, len(c.images))
	}
	if len(c.images) == 1 {
		return nil, Errorf("remove", ErrLastImage, "")
	}

	im := c.images[idx]
	copy(c.images[idx:], c.images[idx+1:])
	c.images[len(c.images)-1] = nil
	c.images = c.images[:len(c.images)-1]

	if idx < c.idxActive || c.idxActive >= len(c.images) {
		c.idxActive--
	}
	return im, nil
}
