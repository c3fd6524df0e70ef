package state

import (
	"github.com/san-kum/spinsim/internal/data"
)

// CopyImage stores a deep copy of the image in the clipboard. The copy is taken
// under the image's read lock, so it is consistent even while a method runs.
func (s *State) CopyImage(idxImage int) error {
	if s == nil {
		return data.Errorf("copy image", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(idxImage, -1)
	if err != nil {
		return err
	}
	s.clipboardImage = r.Image.Clone()
	s.info("copied image to clipboard", "image", r.IdxImage)
	return nil
}

// CutImage copies the image into the clipboard and removes it from the chain.
// The only image of a chain is copied but kept. Fails with data.ErrImageBusy
// while the image or its chain is simulated.
func (s *State) CutImage(idxImage int) error {
	if s == nil {
		return data.Errorf("cut image", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(idxImage, -1)
	if err != nil {
		return err
	}
	if s.busy(r) {
		return data.Errorf("cut image", data.ErrImageBusy, "image %d is being simulated", r.IdxImage)
	}

	clip := r.Image.Clone()
	if r.Chain.NOI() > 1 {
		if _, err := r.Chain.Remove(r.IdxImage); err != nil {
			return err
		}
		delete(s.methodImage, r.Image.ID())
	}
	s.clipboardImage = clip
	s.info("cut image to clipboard", "image", r.IdxImage, "noi", r.Chain.NOI())
	return nil
}

// PasteImage overwrites the spins and parameters of the image with the
// clipboard image.
func (s *State) PasteImage(idxImage int) error {
	if s == nil {
		return data.Errorf("paste image", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(idxImage, -1)
	if err != nil {
		return err
	}
	if s.clipboardImage == nil {
		return data.Errorf("paste image", data.ErrEmptyClipboard, "")
	}
	if s.busy(r) {
		return data.Errorf("paste image", data.ErrImageBusy, "image %d is being simulated", r.IdxImage)
	}

	if err := r.Image.SetSpins(s.clipboardImage.Snapshot()); err != nil {
		return err
	}
	r.Image.SetParams(s.clipboardImage.Params())
	s.info("pasted image from clipboard", "image", r.IdxImage)
	return nil
}

// InsertImageBefore inserts a copy of the clipboard image before idxImage.
func (s *State) InsertImageBefore(idxImage int) error {
	return s.insertImage(idxImage, 0)
}

// InsertImageAfter inserts a copy of the clipboard image after idxImage.
func (s *State) InsertImageAfter(idxImage int) error {
	return s.insertImage(idxImage, 1)
}

func (s *State) insertImage(idxImage, offset int) error {
	if s == nil {
		return data.Errorf("insert image", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(idxImage, -1)
	if err != nil {
		return err
	}
	if s.clipboardImage == nil {
		return data.Errorf("insert image", data.ErrEmptyClipboard, "")
	}
	if live(s.methodChain[r.IdxChain]) {
		return data.Errorf("insert image", data.ErrImageBusy, "chain %d is being simulated", r.IdxChain)
	}

	if err := r.Chain.Insert(r.IdxImage+offset, s.clipboardImage.Clone()); err != nil {
		return err
	}
	s.info("inserted image from clipboard", "image", r.IdxImage+offset, "noi", r.Chain.NOI())
	return nil
}

// DeleteImage removes the image from the chain. The last image cannot be deleted.
func (s *State) DeleteImage(idxImage int) error {
	if s == nil {
		return data.Errorf("delete image", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(idxImage, -1)
	if err != nil {
		return err
	}
	if s.busy(r) {
		return data.Errorf("delete image", data.ErrImageBusy, "image %d is being simulated", r.IdxImage)
	}
	if _, err := r.Chain.Remove(r.IdxImage); err != nil {
		return err
	}
	delete(s.methodImage, r.Image.ID())
	s.info("deleted image", "image", r.IdxImage, "noi", r.Chain.NOI())
	return nil
}

// CopySpins stores a copy of the image's spins in the spin clipboard.
func (s *State) CopySpins(idxImage int) error {
	if s == nil {
		return data.Errorf("copy spins", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(idxImage, -1)
	if err != nil {
		return err
	}
	s.clipboardSpins = r.Image.Snapshot()
	return nil
}

// PasteSpins overwrites the image's spins with the spin clipboard.
func (s *State) PasteSpins(idxImage int) error {
	if s == nil {
		return data.Errorf("paste spins", data.ErrNotInitialized, "no state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(idxImage, -1)
	if err != nil {
		return err
	}
	if s.clipboardSpins == nil {
		return data.Errorf("paste spins", data.ErrEmptyClipboard, "no spins copied")
	}
	if s.busy(r) {
		return data.Errorf("paste spins", data.ErrImageBusy, "image %d is being simulated", r.IdxImage)
	}
	return r.Image.SetSpins(s.clipboardSpins)
}

// ClipboardImage returns the image held by the clipboard, or nil.
func (s *State) ClipboardImage() *data.Image {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clipboardImage
}

// LoadClipboard places a copy of an image from outside the chain in the
// clipboard, for example one taken from another session.
func (s *State) LoadClipboard(im *data.Image) error {
	if s == nil {
		return data.Errorf("load clipboard", data.ErrNotInitialized, "no state")
	}
	if im == nil {
		return data.Errorf("load clipboard", data.ErrNotInitialized, "image is nil")
	}
	clip := im.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return data.Errorf("load clipboard", data.ErrNotInitialized, "state is closed")
	}
	s.clipboardImage = clip
	return nil
}
