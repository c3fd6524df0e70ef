package data

import (
	"errors"
	"testing"

	"github.com/san-kum/spinsim/internal/spin"
)

func newTestImage(nos int) *Image {
	g := spin.NewLattice(nos, 1, 1)
	return NewImage(spin.NewConfiguration(g, nil), DefaultParams())
}

func newTestChain(t *testing.T, noi, nos int) *Chain {
	t.Helper()
	images := make([]*Image, noi)
	for i := range images {
		images[i] = newTestImage(nos)
	}
	c, err := NewChain(images, DefaultGNEBParams())
	if err != nil {
		t.Fatalf("new chain failed: %v", err)
	}
	return c
}

func TestNewChain_Errors(t *testing.T) {
	tests := []struct {
		name   string
		images []*Image
		want   error
	}{
		{"empty", nil, ErrEmptyChain},
		{"mixed nos", []*Image{newTestImage(4), newTestImage(5)}, ErrIncompatibleGeometry},
		{"nil image", []*Image{newTestImage(4), nil}, ErrNotInitialized},
		{"nil first image", []*Image{nil, newTestImage(4)}, ErrNotInitialized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChain(tt.images, DefaultGNEBParams())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestChain_Lookup(t *testing.T) {
	c := newTestChain(t, 3, 4)
	if err := c.SetActive(2); err != nil {
		t.Fatalf("set active failed: %v", err)
	}

	im, idx, err := c.Lookup(-1)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if idx != 2 || im != c.Active() {
		t.Errorf("negative index resolved to %d, want active image 2", idx)
	}

	im, idx, err = c.Lookup(1)
	if err != nil || idx != 1 {
		t.Fatalf("lookup(1) = %d, %v", idx, err)
	}
	if first, _ := c.Image(1); first != im {
		t.Error("lookup(1) returned the wrong image")
	}

	_, _, err = c.Lookup(3)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if c.ActiveIndex() != 2 {
		t.Error("failed lookup changed the active index")
	}
}

func TestChain_InsertKeepsActiveImage(t *testing.T) {
	c := newTestChain(t, 2, 4)
	if err := c.SetActive(1); err != nil {
		t.Fatal(err)
	}
	active := c.Active()

	if err := c.Insert(0, newTestImage(4)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if c.NOI() != 3 {
		t.Errorf("expected noi 3, got %d", c.NOI())
	}
	if c.Active() != active {
		t.Error("insert moved focus away from the active image")
	}
	if c.ActiveIndex() != 2 {
		t.Errorf("expected active index 2, got %d", c.ActiveIndex())
	}
}

func TestChain_InsertErrors(t *testing.T) {
	c := newTestChain(t, 2, 4)

	if err := c.Insert(3, newTestImage(4)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := c.Insert(0, newTestImage(5)); !errors.Is(err, ErrIncompatibleGeometry) {
		t.Errorf("expected ErrIncompatibleGeometry, got %v", err)
	}
	if c.NOI() != 2 {
		t.Errorf("failed inserts changed noi to %d", c.NOI())
	}
}

func TestChain_RemoveKeepsActiveInRange(t *testing.T) {
	tests := []struct {
		name       string
		noi        int
		active     int
		remove     int
		wantActive int
	}{
		{"before active", 3, 2, 0, 1},
		{"active last", 3, 2, 2, 1},
		{"active middle", 3, 1, 1, 1},
		{"after active", 3, 0, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChain(t, tt.noi, 4)
			if err := c.SetActive(tt.active); err != nil {
				t.Fatal(err)
			}
			if _, err := c.Remove(tt.remove); err != nil {
				t.Fatalf("remove failed: %v", err)
			}
			if got := c.ActiveIndex(); got != tt.wantActive {
				t.Errorf("active index %d, want %d", got, tt.wantActive)
			}
			if c.ActiveIndex() >= c.NOI() {
				t.Error("active index out of range")
			}
		})
	}
}

func TestChain_RemoveLastImage(t *testing.T) {
	c := newTestChain(t, 1, 4)
	if _, err := c.Remove(0); !errors.Is(err, ErrLastImage) {
		t.Errorf("expected ErrLastImage, got %v", err)
	}
}

func TestChain_ByID(t *testing.T) {
	c := newTestChain(t, 3, 4)
	im, _ := c.Image(2)

	found, idx, ok := c.ByID(im.ID())
	if !ok || found != im || idx != 2 {
		t.Errorf("ByID = %v, %d, %v", found, idx, ok)
	}

	if _, err := c.Remove(0); err != nil {
		t.Fatal(err)
	}
	if _, idx, _ := c.ByID(im.ID()); idx != 1 {
		t.Errorf("expected index 1 after removal, got %d", idx)
	}
}
