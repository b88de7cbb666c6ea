package frame

import (
	"errors"
	"testing"
	"time"
)

func TestTypeMask(t *testing.T) {
	mask := Color | Ir | Depth
	for _, s := range []Type{Color, Ir, Depth} {
		if !mask.Has(s) {
			t.Errorf("mask should include %v", s)
		}
	}
	if (Ir | Depth).Has(Color) {
		t.Error("depth mask should not include color")
	}
	if Color.String() != "color" || Ir.String() != "ir" || Depth.String() != "depth" {
		t.Error("stream names changed")
	}
}

func TestTypeStringCombined(t *testing.T) {
	cases := []struct {
		mask Type
		want string
	}{
		{Ir | Depth, "ir|depth"},
		{Color | Depth, "color|depth"},
		{Color | Ir | Depth, "color|ir|depth"},
		{0, "none"},
	}
	for _, c := range cases {
		if got := c.mask.String(); got != c.want {
			t.Errorf("String(%#x) = %q, want %q", int(c.mask), got, c.want)
		}
	}
}

func TestNewAllocatesPixelBuffer(t *testing.T) {
	f := New(512, 424, 4)
	if len(f.Data) != 512*424*4 {
		t.Errorf("buffer length = %d, want %d", len(f.Data), 512*424*4)
	}
}

type countingListener struct {
	releases int
}

func (c *countingListener) WaitForNewFrame(time.Duration) (Set, error) { return Set{}, nil }
func (c *countingListener) Release(Set)                                { c.releases++ }

func TestReleasedAlwaysReturnsTheSet(t *testing.T) {
	l := &countingListener{}

	if err := Released(l, Set{}, func(Set) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if l.releases != 1 {
		t.Fatalf("releases = %d after clean run, want 1", l.releases)
	}

	wantErr := errors.New("processing failed")
	if err := Released(l, Set{}, func(Set) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if l.releases != 2 {
		t.Errorf("releases = %d after failed run, want 2", l.releases)
	}

	func() {
		defer func() { _ = recover() }()
		_ = Released(l, Set{}, func(Set) error { panic("boom") })
	}()
	if l.releases != 3 {
		t.Errorf("releases = %d after panicking run, want 3", l.releases)
	}
}
