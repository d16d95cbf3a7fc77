package delay

import (
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}
	if _, err := New(-1); err == nil {
		t.Fatal("expected error for size=-1")
	}
	if _, err := NewSeconds(0, 48000); err == nil {
		t.Fatal("expected error for zero seconds")
	}
	if _, err := NewSeconds(0.06, math.NaN()); err == nil {
		t.Fatal("expected error for NaN sample rate")
	}
}

func TestNewSecondsHoldsRequestedDelay(t *testing.T) {
	d, err := NewSeconds(0.06, 48000)
	if err != nil {
		t.Fatalf("NewSeconds() error = %v", err)
	}
	if d.MaxDelay() < 0.06*48000 {
		t.Fatalf("MaxDelay() = %v, want >= %v", d.MaxDelay(), 0.06*48000)
	}
}

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for i := 1; i <= 5; i++ {
		d.Write(float64(i))
	}

	if got := d.Read(1); got != 5 {
		t.Fatalf("Read(1) = %v, want 5", got)
	}
	if got := d.Read(3); got != 3 {
		t.Fatalf("Read(3) = %v, want 3", got)
	}
}

func TestReadFractionalOnRamp(t *testing.T) {
	d, err := New(64)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for i := 0; i < 64; i++ {
		d.Write(float64(i))
	}

	// Read(1) is 63, so a delay of 10.5 sits halfway between 54 and 53.
	got := d.ReadFractional(10.5)
	if math.Abs(got-53.5) > 1e-9 {
		t.Fatalf("ReadFractional(10.5) = %v, want 53.5", got)
	}
}

func TestReadFractionalClampsRange(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for i := 0; i < 16; i++ {
		d.Write(float64(i))
	}
	if got, want := d.ReadFractional(-4), d.Read(1); got != want {
		t.Fatalf("ReadFractional(-4) = %v, want %v", got, want)
	}
	if got := d.ReadFractional(1000); math.IsNaN(got) {
		t.Fatal("ReadFractional(1000) returned NaN")
	}
}
