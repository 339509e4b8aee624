package usage

import (
	"slices"
	"testing"
)

func TestBitmap_SetTestClear(t *testing.T) {
	tests := []struct {
		name string
		n    int
		bits []int
	}{
		{"single word", 10, []int{0, 3, 9}},
		{"word boundary", 128, []int{63, 64, 127}},
		{"partial word", 70, []int{0, 65, 69}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Bitmap
			b.Resize(tt.n)
			if !b.Empty() {
				t.Fatal("new Bitmap should be empty")
			}
			for _, i := range tt.bits {
				b.Set(i)
			}
			if got := b.Count(); got != len(tt.bits) {
				t.Errorf("Count() = %d, want %d", got, len(tt.bits))
			}
			for _, i := range tt.bits {
				if !b.Test(i) {
					t.Errorf("Test(%d) = false, want true", i)
				}
				b.Clear(i)
				if b.Test(i) {
					t.Errorf("Test(%d) after Clear = true, want false", i)
				}
			}
			if !b.Empty() {
				t.Error("Bitmap should be empty after clearing every bit")
			}
		})
	}
}

func TestBitmap_OutOfRange(t *testing.T) {
	var b Bitmap
	b.Resize(5)
	b.Set(-1)
	b.Set(5)
	b.Set(200)
	if b.Count() != 0 {
		t.Errorf("Count() = %d, want 0", b.Count())
	}
	if b.Test(5) {
		t.Error("Test(5) = true for a 5-bit map")
	}
}

func TestBitmap_ResizeClears(t *testing.T) {
	var b Bitmap
	b.Resize(100)
	b.Set(99)
	b.Resize(50)
	if b.Len() != 50 {
		t.Errorf("Len() = %d, want 50", b.Len())
	}
	b.Resize(100)
	if b.Test(99) {
		t.Error("Resize should clear previously set bits")
	}
}

func TestBitmap_ForEachCopy(t *testing.T) {
	var b, c Bitmap
	b.Resize(130)
	want := []int{1, 64, 129}
	for _, i := range want {
		b.Set(i)
	}
	c.CopyFrom(&b)
	b.Reset()

	var got []int
	c.ForEach(func(i int) { got = append(got, i) })
	if !slices.Equal(got, want) {
		t.Errorf("ForEach visited %v, want %v", got, want)
	}
	if !b.Empty() {
		t.Error("Reset() left bits set")
	}
}
