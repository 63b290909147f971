package circular

import "testing"

func TestWindow_PushGet(t *testing.T) {
	w := NewWindow[float64](3, 0.5)
	w.Push(1)
	w.Push(2)

	v := NewWindow[float64](4, 0)
	v.Push(1)
	v.Push(2)
	v.Push(3)
	v.Push(4)
	v.Push(5)
	v.Push(6)

	tests := []struct {
		name     string
		result   float64
		expected float64
	}{
		{"w.Get(0) == 2", w.Get(0), 2},
		{"w.Get(1) == 1", w.Get(1), 1},
		{"w.Get(2) == 0.5", w.Get(2), 0.5},
		{"v.Get(0) == 6", v.Get(0), 6},
		{"v.Get(1) == 5", v.Get(1), 5},
		{"v.Get(2) == 4", v.Get(2), 4},
		{"v.Get(3) == 3", v.Get(3), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result != tt.expected {
				t.Errorf("got %f, want %f", tt.result, tt.expected)
			}
		})
	}
}

func TestWindow_Data(t *testing.T) {
	w := NewWindow[float64](3, 0)
	w.Push(1)
	w.Push(2)

	got := w.Data()
	want := []float64{2, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Data()[%d]: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestWindow_CreatedFull(t *testing.T) {
	w := NewWindow[float64](2, 0.0018)
	for i := 0; i < w.Capacity(); i++ {
		if w.Get(i) != 0.0018 {
			t.Errorf("Get(%d): got %f, want fill value", i, w.Get(i))
		}
	}
}

func TestWindow_PanicsOnZeroCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on zero capacity")
		}
	}()
	NewWindow[float64](0, 0)
}
