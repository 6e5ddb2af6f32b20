package core

import "testing"

func TestPointAdd(t *testing.T) {
	tests := []struct {
		name   string
		p      Point
		dx, dy int
		want   Point
	}{
		{"right", P(1, 1), 1, 0, P(2, 1)},
		{"left", P(1, 1), -1, 0, P(0, 1)},
		{"up", P(3, 2), 0, -1, P(3, 1)},
		{"down", P(0, 0), 0, 1, P(0, 1)},
		{"stay", P(5, 5), 0, 0, P(5, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Add(tt.dx, tt.dy); got != tt.want {
				t.Errorf("%v.Add(%d, %d) = %v, want %v", tt.p, tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 2)

	tests := []struct {
		x, y int
		want bool
	}{
		{2, 3, true},
		{5, 4, true},
		{6, 4, false}, // right edge is exclusive
		{5, 5, false}, // bottom edge is exclusive
		{1, 3, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
