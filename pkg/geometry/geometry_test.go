package geometry

import "testing"

func TestRectContains(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{X: 5, Y: 5}, true},
		{"on edge", Point{X: 0, Y: 5}, true},
		{"on corner", Point{X: 10, Y: 10}, true},
		{"left of rect", Point{X: -1, Y: 5}, false},
		{"above rect", Point{X: 5, Y: 11}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectAround(t *testing.T) {
	r := RectAround(Point{X: 100, Y: 50}, 20)
	if r.MinX != 80 || r.MaxX != 120 || r.MinY != 30 || r.MaxY != 70 {
		t.Errorf("unexpected rect: %+v", r)
	}
	if r.Width() != 40 || r.Height() != 40 {
		t.Errorf("expected 40x40 rect, got %gx%g", r.Width(), r.Height())
	}
	c := r.Center()
	if c.X != 100 || c.Y != 50 {
		t.Errorf("center moved: %+v", c)
	}
}

func TestSegmentIntersectsRect(t *testing.T) {
	r := Rect{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}

	tests := []struct {
		name string
		a, b Point
		want bool
	}{
		{"crosses horizontally", Point{X: 0, Y: 15}, Point{X: 30, Y: 15}, true},
		{"crosses diagonally", Point{X: 0, Y: 0}, Point{X: 30, Y: 30}, true},
		{"endpoint inside", Point{X: 15, Y: 15}, Point{X: 50, Y: 50}, true},
		{"clips a corner", Point{X: 15, Y: 25}, Point{X: 25, Y: 15}, true},
		{"touches an edge", Point{X: 0, Y: 10}, Point{X: 30, Y: 10}, true},
		{"entirely left", Point{X: 0, Y: 0}, Point{X: 5, Y: 30}, false},
		{"entirely above", Point{X: 0, Y: 25}, Point{X: 30, Y: 25}, false},
		{"near miss past corner", Point{X: 21, Y: 0}, Point{X: 30, Y: 30}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentIntersectsRect(tt.a, tt.b, r); got != tt.want {
				t.Errorf("SegmentIntersectsRect(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBoundingRect(t *testing.T) {
	if _, ok := BoundingRect(nil); ok {
		t.Fatal("expected no bounding rect for empty input")
	}

	r, ok := BoundingRect([]Point{{X: 3, Y: 7}, {X: -2, Y: 12}, {X: 8, Y: 1}})
	if !ok {
		t.Fatal("expected a bounding rect")
	}
	want := Rect{MinX: -2, MinY: 1, MaxX: 8, MaxY: 12}
	if r != want {
		t.Errorf("BoundingRect = %+v, want %+v", r, want)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}
	b := Rect{MinX: 3, MinY: -2, MaxX: 10, MaxY: 4}
	got := a.Union(b)
	want := Rect{MinX: 0, MinY: -2, MaxX: 10, MaxY: 5}
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
}
