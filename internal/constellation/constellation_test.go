package constellation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	src := "; comment\n#.#\n.#.\n"
	b, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if b.Cols != 3 || b.Rows != 2 {
		t.Errorf("size = %dx%d; want 3x2", b.Cols, b.Rows)
	}
	if len(b.Cells) != 3 {
		t.Fatalf("cells = %v; want 3", b.Cells)
	}
	if b.Cells[2].X != 1 || b.Cells[2].Y != 1 {
		t.Errorf("third cell = %v; want (1,1)", b.Cells[2])
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse(strings.NewReader("...\n")); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v; want ErrEmpty", err)
	}
}

func TestDefault(t *testing.T) {
	b := Default()
	if len(b.Cells) != 84 || b.Rows != 7 {
		t.Errorf("default layout has %d cells over %d rows", len(b.Cells), b.Rows)
	}
}

func TestFit_CentersAndBounds(t *testing.T) {
	b := Default()
	const w, h = 400.0, 200.0
	pts := b.Fit(w, h, DefaultLayout(), 1000)
	if len(pts) != 84*4 {
		t.Fatalf("len = %d; want %d", len(pts), 84*4)
	}
	minX, maxX := int32(w), int32(0)
	for _, p := range pts {
		if p.X < 0 || float64(p.X) >= w || p.Y < 0 || float64(p.Y) >= h {
			t.Fatalf("target %v outside world", p)
		}
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
	}
	left, right := float64(minX), w-float64(maxX)
	if d := left - right; d < -3 || d > 3 {
		t.Errorf("not centered: left margin %v, right margin %v", left, right)
	}
}

func TestFit_Truncates(t *testing.T) {
	pts := Default().Fit(300, 150, Layout{Fill: 0.5, Density: 3}, 50)
	if len(pts) != 50 {
		t.Errorf("len = %d; want 50", len(pts))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	if err := os.WriteFile(path, []byte("#\n"), 0644); err != nil {
		t.Fatal(err)
	}
	b, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	pts := b.Fit(10, 10, Layout{Fill: 1, Density: 1}, 5)
	if len(pts) != 1 || pts[0].X != 5 || pts[0].Y != 5 {
		t.Errorf("pts = %v; want [{5 5}]", pts)
	}
}
