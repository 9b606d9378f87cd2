package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/metrics"
)

func testSeries() *metrics.Series {
	s := metrics.NewSeries([]string{"mean_speed", "polarization"})
	s.Times = []float64{0, 1.0 / 60}
	s.Values[0] = []float64{80, 82.5}
	s.Values[1] = []float64{0.1, 0.25}
	return s
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Preset:  "classic",
		Seed:    42,
		Dt:      flock.DefaultDt,
		Frames:  2,
		Agents:  500,
		Mode:    "snapshot",
		Params:  flock.DefaultParams(),
		Metrics: map[string]float64{"mean_speed": 81.25},
	}, testSeries())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID || meta.Seed != 42 || meta.Preset != "classic" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["mean_speed"] != 81.25 {
		t.Errorf("expected mean_speed 81.25, got %f", meta.Metrics["mean_speed"])
	}
	if meta.Params.SeparationFactor != flock.DefaultSeparate {
		t.Errorf("params not stored: %+v", meta.Params)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if series.Len() != 2 || len(series.Names) != 2 {
		t.Fatalf("series shape %d x %v", series.Len(), series.Names)
	}
	if col := series.Column("polarization"); col[1] != 0.25 {
		t.Errorf("polarization = %v", col)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	first, _ := st.Save(RunMetadata{Preset: "a"}, nil)
	second, _ := st.Save(RunMetadata{Preset: "b"}, testSeries())
	os.WriteFile(filepath.Join(st.Dir(), "stray.txt"), []byte("x"), 0644)
	os.MkdirAll(filepath.Join(st.Dir(), "broken"), 0755)

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs not ordered oldest first: %s, %s", runs[0].ID, runs[1].ID)
	}

	latest, err := st.Latest()
	if err != nil || latest.ID != second {
		t.Errorf("Latest = %v, %v; want %s", latest, err, second)
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "none"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List = %v, %v; want empty", runs, err)
	}
	if _, err := st.Latest(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Latest error = %v", err)
	}
}

func TestStoreLoad_NotFound(t *testing.T) {
	st := New(t.TempDir())
	for _, id := range []string{"missing", "", "../etc", ".."} {
		if _, err := st.Load(id); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("Load(%q) error = %v; want ErrRunNotFound", id, err)
		}
	}
	runID, _ := st.Save(RunMetadata{}, nil)
	if _, err := st.LoadSeries(runID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadSeries without csv error = %v", err)
	}
}
