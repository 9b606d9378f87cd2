package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/metrics"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metaFile    = "metadata.json"
	metricsFile = "metrics.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunMetadata describes a recorded run. It records what was measured, not
// the agent state, so a run cannot be resumed from it.
type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Frames    int                `json:"frames"`
	Agents    int                `json:"agents"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Mode      string             `json:"mode"`
	Workers   int                `json:"workers,omitempty"`
	Attract   bool               `json:"attract"`
	Targets   int                `json:"targets"`
	Params    flock.Params       `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and metrics.csv under a new run directory and
// returns the run ID. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, series *metrics.Series) (string, error) {
	label := meta.Preset
	if label == "" {
		label = "run"
	}
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", label, now.UnixNano())
	meta.Timestamp = now

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metaFile), meta); err != nil {
		return "", err
	}
	if series != nil {
		if err := writeSeries(filepath.Join(runDir, metricsFile), series); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSeries(path string, series *metrics.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := WriteSeriesCSV(w, series); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteSeriesCSV writes a header row of "time" plus metric names, then one
// row per frame.
func WriteSeriesCSV(w *csv.Writer, series *metrics.Series) error {
	header := append([]string{"time"}, series.Names...)
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i, t := range series.Times {
		row[0] = strconv.FormatFloat(t, 'f', 6, 64)
		for j, col := range series.Values {
			v := 0.0
			if i < len(col) {
				v = col[i]
			}
			row[j+1] = strconv.FormatFloat(v, 'g', 10, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) runPath(runID, name string) (string, error) {
	if runID == "" || strings.ContainsAny(runID, `/\`) || runID == "." || runID == ".." {
		return "", fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	return filepath.Join(s.baseDir, runID, name), nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	path, err := s.runPath(runID, metaFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries reads a run's metrics.csv back into a Series.
func (s *Store) LoadSeries(runID string) (*metrics.Series, error) {
	path, err := s.runPath(runID, metricsFile)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}
	if len(records) == 0 {
		return metrics.NewSeries(nil), nil
	}

	series := metrics.NewSeries(records[0][1:])
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		series.Times = append(series.Times, t)
		for j := range series.Names {
			v := 0.0
			if j+1 < len(record) {
				v, _ = strconv.ParseFloat(record[j+1], 64)
			}
			series.Values[j] = append(series.Values[j], v)
		}
	}
	return series, nil
}
