// Package storage persists finished runs on disk: one directory per run
// holding metadata.json and outputs.csv. The CSV round-trips through the
// series loader, so a stored run can feed later analysis or plotting.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jondo2010/fmusim/internal/driver"
	"github.com/jondo2010/fmusim/internal/fmi"
	"github.com/jondo2010/fmusim/internal/output"
	"github.com/jondo2010/fmusim/internal/series"
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

type RunMetadata struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	Timestamp  time.Time `json:"timestamp"`
	Mode       string    `json:"mode"`
	Integrator string    `json:"integrator,omitempty"`
	StartTime  float64   `json:"start_time"`
	StopTime   float64   `json:"stop_time"`
	Interval   float64   `json:"output_interval"`
	Tolerance  float64   `json:"tolerance,omitempty"`
	// Columns maps output names to their value kinds so the CSV can be
	// read back with the right parsers.
	Columns map[string]string  `json:"columns"`
	Stats   driver.Stats       `json:"stats"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

func (s *Store) Save(model, mode, integrator string, params driver.Params, stats driver.Stats, metrics map[string]float64, res *output.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", model, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	columns := make(map[string]string, len(res.Columns))
	for _, c := range res.Columns {
		columns[c.Name] = c.Kind.String()
	}

	meta := RunMetadata{
		ID:         runID,
		Model:      model,
		Timestamp:  time.Now(),
		Mode:       mode,
		Integrator: integrator,
		StartTime:  params.StartTime,
		StopTime:   params.StopTime,
		Interval:   params.OutputInterval,
		Tolerance:  params.Tolerance,
		Columns:    columns,
		Stats:      stats,
		Metrics:    metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "outputs.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, res); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV emits a result in the same CSV dialect the series loader reads.
func WriteCSV(out io.Writer, res *output.Result) error {
	w := csv.NewWriter(out)

	header := []string{"time"}
	for _, c := range res.Columns {
		header = append(header, c.Name)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, t := range res.Times {
		row := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		for _, c := range res.Columns {
			row = append(row, c.Values[i].String())
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadResult reads a stored run's outputs back as a typed table, using the
// column kinds recorded in the metadata.
func (s *Store) LoadResult(runID string) (*RunMetadata, *series.Table, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	kinds := make(map[string]fmi.Kind, len(meta.Columns))
	for name, kindName := range meta.Columns {
		k, err := fmi.ParseKind(kindName)
		if err != nil {
			return nil, nil, fmt.Errorf("run %s: %w", runID, err)
		}
		kinds[name] = k
	}

	tbl, err := series.LoadCSV(filepath.Join(s.baseDir, runID, "outputs.csv"), kinds)
	if err != nil {
		return nil, nil, err
	}
	return meta, tbl, nil
}
