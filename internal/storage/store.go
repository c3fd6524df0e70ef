package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/spinsim/internal/engine"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
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

// RunMetadata describes one finished method run.
type RunMetadata struct {
	ID         string    `json:"id"`
	Method     string    `json:"method"`
	Solver     string    `json:"solver"`
	Timestamp  time.Time `json:"timestamp"`
	ConfigFile string    `json:"config_file,omitempty"`
	Preset     string    `json:"preset,omitempty"`
	Seed       int64     `json:"seed"`
	NOI        int       `json:"noi"`
	NOS        int       `json:"nos"`
	// Image is the image index, -1 for chain methods.
	Image      int     `json:"image"`
	Phase      string  `json:"phase"`
	Iterations int     `json:"iterations"`
	Force      float64 `json:"force"`
	Energy     float64 `json:"energy"`
	Error      string  `json:"error,omitempty"`
	// Params are the Hamiltonian parameters the run used.
	Params map[string]float64 `json:"params,omitempty"`
}

// Save writes meta and the convergence history into a new run directory and
// returns the run id. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, history []engine.Sample) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%s", meta.Method, now.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, historyFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"iteration", "force", "energy"}); err != nil {
		return "", err
	}
	for _, h := range history {
		row := []string{
			strconv.Itoa(h.Iteration),
			strconv.FormatFloat(h.Force, 'g', 10, 64),
			strconv.FormatFloat(h.Energy, 'g', 10, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the metadata of every run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	raw, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadHistory reads the convergence history of a run. Malformed rows are skipped.
func (s *Store) LoadHistory(runID string) ([]engine.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []engine.Sample{}, nil
	}

	samples := make([]engine.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		iter, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		force, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		energy, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		samples = append(samples, engine.Sample{Iteration: iter, Force: force, Energy: energy})
	}
	return samples, nil
}
