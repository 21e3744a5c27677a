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
	"time"

	"github.com/san-kum/ledsim/internal/config"
	"github.com/san-kum/ledsim/internal/ensemble"
)

var ErrNotFound = errors.New("storage: run not found")

// Store keeps recorded runs on disk, one directory per run holding
// metadata.json, config.yaml and digests.csv.
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
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	EffectCount   int                `json:"effect_count"`
	AntiAlias     bool               `json:"anti_alias"`
	Frames        int                `json:"frames"`
	MotionSeed    [2]uint64          `json:"motion_seed"`
	PlacementSeed [2]uint64          `json:"placement_seed"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes a recorded run together with the scene it was rendered
// from. The stored scene carries the run's own seeds and frame count so
// LoadConfig replays exactly this run.
func (s *Store) Save(cfg *config.Config, run *ensemble.Run) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID, runDir, err := s.createRunDir(fmt.Sprintf("%dx%d_%d_%d", cfg.Width, cfg.Height, now.UnixNano(), run.Index))
	if err != nil {
		return "", err
	}

	scene := *cfg
	scene.Frames = len(run.Digests)
	scene.Seeds.Motion = run.MotionSeed
	scene.Seeds.Placement = run.PlacementSeed
	if err := config.Save(filepath.Join(runDir, "config.yaml"), &scene); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     now,
		Width:         cfg.Width,
		Height:        cfg.Height,
		EffectCount:   cfg.EffectCount,
		AntiAlias:     cfg.AntiAlias,
		Frames:        len(run.Digests),
		MotionSeed:    run.MotionSeed,
		PlacementSeed: run.PlacementSeed,
		Metrics:       run.Metrics,
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

	csvFile, err := os.Create(filepath.Join(runDir, "digests.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"frame", "digest"}); err != nil {
		return "", err
	}
	for i, d := range run.Digests {
		if err := w.Write([]string{strconv.Itoa(i), strconv.FormatUint(d, 16)}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the stored runs, oldest first. Directories without
// readable metadata are skipped.
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
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRun rebuilds the recorded run so it can be compared with a fresh one.
func (s *Store) LoadRun(runID string) (*ensemble.Run, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "digests.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	run := &ensemble.Run{
		Index:         -1,
		MotionSeed:    meta.MotionSeed,
		PlacementSeed: meta.PlacementSeed,
		Metrics:       meta.Metrics,
		Digests:       make([]uint64, 0, max(len(records)-1, 0)),
	}
	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) != 2 {
			return nil, fmt.Errorf("storage: %s line %d: expected 2 fields, got %d", runID, i+1, len(record))
		}
		d, err := strconv.ParseUint(record[1], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", runID, i+1, err)
		}
		run.Digests = append(run.Digests, d)
	}
	return run, nil
}

// LoadConfig returns the scene a stored run was rendered from.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	path := filepath.Join(s.baseDir, runID, "config.yaml")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	return config.Load(path)
}

// createRunDir claims a fresh directory for base, adding a suffix when
// another save already took the name.
func (s *Store) createRunDir(base string) (string, string, error) {
	runID := base
	for attempt := 1; ; attempt++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, attempt)
	}
}
