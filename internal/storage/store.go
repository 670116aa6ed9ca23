package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/lorentz/internal/dynamo"
	"github.com/san-kum/lorentz/internal/scene"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectories.csv"
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

// RunMetadata describes a stored run. Scene holds the initial conditions,
// so a run can be replayed or compared against closed-form values.
type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Gravity    bool               `json:"gravity"`
	G          float64            `json:"g"`
	Ticks      int                `json:"ticks"`
	Frames     int                `json:"frames"`
	SpeedDrift float64            `json:"speed_drift"`
	Metrics    map[string]float64 `json:"metrics"`
	Scene      *scene.Scene       `json:"scene,omitempty"`
}

// Save writes metadata.json and trajectories.csv under a new run directory
// and returns its ID. meta.ID and the result-derived fields are filled in.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	name := meta.Name
	if name == "" {
		name = "run"
	}
	runID, runDir, err := s.newRunDir(name)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Ticks = result.TicksTaken
	meta.Frames = len(result.Frames)
	meta.SpeedDrift = result.SpeedDrift
	meta.Metrics = result.Metrics

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

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(name string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

// WriteCSV writes one row per frame: time, then x, y, vx, vy per particle.
func WriteCSV(w io.Writer, frames []dynamo.Frame) error {
	cw := csv.NewWriter(w)

	if len(frames) == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"time"}
	for i := range frames[0].Kinematics {
		header = append(header,
			fmt.Sprintf("p%d_x", i), fmt.Sprintf("p%d_y", i),
			fmt.Sprintf("p%d_vx", i), fmt.Sprintf("p%d_vy", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(f.Time))
		for _, k := range f.Kinematics {
			row = append(row, formatFloat(k.Pos.X), formatFloat(k.Pos.Y), formatFloat(k.Vel.X), formatFloat(k.Vel.Y))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns stored runs, oldest first.
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadFrames reads a run's trajectories back. Tick numbers are not stored
// and are left zero.
func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

func ReadCSV(r io.Reader) ([]dynamo.Frame, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []dynamo.Frame{}, nil
	}
	if (len(records[0])-1)%4 != 0 {
		return nil, fmt.Errorf("trajectory header has %d columns", len(records[0]))
	}
	n := (len(records[0]) - 1) / 4

	frames := make([]dynamo.Frame, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		vals := make([]float64, len(records[i]))
		for j, cell := range records[i] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			vals[j] = v
		}
		f := dynamo.Frame{Time: vals[0], Kinematics: make([]dynamo.Kinematics, n)}
		for p := 0; p < n; p++ {
			c := 1 + 4*p
			f.Kinematics[p] = dynamo.Kinematics{
				Pos: dynamo.Vec2{X: vals[c], Y: vals[c+1]},
				Vel: dynamo.Vec2{X: vals[c+2], Y: vals[c+3]},
			}
		}
		frames = append(frames, f)
	}

	return frames, nil
}

// Series extracts one column of particle idx: "x", "y", "vx", "vy" or "speed".
func Series(frames []dynamo.Frame, idx int, column string) ([]float64, error) {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if idx < 0 || idx >= len(f.Kinematics) {
			return nil, fmt.Errorf("particle %d out of range", idx)
		}
		k := f.Kinematics[idx]
		switch column {
		case "x":
			out = append(out, k.Pos.X)
		case "y":
			out = append(out, k.Pos.Y)
		case "vx":
			out = append(out, k.Vel.X)
		case "vy":
			out = append(out, k.Vel.Y)
		case "speed":
			out = append(out, k.Vel.Norm())
		default:
			return nil, fmt.Errorf("unknown column %q", column)
		}
	}
	return out, nil
}
