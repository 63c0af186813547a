package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/orbit"
)

// Store keeps one directory per run under baseDir holding metadata.json,
// states.csv and markers.csv.
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
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Integrator  string             `json:"integrator"`
	Gravity     string             `json:"gravity"`
	Bodies      []string           `json:"bodies"`
	Steps       int                `json:"steps"`
	FinalTime   float64            `json:"final_time"`
	EnergyDrift float64            `json:"energy_drift"`
	Orbits      int                `json:"orbits"`
	Metrics     map[string]float64 `json:"metrics"`
	Errors      []string           `json:"errors,omitempty"`
}

// Save writes a run and returns its id. Fields of meta derived from the
// result are filled in.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result, markers []orbit.Marker) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Scenario, now.Unix())
	runDir := filepath.Join(s.baseDir, runID)
	for n := 2; ; n++ {
		if _, err := os.Stat(runDir); errors.Is(err, os.ErrNotExist) {
			break
		}
		runID = fmt.Sprintf("%s_%d-%d", meta.Scenario, now.Unix(), n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Bodies = result.Names
	meta.Steps = result.StepsTaken
	meta.FinalTime = result.FinalTime
	meta.EnergyDrift = result.EnergyDrift
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, "states.csv"), result); err != nil {
		return "", err
	}
	if err := writeMarkers(filepath.Join(runDir, "markers.csv"), markers); err != nil {
		return "", err
	}
	return runID, nil
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

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeStates(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"time"}
	for _, name := range result.Names {
		header = append(header, name+".x", name+".y", name+".z")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, smp := range result.Samples {
		row := []string{formatFloat(smp.Time)}
		for i := range result.Names {
			if i >= len(smp.Positions) || (smp.Alive != nil && !smp.Alive[i]) {
				row = append(row, "", "", "")
				continue
			}
			p := smp.Positions[i]
			row = append(row, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeMarkers(path string, markers []orbit.Marker) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"entity", "name", "number", "time", "period", "x", "y", "z"}); err != nil {
		return err
	}
	for _, m := range markers {
		row := []string{
			strconv.FormatUint(uint64(m.Entity), 10),
			m.Name,
			strconv.Itoa(m.Number),
			formatFloat(m.Time),
			formatFloat(m.Period),
			formatFloat(m.Position.X),
			formatFloat(m.Position.Y),
			formatFloat(m.Position.Z),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadStates rebuilds the sampled trajectory of a run. Names come from the
// header; empty cells mark a body that was no longer alive.
func (s *Store) LoadStates(runID string) (*dynamo.Result, error) {
	records, err := s.readCSV(runID, "states.csv")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: states.csv has no header", runID)
	}

	header := records[0]
	if len(header) < 1 || (len(header)-1)%3 != 0 {
		return nil, fmt.Errorf("%s: malformed states header", runID)
	}
	n := (len(header) - 1) / 3
	res := &dynamo.Result{Names: make([]string, n)}
	for i := range res.Names {
		col := header[1+3*i]
		res.Names[i] = col[:len(col)-2]
	}

	for line, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("%s: states.csv line %d has %d fields", runID, line+2, len(record))
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: states.csv line %d: %w", runID, line+2, err)
		}
		smp := dynamo.Sample{
			Time:      t,
			Positions: make([]dynamo.Vec3, n),
			Alive:     make([]bool, n),
		}
		for i := 0; i < n; i++ {
			cells := record[1+3*i : 4+3*i]
			if cells[0] == "" {
				continue
			}
			var v [3]float64
			for k, c := range cells {
				if v[k], err = strconv.ParseFloat(c, 64); err != nil {
					return nil, fmt.Errorf("%s: states.csv line %d: %w", runID, line+2, err)
				}
			}
			smp.Positions[i] = dynamo.Vec3{X: v[0], Y: v[1], Z: v[2]}
			smp.Alive[i] = true
		}
		res.Samples = append(res.Samples, smp)
	}

	if k := len(res.Samples); k > 0 {
		res.FinalTime = res.Samples[k-1].Time
	}
	return res, nil
}

func (s *Store) LoadMarkers(runID string) ([]orbit.Marker, error) {
	records, err := s.readCSV(runID, "markers.csv")
	if err != nil {
		return nil, err
	}

	markers := make([]orbit.Marker, 0, max(len(records)-1, 0))
	for line, r := range records {
		if line == 0 {
			continue
		}
		if len(r) != 8 {
			return nil, fmt.Errorf("%s: markers.csv line %d has %d fields", runID, line+1, len(r))
		}
		ent, err := strconv.ParseUint(r[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: markers.csv line %d: %w", runID, line+1, err)
		}
		num, err := strconv.Atoi(r[2])
		if err != nil {
			return nil, fmt.Errorf("%s: markers.csv line %d: %w", runID, line+1, err)
		}
		var f [5]float64
		for k := range f {
			if f[k], err = strconv.ParseFloat(r[3+k], 64); err != nil {
				return nil, fmt.Errorf("%s: markers.csv line %d: %w", runID, line+1, err)
			}
		}
		markers = append(markers, orbit.Marker{
			Entity:   ecs.Entity(ent),
			Name:     r[1],
			Number:   num,
			Time:     f[0],
			Period:   f[1],
			Position: dynamo.Vec3{X: f[2], Y: f[3], Z: f[4]},
		})
	}
	return markers, nil
}
