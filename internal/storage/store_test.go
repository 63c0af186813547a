package storage

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/orbit"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		Names: []string{"sun", "planet"},
		Samples: []dynamo.Sample{
			{Time: 0, Positions: []dynamo.Vec3{{}, {X: 50}}, Alive: []bool{true, true}},
			{Time: 1.5, Positions: []dynamo.Vec3{{}, {X: 49.9, Y: 0.25, Z: 0.632456}}, Alive: []bool{true, true}},
			{Time: 3, Positions: []dynamo.Vec3{{}, {X: 49.9}}, Alive: []bool{true, false}},
		},
		Metrics:     map[string]float64{"orbits": 1},
		EnergyDrift: 1e-4,
		StepsTaken:  300,
		FinalTime:   3,
		Errors:      []error{dynamo.SimError{Step: 7, Time: 0.7, Message: "boom"}},
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	markers := []orbit.Marker{{Entity: 2, Name: "planet", Number: 1, Time: 496.5, Period: 496.5, Position: dynamo.Vec3{X: 50, Z: -0.1}}}
	id, err := s.Save(RunMetadata{Scenario: "circular", Dt: 0.01, Integrator: "leapfrog"}, sampleResult(), markers)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.ID != id || meta.Scenario != "circular" || meta.Integrator != "leapfrog" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Steps != 300 || meta.Metrics["orbits"] != 1 || len(meta.Bodies) != 2 {
		t.Errorf("derived fields = %+v", meta)
	}
	if len(meta.Errors) != 1 {
		t.Errorf("errors = %v", meta.Errors)
	}

	res, err := s.LoadStates(id)
	if err != nil {
		t.Fatalf("load states: %v", err)
	}
	if len(res.Samples) != 3 || res.Names[1] != "planet" {
		t.Fatalf("states = %+v", res)
	}
	got := res.Samples[1].Positions[1]
	if math.Abs(got.X-49.9) > 1e-6 || math.Abs(got.Y-0.25) > 1e-6 || math.Abs(got.Z-0.632456) > 1e-6 {
		t.Errorf("position = %+v", got)
	}
	if res.Samples[2].Alive[1] || !res.Samples[2].Alive[0] {
		t.Errorf("alive flags = %v", res.Samples[2].Alive)
	}
	if res.FinalTime != 3 {
		t.Errorf("final time = %f", res.FinalTime)
	}

	ms, err := s.LoadMarkers(id)
	if err != nil {
		t.Fatalf("load markers: %v", err)
	}
	if len(ms) != 1 || ms[0].Entity != 2 || ms[0].Name != "planet" || ms[0].Number != 1 || math.Abs(ms[0].Position.Z+0.1) > 1e-6 {
		t.Errorf("markers = %+v", ms)
	}
}

func TestSaveDistinctIDs(t *testing.T) {
	s := New(t.TempDir())
	a, err := s.Save(RunMetadata{Scenario: "x"}, sampleResult(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Save(RunMetadata{Scenario: "x"}, sampleResult(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("both runs got id %s", a)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("listed %d runs", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("runs = %v, err = %v", runs, err)
	}
}

func TestListSkipsJunk(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "junk", "metadata.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	runs, err := New(dir).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("runs = %v, err = %v", runs, err)
	}
}

func TestLoadStatesMalformed(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	if err := os.MkdirAll(filepath.Join(dir, "bad"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad", "states.csv"), []byte("time,a.x,a.y\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadStates("bad"); err == nil {
		t.Error("expected header error")
	}
	if _, err := s.LoadMarkers("bad"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing markers: %v", err)
	}
}
