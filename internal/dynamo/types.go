package dynamo

import "fmt"

// Config controls a simulation run.
type Config struct {
	Dt            float64
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      100.0,
		SampleEvery:   10,
		ValidateState: true,
	}
}

// Sample is a sampled set of body positions at one instant. Positions and
// Alive are indexed like Result.Names; a destroyed body keeps its last
// position with Alive false.
type Sample struct {
	Time      float64
	Positions []Vec3
	Alive     []bool
}

type Result struct {
	Samples     []Sample
	Names       []string
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	FinalTime   float64
	Errors      []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
