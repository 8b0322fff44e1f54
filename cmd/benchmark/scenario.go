package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type scenario struct {
	Propagate propagateConfig `yaml:"propagate"`
	Keyed     keyedConfig     `yaml:"keyed"`
}

type propagateConfig struct {
	Widths     []int `yaml:"widths"`
	Heights    []int `yaml:"heights"`
	Iterations int   `yaml:"iterations"`
}

type keyedConfig struct {
	Rows       []int `yaml:"rows"`
	Rounds     int   `yaml:"rounds"`
	Seed       int64 `yaml:"seed"`
	Concurrent int   `yaml:"concurrent"`
}

func defaultScenario() scenario {
	return scenario{
		Propagate: propagateConfig{
			Widths:     []int{1, 10, 100, 1_000},
			Heights:    []int{1, 10, 100, 1_000},
			Iterations: 100,
		},
		Keyed: keyedConfig{
			Rows:       []int{10, 100, 1_000, 10_000},
			Rounds:     50,
			Seed:       1,
			Concurrent: 4,
		},
	}
}

// loadScenario overlays the YAML file at path on the defaults.
func loadScenario(path string) (scenario, error) {
	sc := defaultScenario()
	if path == "" {
		return sc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("reading scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return sc, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := sc.validate(); err != nil {
		return sc, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

func (sc scenario) validate() error {
	if sc.Propagate.Iterations <= 0 {
		return fmt.Errorf("propagate.iterations must be positive, got %d", sc.Propagate.Iterations)
	}
	if sc.Keyed.Rounds <= 0 {
		return fmt.Errorf("keyed.rounds must be positive, got %d", sc.Keyed.Rounds)
	}
	if sc.Keyed.Concurrent <= 0 {
		return fmt.Errorf("keyed.concurrent must be positive, got %d", sc.Keyed.Concurrent)
	}
	for _, n := range sc.Keyed.Rows {
		if n <= 0 {
			return fmt.Errorf("keyed.rows must be positive, got %d", n)
		}
	}
	return nil
}
