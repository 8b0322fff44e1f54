package main

import (
	"context"
	"log"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v3"
)

const (
	scenarioKey = "scenario"
	profileKey  = "profile"
	skipKey     = "skip"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Propagation and keyed list benchmarks for the reactive runtime",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  scenarioKey,
				Usage: "YAML scenario file, defaults are used when empty",
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
				Value: "default.pgo",
			},
			&cli.StringSliceFlag{
				Name:  skipKey,
				Usage: "Benchmarks to skip (propagate, keyed)",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	sc, err := loadScenario(cmd.String(scenarioKey))
	if err != nil {
		return err
	}

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	skip := map[string]bool{}
	for _, name := range cmd.StringSlice(skipKey) {
		skip[name] = true
	}

	log.Printf("warming up")
	if !skip["propagate"] {
		benchmarkPropagate(sc.Propagate, true)
	}
	if !skip["keyed"] {
		if err := benchmarkKeyed(ctx, sc.Keyed, true); err != nil {
			return err
		}
	}
	return nil
}
