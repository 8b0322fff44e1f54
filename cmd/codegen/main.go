package main

import (
	"context"
	"go/format"
	"log"
	"os"
	"time"

	"github.com/delaneyj/lattice/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	arityKey = "count"
	outKey   = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate fixed-arity Derive and Watch helpers",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  arityKey,
				Usage: "Highest number of sources to generate helpers for",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "Output file",
				Value: "reactive/derive_gen.go",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for reactive started !")
	defer func() {
		log.Printf("Codegen for reactive finished in %v", time.Since(start))
	}()

	count := int(cmd.Uint(arityKey))
	out := cmd.String(outKey)
	log.Printf("Arity: 1..%d -> %s", count, out)

	contents, err := format.Source([]byte(templates.DeriveGen(count)))
	if err != nil {
		return err
	}
	return os.WriteFile(out, contents, 0644)
}
