package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/lattice/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

func addOne(v int) int {
	return v + 1
}

func pass(int) error {
	return nil
}

func benchmarkPropagate(cfg propagateConfig, shouldRender bool) {
	tbl := table.NewWriter()
	tbl.SetTitle("Propagate")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range cfg.Widths {
		for _, h := range cfg.Heights {
			tach := tachymeter.New(&tachymeter.Config{Size: cfg.Iterations})

			rt := reactive.NewRuntime(reactive.WithErrorHandler(func(err error) {
				log.Panic(err)
			}))
			src := reactive.NewCell(rt, 1)
			for i := 0; i < w; i++ {
				var last reactive.Readable[int] = src
				for j := 0; j < h; j++ {
					last = reactive.Derive1(rt, last, addOne)
				}
				reactive.Watch1(rt, last, pass)
			}

			for i := 0; i < cfg.Iterations; i++ {
				start := time.Now()
				src.SetValue(src.Peek() + 1)
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
