// Command threadpool drives the process-wide default and I/O pools with a
// synthetic workload and optionally serves their Prometheus metrics.
package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	// GOMAXPROCS should match the container CPU quota before any pool is sized.
	undo, err := maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "maxprocs: %v\n", err)
	}
	defer undo()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
