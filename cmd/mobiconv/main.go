// mobiconv converts multi-stream biosignal recordings into a structured
// per-subject/task dataset.
package main

import (
	"os"

	"github.com/JVHannila/MoBI-project/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
