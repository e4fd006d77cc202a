// Command hdrstat records a stream of integer samples into an HDR
// histogram and prints a percentile summary. It is a thin collaborator
// around the hdrhistogram package, exercising the CLI/config/logging
// stack the core package deliberately stays free of.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("hdrstat failed")
		os.Exit(1)
	}
}
