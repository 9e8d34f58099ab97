// Command olatui is a terminal patch panel for OLA universes.
package main

import (
	"os"

	"github.com/openlighting/olatui/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
