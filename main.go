package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/odpf/jobpack/client/cmd"
)

func main() {
	rand.Seed(time.Now().UTC().UnixNano())

	command := cmd.New()
	if err := command.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
