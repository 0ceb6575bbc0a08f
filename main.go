package main

import (
	"log"

	"github.com/msolve/cdcl-sat/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
