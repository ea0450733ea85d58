// Companion read-only report: prints how many records the last run
// retained into the output file.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/internal/store"
)

func main() {
	output := flag.String("output", "", "Path of the records file (defaults to the configured one)")
	flag.Parse()

	path := *output
	if path == "" {
		loader, _ := cfg.NewViperLoader()
		config, err := loader.Load()
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}
		path = config.Storage.OutputFile
	}

	records, err := store.LoadRecords(path)
	if err != nil {
		fmt.Printf("Failed to read records: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s holds %d harvested records\n", path, len(records))
}
