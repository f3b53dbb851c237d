// Command sanitize sweeps quiz JSON files for stray LaTeX-style dollar
// spans around prose and rewrites them as plain "USD" amounts.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mcqhub/mcq/internal/sanitize"
)

func main() {
	dataDir := flag.String("data", "data", "directory of quiz JSON files to sweep")
	dryRun := flag.Bool("dry-run", false, "report files that would change without writing")
	flag.Parse()

	n, err := sanitize.Dir(*dataDir, *dryRun, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *dryRun {
		fmt.Printf("%d file(s) would change\n", n)
	} else {
		fmt.Printf("%d file(s) updated\n", n)
	}
}
