// Command backfill repairs remote mistake entries that are missing their
// question text or topic tag, matching them against the local catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mcqhub/mcq/internal/catalog"
	"github.com/mcqhub/mcq/internal/infrastructure/config"
	"github.com/mcqhub/mcq/internal/mistakes"
	"github.com/mcqhub/mcq/internal/upstash"
)

func main() {
	apply := flag.Bool("apply", false, "write fixes back to the remote list instead of only reporting")
	key := flag.String("key", "", "remote list key, defaults to MISTAKES_KEY")
	limit := flag.Int("limit", 0, "max entries to examine, 0 means all")
	flag.Parse()

	cfg := config.Load()
	if *key == "" {
		*key = cfg.MistakesKey
	}

	client := upstash.New(cfg.UpstashURL, cfg.UpstashToken)
	if !client.Enabled() {
		fmt.Fprintln(os.Stderr, "backfill needs UPSTASH_REDIS_REST_URL and UPSTASH_REDIS_REST_TOKEN")
		os.Exit(1)
	}

	cat, err := catalog.New(cfg.DataDir, cfg.MistakesFile, cfg.DefaultQuizFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	report, err := mistakes.Backfill(context.Background(), client, cat, mistakes.BackfillOptions{
		Key:   *key,
		Apply: *apply,
		Limit: *limit,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Backfill complete: examined=%d, updated=%d, total_in_list=%d, apply=%v\n",
		report.Examined, report.Updated, report.Total, report.Applied)
}
