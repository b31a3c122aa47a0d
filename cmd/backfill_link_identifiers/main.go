package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/solutions-catalog/internal/app"
	"github.com/yungbote/solutions-catalog/internal/data/repos/catalog"
	"github.com/yungbote/solutions-catalog/internal/pkg/pointers"
	"github.com/yungbote/solutions-catalog/internal/pkg/videolink"
)

const batchSize = 200

type options struct {
	DryRun bool
	Limit  int
}

type summary struct {
	Scanned   int
	Updated   int
	Unchanged int
	Invalid   int
	Failed    int
}

// backfill re-derives link identifiers and thumbnails for every stored
// video, active or not, and rewrites rows whose derived fields drifted.
func backfill(ctx context.Context, repo catalog.SolutionRepo, opts options, out io.Writer) (summary, error) {
	var sum summary
	for offset := 0; ; offset += batchSize {
		rows, err := repo.ListVideos(ctx, nil, batchSize, offset)
		if err != nil {
			return sum, fmt.Errorf("list videos: %w", err)
		}
		for _, row := range rows {
			if opts.Limit > 0 && sum.Scanned >= opts.Limit {
				return sum, nil
			}
			sum.Scanned++

			id, err := videolink.Validate(pointers.Deref(row.ExternalLinkURL))
			if err != nil {
				sum.Invalid++
				fmt.Fprintf(out, "skip %s: %v\n", row.ID, err)
				continue
			}
			thumb := videolink.ThumbnailURL(id, videolink.DefaultQuality)
			if pointers.Deref(row.LinkIdentifier) == id && pointers.Deref(row.ThumbnailURL) == thumb {
				sum.Unchanged++
				continue
			}
			if opts.DryRun {
				sum.Updated++
				fmt.Fprintf(out, "would update %s: %q -> %q\n", row.ID, pointers.Deref(row.LinkIdentifier), id)
				continue
			}
			if err := repo.SetLinkFields(ctx, nil, row.ID, id, thumb); err != nil {
				sum.Failed++
				fmt.Fprintf(out, "update %s failed: %v\n", row.ID, err)
				continue
			}
			sum.Updated++
		}
		if len(rows) < batchSize {
			return sum, nil
		}
	}
}

func main() {
	var opts options
	flag.BoolVar(&opts.DryRun, "dry-run", false, "print planned updates without writing")
	flag.IntVar(&opts.Limit, "limit", 0, "limit number of videos scanned")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.LoadDotEnv()
	log, err := app.NewLogger(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)
	cfg.AutoMigrate = false
	store, err := app.OpenStore(log, cfg)
	if err != nil {
		fmt.Printf("init store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	sum, err := backfill(ctx, catalog.NewSolutionRepo(store.DB(), log), opts, os.Stdout)
	fmt.Printf("scanned=%d updated=%d unchanged=%d invalid=%d failed=%d dry_run=%v\n",
		sum.Scanned, sum.Updated, sum.Unchanged, sum.Invalid, sum.Failed, opts.DryRun)
	if err != nil {
		fmt.Printf("backfill: %v\n", err)
		os.Exit(1)
	}
}
