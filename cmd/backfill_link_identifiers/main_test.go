package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/yungbote/solutions-catalog/internal/data/repos/catalog"
	"github.com/yungbote/solutions-catalog/internal/data/repos/testutil"
	domain "github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/pkg/pointers"
)

func TestBackfill(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := catalog.NewSolutionRepo(db, testutil.Logger(t))

	// stale: stored identifier does not match its link
	stale := testutil.SeedSolution(t, ctx, db)
	if err := db.Model(&domain.Solution{}).Where("id = ?", stale.ID).
		Update("external_link_url", "https://youtu.be/dQw4w9WgXcQ").Error; err != nil {
		t.Fatalf("prepare stale row: %v", err)
	}
	// broken: link no longer parses
	broken := testutil.SeedSolution(t, ctx, db)
	if err := db.Model(&domain.Solution{}).Where("id = ?", broken.ID).
		Update("external_link_url", "https://example.com/nothing").Error; err != nil {
		t.Fatalf("prepare broken row: %v", err)
	}

	var out bytes.Buffer
	sum, err := backfill(ctx, repo, options{DryRun: true}, &out)
	if err != nil || sum.Scanned != 2 || sum.Updated != 1 || sum.Invalid != 1 {
		t.Fatalf("dry run: %+v err=%v", sum, err)
	}
	var got domain.Solution
	_ = db.First(&got, "id = ?", stale.ID).Error
	if pointers.Deref(got.LinkIdentifier) == "dQw4w9WgXcQ" {
		t.Fatalf("dry run must not write")
	}

	sum, err = backfill(ctx, repo, options{}, &out)
	if err != nil || sum.Updated != 1 || sum.Failed != 0 {
		t.Fatalf("backfill: %+v err=%v", sum, err)
	}
	_ = db.First(&got, "id = ?", stale.ID).Error
	if pointers.Deref(got.LinkIdentifier) != "dQw4w9WgXcQ" ||
		pointers.Deref(got.ThumbnailURL) != "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Fatalf("row not rewritten: %+v", got)
	}

	sum, err = backfill(ctx, repo, options{Limit: 1}, &out)
	if err != nil || sum.Scanned != 1 {
		t.Fatalf("limit: %+v err=%v", sum, err)
	}
}
