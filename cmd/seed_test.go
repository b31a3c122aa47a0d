package main

import (
	"context"
	"strings"
	"testing"

	repo "github.com/yungbote/solutions-catalog/internal/data/repos/catalog"
	"github.com/yungbote/solutions-catalog/internal/data/repos/testutil"
	"github.com/yungbote/solutions-catalog/internal/services"
)

const seedYAML = `
solutions:
  - title: Factoring quadratics
    description: Walkthrough of problem 4
    bookTitle: Algebra II
    chapter: "5"
    contentType: video
    externalLinkUrl: https://youtu.be/dQw4w9WgXcQ
    tags: [factoring, quadratics]
    difficulty: hard
  - title: Unit circle sketch
    description: Hand drawn reference
    bookTitle: Trigonometry
    chapter: "1"
    contentType: image
    fileUrl: https://cdn.example.com/unit-circle.png
    fileName: unit-circle.png
    fileSize: 2048
`

func TestParseSeed(t *testing.T) {
	entries, err := parseSeed(strings.NewReader(seedYAML))
	if err != nil {
		t.Fatalf("parseSeed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: %d", len(entries))
	}
	if entries[0].Chapter != "5" || len(entries[0].Tags) != 2 || entries[1].FileSize == nil || *entries[1].FileSize != 2048 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	if _, err := parseSeed(strings.NewReader("solutions:\n  - titel: typo\n")); err == nil {
		t.Fatalf("unknown fields should be rejected")
	}
}

func TestSeedSolutions(t *testing.T) {
	log := testutil.Logger(t)
	gdb := testutil.DB(t)
	svc := services.NewSolutionService(gdb, log, repo.NewSolutionRepo(gdb, log), nil, nil, services.SolutionServiceConfig{})

	entries, err := parseSeed(strings.NewReader(seedYAML))
	if err != nil {
		t.Fatalf("parseSeed: %v", err)
	}
	ctx := context.Background()
	res, err := seedSolutions(ctx, svc, entries)
	if err != nil || res.Created != 2 || res.Duplicates != 0 {
		t.Fatalf("first run: %+v err=%v", res, err)
	}
	res, err = seedSolutions(ctx, svc, entries[:1])
	if err != nil || res.Created != 0 || res.Duplicates != 1 {
		t.Fatalf("second run: %+v err=%v", res, err)
	}

	bad := []seedEntry{{Title: "missing fields", ContentType: "video"}}
	if _, err := seedSolutions(ctx, svc, bad); err == nil {
		t.Fatalf("invalid entry should fail")
	}
}
