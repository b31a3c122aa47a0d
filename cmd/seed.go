package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/solutions-catalog/internal/app"
	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
	"github.com/yungbote/solutions-catalog/internal/services"
)

type seedFile struct {
	Solutions []seedEntry `yaml:"solutions"`
}

type seedEntry struct {
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	BookTitle       string   `yaml:"bookTitle"`
	Chapter         string   `yaml:"chapter"`
	ContentType     string   `yaml:"contentType"`
	ExternalLinkURL string   `yaml:"externalLinkUrl"`
	FileURL         string   `yaml:"fileUrl"`
	FileName        string   `yaml:"fileName"`
	FileSize        *int64   `yaml:"fileSize"`
	Tags            []string `yaml:"tags"`
	Difficulty      string   `yaml:"difficulty"`
	Subject         string   `yaml:"subject"`
	Grade           string   `yaml:"grade"`
}

func (e seedEntry) input() services.CreateSolutionInput {
	return services.CreateSolutionInput{
		Title:           e.Title,
		Description:     e.Description,
		BookTitle:       e.BookTitle,
		Chapter:         e.Chapter,
		ContentType:     e.ContentType,
		ExternalLinkURL: e.ExternalLinkURL,
		FileURL:         e.FileURL,
		FileName:        e.FileName,
		FileSize:        e.FileSize,
		Tags:            e.Tags,
		Difficulty:      e.Difficulty,
		Subject:         e.Subject,
		Grade:           e.Grade,
	}
}

func parseSeed(r io.Reader) ([]seedEntry, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Solutions, nil
}

type seedResult struct {
	Created    int
	Duplicates int
}

// seedSolutions creates every entry through the service so validation and
// link derivation apply. Entries that already exist are skipped.
func seedSolutions(ctx context.Context, svc services.SolutionService, entries []seedEntry) (seedResult, error) {
	var res seedResult
	for i, e := range entries {
		_, err := svc.Create(ctx, e.input(), nil)
		switch {
		case err == nil:
			res.Created++
		case apierr.CodeOf(err) == "duplicate_entry":
			res.Duplicates++
		default:
			return res, fmt.Errorf("seed entry %d (%q): %w", i+1, e.Title, err)
		}
	}
	return res, nil
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog entries from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close()
			entries, err := parseSeed(f)
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), ctx.log, ctx.cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			res, err := seedSolutions(cmd.Context(), application.Services.Solutions, entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d solutions (%d already present)\n", res.Created, res.Duplicates)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "catalog.yaml", "Seed file path")
	return cmd
}
