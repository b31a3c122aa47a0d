package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/pkg/videolink"
)

// SolutionOpt tweaks a seeded solution before insert.
type SolutionOpt func(*catalog.Solution)

func WithTitle(title string) SolutionOpt {
	return func(s *catalog.Solution) { s.Title = title }
}

func WithDescription(desc string) SolutionOpt {
	return func(s *catalog.Solution) { s.Description = desc }
}

func WithBook(book, chapter string) SolutionOpt {
	return func(s *catalog.Solution) {
		s.BookTitle = book
		s.Chapter = chapter
	}
}

func WithTags(tags ...string) SolutionOpt {
	return func(s *catalog.Solution) { s.Tags = datatypes.JSONSlice[string](tags) }
}

func WithDifficulty(d catalog.Difficulty) SolutionOpt {
	return func(s *catalog.Solution) { s.Difficulty = d }
}

func WithSubjectGrade(subject, grade string) SolutionOpt {
	return func(s *catalog.Solution) {
		s.Subject = subject
		s.Grade = grade
	}
}

func WithViews(n int64) SolutionOpt {
	return func(s *catalog.Solution) { s.ViewCount = n }
}

func WithCreatedAt(t time.Time) SolutionOpt {
	return func(s *catalog.Solution) {
		s.CreatedAt = t
		s.UpdatedAt = t
	}
}

// AsImage switches the seed to an image entry with a stored file.
func AsImage(key string) SolutionOpt {
	return func(s *catalog.Solution) {
		s.ContentType = catalog.ContentTypeImage
		s.ExternalLinkURL, s.LinkIdentifier, s.ThumbnailURL = nil, nil, nil
		url := "/uploads/" + key
		name := "page.png"
		size := int64(2048)
		s.FileURL, s.FileName, s.FileSize, s.FileKey = &url, &name, &size, &key
	}
}

// Inactive marks the seed as soft-deleted.
func Inactive() SolutionOpt {
	return func(s *catalog.Solution) { s.IsActive = false }
}

// SeedSolution inserts an active video entry with a unique link identifier.
func SeedSolution(tb testing.TB, ctx context.Context, tx *gorm.DB, opts ...SolutionOpt) *catalog.Solution {
	tb.Helper()
	id := uuid.New()
	linkID := uuid.NewString()[:videolink.IDLength]
	link := videolink.WatchURL(linkID)
	thumb := videolink.ThumbnailURL(linkID, videolink.DefaultQuality)
	s := &catalog.Solution{
		ID:              id,
		Title:           "Solution " + id.String()[:8],
		Description:     "Worked solution",
		BookTitle:       "Physics Fundamentals",
		Chapter:         "Chapter 1",
		ContentType:     catalog.ContentTypeVideo,
		ExternalLinkURL: &link,
		LinkIdentifier:  &linkID,
		ThumbnailURL:    &thumb,
		Tags:            datatypes.JSONSlice[string]{},
		Difficulty:      catalog.DifficultyMedium,
		IsActive:        true,
	}
	for _, opt := range opts {
		opt(s)
	}
	active := s.IsActive
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed solution: %v", err)
	}
	// is_active has a column default, so false is only honoured by an update.
	if !active {
		if err := tx.WithContext(ctx).Model(s).Update("is_active", false).Error; err != nil {
			tb.Fatalf("deactivate seeded solution: %v", err)
		}
	}
	return s
}
