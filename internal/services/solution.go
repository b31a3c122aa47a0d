package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	repo "github.com/yungbote/solutions-catalog/internal/data/repos/catalog"
	"github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/observability"
	"github.com/yungbote/solutions-catalog/internal/pkg/pagination"
	"github.com/yungbote/solutions-catalog/internal/pkg/pointers"
	"github.com/yungbote/solutions-catalog/internal/pkg/videolink"
	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

// ListParams are the raw, optional listing inputs exactly as they arrive on
// the query string.
type ListParams struct {
	BookTitle  string `form:"bookTitle"`
	Chapter    string `form:"chapter"`
	Type       string `form:"type"`
	Subject    string `form:"subject"`
	Grade      string `form:"grade"`
	Difficulty string `form:"difficulty"`
	Search     string `form:"search"`
	Page       string `form:"page"`
	Limit      string `form:"limit"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder"`
}

// BuildListQuery validates the enum filters and clamps paging and sorting.
// Only type and difficulty can fail; every other input falls back.
func BuildListQuery(p ListParams) (catalog.ListQuery, error) {
	f := catalog.Filter{
		BookTitle: strings.TrimSpace(p.BookTitle),
		Chapter:   strings.TrimSpace(p.Chapter),
		Subject:   strings.TrimSpace(p.Subject),
		Grade:     strings.TrimSpace(p.Grade),
		Search:    strings.TrimSpace(p.Search),
	}
	if v := strings.ToLower(strings.TrimSpace(p.Type)); v != "" {
		ct := catalog.ContentType(v)
		if !ct.Valid() {
			return catalog.ListQuery{}, apierr.Validation("invalid_type", "type must be one of: video, image")
		}
		f.ContentType = ct
	}
	if v := strings.ToLower(strings.TrimSpace(p.Difficulty)); v != "" {
		d := catalog.Difficulty(v)
		if !d.Valid() {
			return catalog.ListQuery{}, apierr.Validation("invalid_difficulty", "difficulty must be one of: easy, medium, hard")
		}
		f.Difficulty = d
	}
	return catalog.ListQuery{
		Filter:    f,
		Page:      pagination.Page(p.Page),
		Limit:     pagination.Limit(p.Limit),
		SortBy:    pagination.SortBy(p.SortBy),
		SortOrder: pagination.SortOrder(p.SortOrder),
	}, nil
}

type SolutionService interface {
	List(ctx context.Context, p ListParams) (*catalog.ListResult, error)
	ListByBook(ctx context.Context, bookTitle string, p ListParams) (*catalog.ListResult, error)
	Get(ctx context.Context, rawID string) (*catalog.Solution, error)
	Create(ctx context.Context, in CreateSolutionInput, upload *catalog.FileDescriptor) (*catalog.Solution, error)
	Update(ctx context.Context, rawID string, in UpdateSolutionInput, upload *catalog.FileDescriptor) (*catalog.Solution, error)
	Delete(ctx context.Context, rawID string) error
	Like(ctx context.Context, rawID string) (*catalog.Solution, error)

	Stats(ctx context.Context) (*catalog.Stats, error)
	Filters(ctx context.Context, bookTitle string) (*catalog.FilterOptions, error)
	VideoInfo(ctx context.Context, rawURL, rawQuality string, opts videolink.EmbedOptions) (*videolink.Links, error)
}

type SolutionServiceConfig struct {
	StoreOpTimeout time.Duration
	CacheTTL       time.Duration
	TopBooks       int
}

type solutionService struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    repo.SolutionRepo
	cache   Cache
	cleaner BlobCleaner
	cfg     SolutionServiceConfig
}

// NewSolutionService wires the catalog operations. cache and cleaner may be
// nil: reads then always hit the store and replaced blobs are left behind.
func NewSolutionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	solutionRepo repo.SolutionRepo,
	cache Cache,
	cleaner BlobCleaner,
	cfg SolutionServiceConfig,
) SolutionService {
	if cfg.TopBooks <= 0 {
		cfg.TopBooks = 5
	}
	return &solutionService{
		db:      db,
		log:     baseLog.With("service", "SolutionService"),
		repo:    solutionRepo,
		cache:   cache,
		cleaner: cleaner,
		cfg:     cfg,
	}
}

// opCtx detaches store work from client cancellation but keeps it bounded by
// the store timeout.
func (s *solutionService) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if s.cfg.StoreOpTimeout <= 0 {
		return base, func() {}
	}
	return context.WithTimeout(base, s.cfg.StoreOpTimeout)
}

func observe(op string, errp *error) {
	outcome := "ok"
	if errp != nil && *errp != nil {
		outcome = apierr.CodeOf(*errp)
	}
	observability.Current().ObserveCatalogOp(op, outcome)
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierr.Validation("invalid_id", "invalid solution id")
	}
	return id, nil
}

func (s *solutionService) List(ctx context.Context, p ListParams) (res *catalog.ListResult, err error) {
	defer observe("list", &err)
	q, err := BuildListQuery(p)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, q)
}

func (s *solutionService) ListByBook(ctx context.Context, bookTitle string, p ListParams) (res *catalog.ListResult, err error) {
	defer observe("list_by_book", &err)
	bookTitle = strings.TrimSpace(bookTitle)
	if bookTitle == "" {
		return nil, apierr.Validation("invalid_book_title", "bookTitle is required")
	}
	q, err := BuildListQuery(p)
	if err != nil {
		return nil, err
	}
	q.BookTitle = ""
	q.ExactBookTitle = bookTitle
	q.ChapterOrder = true
	return s.list(ctx, q)
}

func (s *solutionService) list(ctx context.Context, q catalog.ListQuery) (*catalog.ListResult, error) {
	ctx, span := observability.StartSpan(ctx, "catalog.list",
		attribute.Int("page", q.Page),
		attribute.Int("limit", q.Limit),
		attribute.String("sort_by", string(q.SortBy)),
	)
	defer span.End()

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	items, total, err := s.repo.List(opCtx, nil, q)
	if err != nil {
		span.RecordError(err)
		return nil, storeErr("list solutions", err)
	}
	span.SetAttributes(attribute.Int64("total", total))
	return &catalog.ListResult{
		Items:      items,
		Pagination: pagination.Build(total, q.Page, q.Limit),
		Filters:    q.Filter,
	}, nil
}

// Get returns an active entry and bumps its view count. The bump is a plain
// read-modify-write; concurrent readers of the same entry can lose updates.
func (s *solutionService) Get(ctx context.Context, rawID string) (sol *catalog.Solution, err error) {
	defer observe("get", &err)
	return s.bump(ctx, rawID, repo.CounterViews)
}

func (s *solutionService) Like(ctx context.Context, rawID string) (sol *catalog.Solution, err error) {
	defer observe("like", &err)
	return s.bump(ctx, rawID, repo.CounterLikes)
}

func (s *solutionService) bump(ctx context.Context, rawID string, field repo.CounterField) (*catalog.Solution, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	sol, err := s.repo.GetActiveByID(opCtx, nil, id)
	if err != nil {
		return nil, storeErr("get solution", err)
	}
	next := sol.ViewCount + 1
	kind := "view"
	if field == repo.CounterLikes {
		next = sol.LikeCount + 1
		kind = "like"
	}
	if err := s.repo.SetCounter(opCtx, nil, id, field, next); err != nil {
		return nil, storeErr("increment "+kind+" count", err)
	}
	if field == repo.CounterLikes {
		sol.LikeCount = next
	} else {
		sol.ViewCount = next
	}
	observability.Current().IncEngagement(kind)
	s.invalidateStats(ctx)
	return sol, nil
}

func (s *solutionService) Create(ctx context.Context, in CreateSolutionInput, upload *catalog.FileDescriptor) (sol *catalog.Solution, err error) {
	defer observe("create", &err)
	defer s.discardUploadOnError(ctx, upload, &err)

	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	sol = &catalog.Solution{
		Title:       in.Title,
		Description: in.Description,
		BookTitle:   in.BookTitle,
		Chapter:     in.Chapter,
		ContentType: catalog.ContentType(in.ContentType),
		Tags:        in.Tags,
		Difficulty:  catalog.DifficultyMedium,
		Subject:     in.Subject,
		Grade:       in.Grade,
		IsActive:    true,
	}
	if in.Difficulty != "" {
		sol.Difficulty = catalog.Difficulty(in.Difficulty)
	}

	switch sol.ContentType {
	case catalog.ContentTypeVideo:
		if upload != nil {
			return nil, apierr.Validation("invalid_file", "image uploads are only accepted for image solutions")
		}
		if in.ExternalLinkURL == "" {
			return nil, apierr.Validation("invalid_external_link_url", "externalLinkUrl is required for video solutions")
		}
		if err := applyVideoLink(sol, in.ExternalLinkURL); err != nil {
			return nil, err
		}
	case catalog.ContentTypeImage:
		file := upload
		if file == nil {
			file = &catalog.FileDescriptor{URL: in.FileURL, Name: in.FileName, Size: pointers.Deref(in.FileSize)}
			if in.FileSize == nil {
				file.Size = -1
			}
		}
		if err := applyImageFile(sol, file); err != nil {
			return nil, err
		}
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	if _, err := s.repo.Create(opCtx, nil, sol); err != nil {
		return nil, storeErr("create solution", err)
	}
	s.invalidate(ctx)
	s.log.Info("Solution created", "solution_id", sol.ID, "content_type", sol.ContentType)
	return sol, nil
}

func (s *solutionService) Update(ctx context.Context, rawID string, in UpdateSolutionInput, upload *catalog.FileDescriptor) (sol *catalog.Solution, err error) {
	defer observe("update", &err)
	defer s.discardUploadOnError(ctx, upload, &err)

	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	sol, err = s.repo.GetActiveByID(opCtx, nil, id)
	if err != nil {
		return nil, storeErr("get solution", err)
	}
	previousType := sol.ContentType
	previousKey := pointers.Deref(sol.FileKey)

	if in.Title != nil {
		sol.Title = *in.Title
	}
	if in.Description != nil {
		sol.Description = *in.Description
	}
	if in.BookTitle != nil {
		sol.BookTitle = *in.BookTitle
	}
	if in.Chapter != nil {
		sol.Chapter = *in.Chapter
	}
	if in.Tags != nil {
		sol.Tags = *in.Tags
	}
	if in.Difficulty != nil {
		if *in.Difficulty == "" {
			sol.Difficulty = catalog.DifficultyMedium
		} else {
			sol.Difficulty = catalog.Difficulty(*in.Difficulty)
		}
	}
	if in.Subject != nil {
		sol.Subject = *in.Subject
	}
	if in.Grade != nil {
		sol.Grade = *in.Grade
	}
	if in.ContentType != nil {
		sol.ContentType = catalog.ContentType(*in.ContentType)
	}

	switch sol.ContentType {
	case catalog.ContentTypeVideo:
		if upload != nil {
			return nil, apierr.Validation("invalid_file", "image uploads are only accepted for image solutions")
		}
		link := ""
		if previousType == catalog.ContentTypeVideo {
			link = pointers.Deref(sol.ExternalLinkURL)
		}
		if in.ExternalLinkURL != nil {
			link = *in.ExternalLinkURL
		}
		if link == "" {
			return nil, apierr.Validation("invalid_external_link_url", "externalLinkUrl is required for video solutions")
		}
		if in.ExternalLinkURL != nil || previousType != catalog.ContentTypeVideo {
			if err := applyVideoLink(sol, link); err != nil {
				return nil, err
			}
		}
	case catalog.ContentTypeImage:
		file := upload
		if file == nil {
			file = mergeFileFields(sol, previousType, in)
		}
		if err := applyImageFile(sol, file); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(opCtx, nil, sol); err != nil {
		return nil, storeErr("update solution", err)
	}
	if previousKey != "" && previousKey != pointers.Deref(sol.FileKey) {
		s.scheduleCleanup(ctx, previousKey)
	}
	s.invalidate(ctx)
	return sol, nil
}

// Delete soft-deletes an entry. Stored blobs are kept.
func (s *solutionService) Delete(ctx context.Context, rawID string) (err error) {
	defer observe("delete", &err)
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	if err := s.repo.SoftDelete(opCtx, nil, id); err != nil {
		return storeErr("delete solution", err)
	}
	s.invalidate(ctx)
	s.log.Info("Solution deactivated", "solution_id", id)
	return nil
}

// applyVideoLink validates the link, derives the identifier and the cached
// default thumbnail, and clears any image fields.
func applyVideoLink(sol *catalog.Solution, raw string) error {
	id, err := videolink.Validate(raw)
	if errors.Is(err, videolink.ErrNoIdentifier) {
		return apierr.Validation("invalid_external_link_url", "externalLinkUrl does not contain a recognizable video identifier")
	}
	if err != nil {
		return apierr.Validation("invalid_external_link_url", "externalLinkUrl must be a valid http(s) URL")
	}
	link := strings.TrimSpace(raw)
	sol.ExternalLinkURL = &link
	sol.LinkIdentifier = pointers.String(id)
	sol.ThumbnailURL = pointers.String(videolink.ThumbnailURL(id, videolink.DefaultQuality))
	sol.FileURL, sol.FileName, sol.FileSize, sol.FileKey = nil, nil, nil, nil
	return nil
}

// applyImageFile sets the file descriptor and clears the video fields. A
// negative size means the caller never supplied one.
func applyImageFile(sol *catalog.Solution, file *catalog.FileDescriptor) error {
	if file == nil || strings.TrimSpace(file.URL) == "" || strings.TrimSpace(file.Name) == "" || file.Size < 0 {
		return apierr.Validation("invalid_file", "fileUrl, fileName and fileSize are required for image solutions")
	}
	sol.FileURL = pointers.String(strings.TrimSpace(file.URL))
	sol.FileName = pointers.String(strings.TrimSpace(file.Name))
	sol.FileSize = pointers.Int64(file.Size)
	sol.FileKey = pointers.NonEmpty(file.Key)
	sol.ExternalLinkURL, sol.LinkIdentifier, sol.ThumbnailURL = nil, nil, nil
	return nil
}

// mergeFileFields overlays referenced file fields on the current image
// descriptor. Pointing fileUrl somewhere else drops the stored key since
// the blob is no longer ours to manage.
func mergeFileFields(sol *catalog.Solution, previousType catalog.ContentType, in UpdateSolutionInput) *catalog.FileDescriptor {
	file := &catalog.FileDescriptor{Size: -1}
	if previousType == catalog.ContentTypeImage {
		file.URL = pointers.Deref(sol.FileURL)
		file.Name = pointers.Deref(sol.FileName)
		file.Key = pointers.Deref(sol.FileKey)
		if sol.FileSize != nil {
			file.Size = *sol.FileSize
		}
	}
	if in.FileURL != nil && *in.FileURL != file.URL {
		file.URL = *in.FileURL
		file.Key = ""
	}
	if in.FileName != nil {
		file.Name = *in.FileName
	}
	if in.FileSize != nil {
		file.Size = *in.FileSize
	}
	return file
}

func (s *solutionService) discardUploadOnError(ctx context.Context, upload *catalog.FileDescriptor, errp *error) {
	if errp == nil || *errp == nil || upload == nil || upload.Key == "" {
		return
	}
	s.scheduleCleanup(ctx, upload.Key)
}

func (s *solutionService) scheduleCleanup(ctx context.Context, key string) {
	if s.cleaner == nil {
		s.log.Warn("No blob cleaner configured; leaving orphaned blob", "key", key)
		return
	}
	if err := s.cleaner.Schedule(context.WithoutCancel(ctx), key); err != nil {
		s.log.Warn("Failed to schedule blob cleanup", "key", key, "error", err)
	}
}
