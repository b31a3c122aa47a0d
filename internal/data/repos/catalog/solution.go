package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	domain "github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

type CounterField string

const (
	CounterViews CounterField = "view_count"
	CounterLikes CounterField = "like_count"
)

type SolutionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, s *domain.Solution) (*domain.Solution, error)
	GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Solution, error)
	Update(ctx context.Context, tx *gorm.DB, s *domain.Solution) error
	SetCounter(ctx context.Context, tx *gorm.DB, id uuid.UUID, field CounterField, value int64) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	List(ctx context.Context, tx *gorm.DB, q domain.ListQuery) ([]*domain.Solution, int64, error)
	Distinct(ctx context.Context, tx *gorm.DB, field string, f domain.Filter) ([]string, error)
	CountBy(ctx context.Context, tx *gorm.DB, field string, f domain.Filter, limit int) ([]domain.GroupCount, error)
	Totals(ctx context.Context, tx *gorm.DB) (count int64, views int64, err error)

	ListVideos(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*domain.Solution, error)
	SetLinkFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, linkID, thumbnailURL string) error
}

type solutionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSolutionRepo(db *gorm.DB, baseLog *logger.Logger) SolutionRepo {
	repoLog := baseLog.With("repo", "SolutionRepo")
	return &solutionRepo{db: db, log: repoLog}
}

func (r *solutionRepo) Create(ctx context.Context, tx *gorm.DB, s *domain.Solution) (*domain.Solution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if s == nil {
		return nil, fmt.Errorf("nil solution")
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if err := transaction.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetActiveByID returns gorm.ErrRecordNotFound for missing and inactive rows
// alike.
func (r *solutionRepo) GetActiveByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Solution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out domain.Solution
	if err := activeOnly(transaction.WithContext(ctx)).
		Where("id = ?", id).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Update writes every mutable column of s. Counters and creation time are
// left alone; they have their own write paths.
func (r *solutionRepo) Update(ctx context.Context, tx *gorm.DB, s *domain.Solution) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	res := transaction.WithContext(ctx).
		Model(s).
		Select("*").
		Omit("id", "created_at", "view_count", "like_count").
		Where("is_active = ?", true).
		Updates(s)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetCounter stores an already-computed counter value. Callers read, add and
// write back without a guard, so concurrent bumps can be lost.
func (r *solutionRepo) SetCounter(ctx context.Context, tx *gorm.DB, id uuid.UUID, field CounterField, value int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	switch field {
	case CounterViews, CounterLikes:
	default:
		return fmt.Errorf("unknown counter %q", field)
	}
	res := transaction.WithContext(ctx).
		Model(&domain.Solution{}).
		Where("id = ? AND is_active = ?", id, true).
		UpdateColumn(string(field), value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *solutionRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&domain.Solution{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page plus the total count for the same filter. Both
// queries run concurrently on the pool; inside a caller-owned transaction
// they run one after the other since a tx holds a single connection.
func (r *solutionRepo) List(ctx context.Context, tx *gorm.DB, q domain.ListQuery) ([]*domain.Solution, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	limit := q.Limit
	if limit < 1 {
		limit = 1
	}

	var (
		items []*domain.Solution
		total int64
	)
	fetchPage := func(ctx context.Context) error {
		return applyFilter(transaction.WithContext(ctx).Model(&domain.Solution{}), q.Filter).
			Order(orderClause(q)).
			Limit(limit).
			Offset(q.Offset()).
			Find(&items).Error
	}
	fetchCount := func(ctx context.Context) error {
		return applyFilter(transaction.WithContext(ctx).Model(&domain.Solution{}), q.Filter).
			Count(&total).Error
	}

	if tx != nil {
		if err := fetchPage(ctx); err != nil {
			return nil, 0, err
		}
		if err := fetchCount(ctx); err != nil {
			return nil, 0, err
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return fetchPage(gctx) })
		g.Go(func() error { return fetchCount(gctx) })
		if err := g.Wait(); err != nil {
			return nil, 0, err
		}
	}
	if items == nil {
		items = []*domain.Solution{}
	}
	return items, total, nil
}

// Distinct lists the non-empty distinct values of field among active rows
// matching f, sorted ascending.
func (r *solutionRepo) Distinct(ctx context.Context, tx *gorm.DB, field string, f domain.Filter) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if !groupableFields[field] {
		return nil, fmt.Errorf("field %q cannot be listed", field)
	}
	out := []string{}
	if err := applyFilter(transaction.WithContext(ctx).Model(&domain.Solution{}), f).
		Where(field+" IS NOT NULL AND "+field+" <> ''").
		Distinct(field).
		Order(field+" ASC").
		Pluck(field, &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountBy groups active rows matching f by field, largest groups first.
// limit <= 0 returns every group.
func (r *solutionRepo) CountBy(ctx context.Context, tx *gorm.DB, field string, f domain.Filter, limit int) ([]domain.GroupCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if !groupableFields[field] {
		return nil, fmt.Errorf("field %q cannot be grouped", field)
	}
	q := applyFilter(transaction.WithContext(ctx).Model(&domain.Solution{}), f).
		Select(field + " AS value, COUNT(*) AS count").
		Group(field).
		Order("count DESC, value ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	out := []domain.GroupCount{}
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type totalsRow struct {
	Total int64
	Views int64
}

func (r *solutionRepo) Totals(ctx context.Context, tx *gorm.DB) (int64, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row totalsRow
	if err := activeOnly(transaction.WithContext(ctx).Model(&domain.Solution{})).
		Select("COUNT(*) AS total, COALESCE(SUM(view_count), 0) AS views").
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Total, row.Views, nil
}

// ListVideos pages through every video entry, active or not, in creation
// order. Used by maintenance commands.
func (r *solutionRepo) ListVideos(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*domain.Solution, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*domain.Solution
	if err := transaction.WithContext(ctx).
		Where("content_type = ?", string(domain.ContentTypeVideo)).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SetLinkFields rewrites the derived video columns of any row, active or not.
// updated_at is left alone.
func (r *solutionRepo) SetLinkFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, linkID, thumbnailURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&domain.Solution{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"link_identifier": linkID,
			"thumbnail_url":   thumbnailURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
