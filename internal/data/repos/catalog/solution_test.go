package catalog

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/solutions-catalog/internal/data/repos/testutil"
	domain "github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/pkg/pagination"
)

func listQuery(f domain.Filter, page, limit int) domain.ListQuery {
	return domain.ListQuery{
		Filter:    f,
		Page:      page,
		Limit:     limit,
		SortBy:    domain.SortByCreatedAt,
		SortOrder: domain.SortDesc,
	}
}

func TestSolutionRepoCRUD(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	link := "dQw4w9WgXcQ"
	s := &domain.Solution{
		Title:          "Projectile motion",
		Description:    "Range equation walkthrough",
		BookTitle:      "Physics Fundamentals",
		Chapter:        "Chapter 3",
		ContentType:    domain.ContentTypeVideo,
		LinkIdentifier: &link,
		Difficulty:     domain.DifficultyHard,
		IsActive:       true,
	}
	created, err := repo.Create(ctx, nil, s)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}
	if created.Tags == nil {
		t.Fatalf("Create: expected tags to default to an empty list")
	}

	got, err := repo.GetActiveByID(ctx, nil, created.ID)
	if err != nil || got.Title != "Projectile motion" || got.ViewCount != 0 {
		t.Fatalf("GetActiveByID: got=%+v err=%v", got, err)
	}

	got.Title = "Projectile motion (revised)"
	got.Subject = "Physics"
	if err := repo.Update(ctx, nil, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.SetCounter(ctx, nil, got.ID, CounterViews, 7); err != nil {
		t.Fatalf("SetCounter views: %v", err)
	}
	if err := repo.SetCounter(ctx, nil, got.ID, CounterLikes, 2); err != nil {
		t.Fatalf("SetCounter likes: %v", err)
	}
	if err := repo.SetCounter(ctx, nil, got.ID, CounterField("title"), 1); err == nil {
		t.Fatalf("SetCounter: expected unknown counter to fail")
	}

	again, err := repo.GetActiveByID(ctx, nil, got.ID)
	if err != nil {
		t.Fatalf("GetActiveByID after update: %v", err)
	}
	if again.Title != "Projectile motion (revised)" || again.Subject != "Physics" || again.ViewCount != 7 || again.LikeCount != 2 {
		t.Fatalf("after update: %+v", again)
	}

	// Update must not clobber counters set in between.
	again.Description = "Now with drag"
	again.ViewCount = 0
	if err := repo.Update(ctx, nil, again); err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if third, _ := repo.GetActiveByID(ctx, nil, got.ID); third == nil || third.ViewCount != 7 {
		t.Fatalf("counter clobbered by Update: %+v", third)
	}

	if err := repo.SoftDelete(ctx, nil, got.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := repo.GetActiveByID(ctx, nil, got.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetActiveByID after delete: err=%v want ErrRecordNotFound", err)
	}
	if err := repo.SoftDelete(ctx, nil, got.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second SoftDelete: err=%v want ErrRecordNotFound", err)
	}
	if err := repo.SetCounter(ctx, nil, got.ID, CounterViews, 8); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("SetCounter on deleted row: err=%v want ErrRecordNotFound", err)
	}
	if err := repo.Update(ctx, nil, again); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Update on deleted row: err=%v want ErrRecordNotFound", err)
	}
	if _, err := repo.GetActiveByID(ctx, nil, uuid.New()); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetActiveByID unknown id: err=%v", err)
	}
}

func TestSolutionRepoDuplicateLinkIdentifier(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	first := testutil.SeedSolution(t, ctx, db)
	dup := &domain.Solution{
		Title:          "Copy",
		Description:    "Same video",
		BookTitle:      "Physics Fundamentals",
		Chapter:        "Chapter 1",
		ContentType:    domain.ContentTypeVideo,
		LinkIdentifier: first.LinkIdentifier,
		Difficulty:     domain.DifficultyEasy,
		IsActive:       true,
	}
	if _, err := repo.Create(ctx, nil, dup); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("Create duplicate: err=%v want ErrDuplicatedKey", err)
	}
}

func TestSolutionRepoLinkIdentifierFreedBySoftDelete(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	first := testutil.SeedSolution(t, ctx, db)
	if err := repo.SoftDelete(ctx, nil, first.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	readd := func() error {
		_, err := repo.Create(ctx, nil, &domain.Solution{
			Title:          "Re-added",
			Description:    "Same video",
			BookTitle:      "Physics Fundamentals",
			Chapter:        "Chapter 1",
			ContentType:    domain.ContentTypeVideo,
			LinkIdentifier: first.LinkIdentifier,
			Difficulty:     domain.DifficultyEasy,
			IsActive:       true,
		})
		return err
	}
	if err := readd(); err != nil {
		t.Fatalf("Create after soft delete: %v", err)
	}
	if err := readd(); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second active copy: err=%v want ErrDuplicatedKey", err)
	}
}

func TestSolutionRepoListSearchDensity(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	testutil.SeedSolution(t, ctx, db, testutil.WithTitle("Density of water"))
	testutil.SeedSolution(t, ctx, db, testutil.WithDescription("Computing DENSITY from mass"))
	testutil.SeedSolution(t, ctx, db, testutil.WithTags("buoyancy", "density"))
	testutil.SeedSolution(t, ctx, db, testutil.WithTitle("Momentum"))
	testutil.SeedSolution(t, ctx, db, testutil.WithTitle("Friction"))
	testutil.SeedSolution(t, ctx, db, testutil.WithTitle("Density but deleted"), testutil.Inactive())
	testutil.SeedSolution(t, ctx, db, testutil.WithTitle("Density scan"), testutil.AsImage("solutions/a.png"))

	q := listQuery(domain.Filter{Search: "density", ContentType: domain.ContentTypeVideo}, 1, 2)
	items, total, err := repo.List(ctx, nil, q)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || total != 3 {
		t.Fatalf("List: len=%d total=%d want 2/3", len(items), total)
	}

	q.Page = 2
	items, total, err = repo.List(ctx, nil, q)
	if err != nil || len(items) != 1 || total != 3 {
		t.Fatalf("List page 2: len=%d total=%d err=%v", len(items), total, err)
	}

	q.Page = 5
	items, total, err = repo.List(ctx, nil, q)
	if err != nil || len(items) != 0 || total != 3 {
		t.Fatalf("List past end: len=%d total=%d err=%v", len(items), total, err)
	}
}

func TestSolutionRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	testutil.SeedSolution(t, ctx, db,
		testutil.WithBook("Organic Chemistry", "Chapter 2: Alkanes"),
		testutil.WithSubjectGrade("Chemistry", "11"),
		testutil.WithDifficulty(domain.DifficultyEasy))
	testutil.SeedSolution(t, ctx, db,
		testutil.WithBook("Organic Chemistry", "Chapter 5: Alcohols"),
		testutil.WithSubjectGrade("Chemistry", "12"),
		testutil.WithDifficulty(domain.DifficultyHard))
	testutil.SeedSolution(t, ctx, db,
		testutil.WithBook("Calculus I", "Limits"),
		testutil.WithSubjectGrade("Mathematics", "12"),
		testutil.WithDifficulty(domain.DifficultyHard))
	testutil.SeedSolution(t, ctx, db,
		testutil.WithTitle("100% effort_check"),
		testutil.WithBook("Calculus I", "Derivatives"))

	cases := []struct {
		name   string
		filter domain.Filter
		want   int64
	}{
		{"none", domain.Filter{}, 4},
		{"book substring any case", domain.Filter{BookTitle: "organic"}, 2},
		{"chapter substring", domain.Filter{Chapter: "alk"}, 1},
		{"subject substring", domain.Filter{Subject: "CHEM"}, 2},
		{"grade exact", domain.Filter{Grade: "12"}, 2},
		{"grade is not substring", domain.Filter{Grade: "1"}, 0},
		{"difficulty exact", domain.Filter{Difficulty: domain.DifficultyHard}, 2},
		{"type", domain.Filter{ContentType: domain.ContentTypeImage}, 0},
		{"and combination", domain.Filter{BookTitle: "chemistry", Difficulty: domain.DifficultyHard}, 1},
		{"exact book", domain.Filter{ExactBookTitle: "Calculus I"}, 2},
		{"exact book is case sensitive", domain.Filter{ExactBookTitle: "calculus i"}, 0},
		{"percent is literal", domain.Filter{Search: "100%"}, 1},
		{"underscore is literal", domain.Filter{Search: "t_c"}, 1},
		{"bare wildcard matches nothing", domain.Filter{Search: "%%"}, 0},
		{"blank fields are ignored", domain.Filter{BookTitle: "  ", Search: ""}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, total, err := repo.List(ctx, nil, listQuery(tc.filter, 1, 10))
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tc.want {
				t.Fatalf("total=%d want=%d", total, tc.want)
			}
		})
	}
}

func TestSolutionRepoListOrdering(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := testutil.SeedSolution(t, ctx, db, testutil.WithTitle("Alpha"), testutil.WithViews(5), testutil.WithCreatedAt(base))
	b := testutil.SeedSolution(t, ctx, db, testutil.WithTitle("Bravo"), testutil.WithViews(50), testutil.WithCreatedAt(base.Add(time.Hour)))
	c := testutil.SeedSolution(t, ctx, db, testutil.WithTitle("Charlie"), testutil.WithViews(20), testutil.WithCreatedAt(base.Add(2*time.Hour)))

	order := func(q domain.ListQuery) []uuid.UUID {
		t.Helper()
		items, _, err := repo.List(ctx, nil, q)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		ids := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		return ids
	}
	same := func(got []uuid.UUID, want ...uuid.UUID) bool {
		if len(got) != len(want) {
			return false
		}
		for i := range got {
			if got[i] != want[i] {
				return false
			}
		}
		return true
	}

	q := listQuery(domain.Filter{}, 1, 10)
	if got := order(q); !same(got, c.ID, b.ID, a.ID) {
		t.Fatalf("createdAt desc: %v", got)
	}
	q.SortBy, q.SortOrder = domain.SortByViews, domain.SortDesc
	if got := order(q); !same(got, b.ID, c.ID, a.ID) {
		t.Fatalf("views desc: %v", got)
	}
	q.SortBy, q.SortOrder = domain.SortByTitle, domain.SortAsc
	if got := order(q); !same(got, a.ID, b.ID, c.ID) {
		t.Fatalf("title asc: %v", got)
	}
	q.SortBy = domain.SortField("bogus")
	q.SortOrder = domain.SortDesc
	if got := order(q); !same(got, c.ID, b.ID, a.ID) {
		t.Fatalf("unknown sort falls back to createdAt: %v", got)
	}
}

func TestSolutionRepoListPastEnd(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	for i := 0; i < 3; i++ {
		testutil.SeedSolution(t, ctx, db)
	}

	q := listQuery(domain.Filter{}, pagination.Page("200000000000000000"), pagination.Limit("50"))
	if q.Offset() <= 0 {
		t.Fatalf("offset must not wrap: page=%d offset=%d", q.Page, q.Offset())
	}
	items, total, err := repo.List(ctx, nil, q)
	if err != nil || len(items) != 0 || total != 3 {
		t.Fatalf("List past end: len=%d total=%d err=%v", len(items), total, err)
	}

	q.Page = math.MaxInt
	if q.Offset() != math.MaxInt {
		t.Fatalf("offset should saturate: %d", q.Offset())
	}
}

func TestSolutionRepoListInsideTx(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	testutil.SeedSolution(t, ctx, tx)
	testutil.SeedSolution(t, ctx, tx)

	items, total, err := repo.List(ctx, tx, listQuery(domain.Filter{}, 1, 1))
	if err != nil || len(items) != 1 || total != 2 {
		t.Fatalf("List in tx: len=%d total=%d err=%v", len(items), total, err)
	}
}

func TestSolutionRepoAggregates(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	testutil.SeedSolution(t, ctx, db, testutil.WithBook("Algebra", "Ch 1"), testutil.WithViews(3), testutil.WithSubjectGrade("Math", "9"))
	testutil.SeedSolution(t, ctx, db, testutil.WithBook("Algebra", "Ch 2"), testutil.WithViews(4), testutil.WithDifficulty(domain.DifficultyEasy))
	testutil.SeedSolution(t, ctx, db, testutil.WithBook("Biology", "Cells"), testutil.WithViews(10), testutil.AsImage("solutions/b.png"))
	testutil.SeedSolution(t, ctx, db, testutil.WithBook("Zoology", "Birds"), testutil.WithViews(100), testutil.Inactive())

	count, views, err := repo.Totals(ctx, nil)
	if err != nil || count != 3 || views != 17 {
		t.Fatalf("Totals: count=%d views=%d err=%v", count, views, err)
	}

	books, err := repo.CountBy(ctx, nil, FieldBookTitle, domain.Filter{}, 1)
	if err != nil || len(books) != 1 || books[0].Value != "Algebra" || books[0].Count != 2 {
		t.Fatalf("CountBy book: %+v err=%v", books, err)
	}
	types, err := repo.CountBy(ctx, nil, FieldContentType, domain.Filter{}, 0)
	if err != nil || len(types) != 2 || types[0].Value != "video" || types[0].Count != 2 {
		t.Fatalf("CountBy type: %+v err=%v", types, err)
	}
	if _, err := repo.CountBy(ctx, nil, "title; DROP TABLE solution", domain.Filter{}, 0); err == nil {
		t.Fatalf("CountBy: expected unknown field to fail")
	}

	allBooks, err := repo.Distinct(ctx, nil, FieldBookTitle, domain.Filter{})
	if err != nil || len(allBooks) != 2 || allBooks[0] != "Algebra" || allBooks[1] != "Biology" {
		t.Fatalf("Distinct books: %v err=%v", allBooks, err)
	}
	chapters, err := repo.Distinct(ctx, nil, FieldChapter, domain.Filter{ExactBookTitle: "Algebra"})
	if err != nil || len(chapters) != 2 || chapters[0] != "Ch 1" {
		t.Fatalf("Distinct chapters: %v err=%v", chapters, err)
	}
	subjects, err := repo.Distinct(ctx, nil, FieldSubject, domain.Filter{})
	if err != nil || len(subjects) != 1 || subjects[0] != "Math" {
		t.Fatalf("Distinct subjects skips blanks: %v err=%v", subjects, err)
	}
}

func TestSolutionRepoListVideos(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	testutil.SeedSolution(t, ctx, db)
	testutil.SeedSolution(t, ctx, db, testutil.Inactive())
	testutil.SeedSolution(t, ctx, db, testutil.AsImage("solutions/c.png"))

	rows, err := repo.ListVideos(ctx, nil, 10, 0)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListVideos: len=%d err=%v", len(rows), err)
	}
	rows, err = repo.ListVideos(ctx, nil, 10, 2)
	if err != nil || len(rows) != 0 {
		t.Fatalf("ListVideos offset: len=%d err=%v", len(rows), err)
	}
}

func TestSolutionRepoSetLinkFields(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSolutionRepo(db, testutil.Logger(t))

	inactive := testutil.SeedSolution(t, ctx, db, testutil.Inactive())
	if err := repo.SetLinkFields(ctx, nil, inactive.ID, "abcdefghijk", "https://img.youtube.com/vi/abcdefghijk/hqdefault.jpg"); err != nil {
		t.Fatalf("SetLinkFields: %v", err)
	}
	var got domain.Solution
	if err := db.First(&got, "id = ?", inactive.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.LinkIdentifier == nil || *got.LinkIdentifier != "abcdefghijk" {
		t.Fatalf("link identifier: %v", got.LinkIdentifier)
	}
	if err := repo.SetLinkFields(ctx, nil, uuid.New(), "abcdefghijk", ""); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing row: %v", err)
	}
}
