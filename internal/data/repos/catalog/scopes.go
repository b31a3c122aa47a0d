package catalog

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	domain "github.com/yungbote/solutions-catalog/internal/domain/catalog"
)

var sortColumns = map[domain.SortField]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByUpdatedAt: "updated_at",
	domain.SortByTitle:     "title",
	domain.SortByViews:     "view_count",
	domain.SortByLikes:     "like_count",
}

// Field names accepted by Distinct and CountBy. Anything else is rejected
// before it reaches SQL.
const (
	FieldBookTitle   = "book_title"
	FieldChapter     = "chapter"
	FieldSubject     = "subject"
	FieldGrade       = "grade"
	FieldContentType = "content_type"
	FieldDifficulty  = "difficulty"
)

var groupableFields = map[string]bool{
	FieldBookTitle:   true,
	FieldChapter:     true,
	FieldSubject:     true,
	FieldGrade:       true,
	FieldContentType: true,
	FieldDifficulty:  true,
}

func likeClause(col string) string {
	return "LOWER(" + col + `) LIKE ? ESCAPE '\'`
}

// containsPattern lowercases s and escapes LIKE metacharacters so user input
// only ever matches literally.
func containsPattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// tagMembershipClause matches rows with at least one tag containing the
// pattern. Tags are a JSON array column, so the SQL differs per dialect.
func tagMembershipClause(db *gorm.DB) string {
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return `EXISTS (SELECT 1 FROM jsonb_array_elements_text(` +
			`CASE WHEN jsonb_typeof(solution.tags) = 'array' THEN solution.tags ELSE '[]'::jsonb END` +
			`) AS t(v) WHERE LOWER(t.v) LIKE ? ESCAPE '\')`
	}
	return `EXISTS (SELECT 1 FROM json_each(solution.tags) WHERE LOWER(json_each.value) LIKE ? ESCAPE '\')`
}

func activeOnly(db *gorm.DB) *gorm.DB {
	return db.Where("solution.is_active = ?", true)
}

// applyFilter adds one AND clause per non-empty field. Search is a single
// OR group across title, description, book title, chapter and tags.
func applyFilter(db *gorm.DB, f domain.Filter) *gorm.DB {
	q := activeOnly(db)

	if v := strings.TrimSpace(f.ExactBookTitle); v != "" {
		q = q.Where("book_title = ?", v)
	}
	if v := strings.TrimSpace(f.BookTitle); v != "" {
		q = q.Where(likeClause("book_title"), containsPattern(v))
	}
	if v := strings.TrimSpace(f.Chapter); v != "" {
		q = q.Where(likeClause("chapter"), containsPattern(v))
	}
	if f.ContentType != "" {
		q = q.Where("content_type = ?", string(f.ContentType))
	}
	if v := strings.TrimSpace(f.Subject); v != "" {
		q = q.Where(likeClause("subject"), containsPattern(v))
	}
	if v := strings.TrimSpace(f.Grade); v != "" {
		q = q.Where("grade = ?", v)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", string(f.Difficulty))
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		p := containsPattern(v)
		group := "(" + strings.Join([]string{
			likeClause("title"),
			likeClause("description"),
			likeClause("book_title"),
			likeClause("chapter"),
			tagMembershipClause(db),
		}, " OR ") + ")"
		q = q.Where(group, p, p, p, p, p)
	}
	return q
}

func orderClause(q domain.ListQuery) string {
	dir := "DESC"
	if q.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	if q.ChapterOrder {
		return fmt.Sprintf("chapter ASC, created_at %s, id %s", dir, dir)
	}
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}
