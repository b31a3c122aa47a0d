package catalog

import "math"

// SortField is the API-facing sort key. Column mapping lives in the repo.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByTitle     SortField = "title"
	SortByViews     SortField = "views"
	SortByLikes     SortField = "likes"
)

func (f SortField) Valid() bool {
	switch f {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle, SortByViews, SortByLikes:
		return true
	default:
		return false
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter is the already-validated filter vocabulary shared by listing,
// statistics and metadata paths. Zero values mean "no clause".
type Filter struct {
	BookTitle   string      `json:"bookTitle,omitempty"`
	Chapter     string      `json:"chapter,omitempty"`
	ContentType ContentType `json:"type,omitempty"`
	Subject     string      `json:"subject,omitempty"`
	Grade       string      `json:"grade,omitempty"`
	Difficulty  Difficulty  `json:"difficulty,omitempty"`
	Search      string      `json:"search,omitempty"`

	// ExactBookTitle groups by book instead of substring matching.
	ExactBookTitle string `json:"-"`
}

// ListQuery is a Filter plus clamped paging and sorting.
type ListQuery struct {
	Filter
	Page      int
	Limit     int
	SortBy    SortField
	SortOrder SortOrder

	// ChapterOrder sorts by chapter first; used by the per-book listing.
	ChapterOrder bool
}

// Offset is (Page-1)*Limit, saturating instead of wrapping so a page past
// the end always yields an empty slice.
func (q ListQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// PageInfo is derived from a total count and the clamped page/limit.
type PageInfo struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
	NextPage     *int  `json:"nextPage"`
	PrevPage     *int  `json:"prevPage"`
}

type ListResult struct {
	Items      []*Solution `json:"items"`
	Pagination PageInfo    `json:"pagination"`
	Filters    Filter      `json:"filters"`
}

// GroupCount is one bucket of a grouped aggregation.
type GroupCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type Stats struct {
	TotalSolutions int64        `json:"totalSolutions"`
	TotalViews     int64        `json:"totalViews"`
	ByType         []GroupCount `json:"byType"`
	ByDifficulty   []GroupCount `json:"byDifficulty"`
	TopBooks       []GroupCount `json:"topBooks"`
}

type FilterOptions struct {
	Books        []string      `json:"books"`
	Chapters     []string      `json:"chapters"`
	Subjects     []string      `json:"subjects"`
	Grades       []string      `json:"grades"`
	Types        []ContentType `json:"types"`
	Difficulties []Difficulty  `json:"difficulties"`
}
