package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypeImage ContentType = "image"
)

func (t ContentType) Valid() bool {
	return t == ContentTypeVideo || t == ContentTypeImage
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

var (
	ContentTypes = []ContentType{ContentTypeVideo, ContentTypeImage}
	Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
)

// Solution is one catalog entry: a video or image walkthrough for a book
// chapter. Exactly one media group is populated, selected by ContentType.
// Inactive rows are soft-deleted and never returned by read paths.
// LinkIdentifier is unique among active rows only; see db.AutoMigrateAll.
type Solution struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string      `gorm:"column:title;size:200;not null" json:"title"`
	Description string      `gorm:"column:description;size:1000;not null" json:"description"`
	BookTitle   string      `gorm:"column:book_title;size:100;not null;index" json:"bookTitle"`
	Chapter     string      `gorm:"column:chapter;size:50;not null" json:"chapter"`
	ContentType ContentType `gorm:"column:content_type;size:10;not null;index" json:"contentType"`

	// video
	ExternalLinkURL *string `gorm:"column:external_link_url" json:"externalLinkUrl"`
	LinkIdentifier  *string `gorm:"column:link_identifier;size:11" json:"linkIdentifier"`
	ThumbnailURL    *string `gorm:"column:thumbnail_url" json:"thumbnailUrl"`

	// image
	FileURL  *string `gorm:"column:file_url" json:"fileUrl"`
	FileName *string `gorm:"column:file_name" json:"fileName"`
	FileSize *int64  `gorm:"column:file_size" json:"fileSize"`
	FileKey  *string `gorm:"column:file_key" json:"-"`

	Tags       datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	Difficulty Difficulty                  `gorm:"column:difficulty;size:10;not null;default:'medium';index" json:"difficulty"`
	Subject    string                      `gorm:"column:subject;size:100" json:"subject,omitempty"`
	Grade      string                      `gorm:"column:grade;size:20" json:"grade,omitempty"`

	ViewCount int64 `gorm:"column:view_count;not null;default:0" json:"viewCount"`
	LikeCount int64 `gorm:"column:like_count;not null;default:0" json:"likeCount"`
	IsActive  bool  `gorm:"column:is_active;not null;default:true;index" json:"isActive"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}

func (Solution) TableName() string { return "solution" }

// FileDescriptor is what the upload path hands to create/update for image
// entries. Key is the storage-side object key and is never exposed.
type FileDescriptor struct {
	URL  string `json:"fileUrl"`
	Name string `json:"fileName"`
	Size int64  `json:"fileSize"`
	Key  string `json:"-"`
}
