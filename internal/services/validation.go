package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
)

// CreateSolutionInput is the create payload. Video entries carry an
// ExternalLinkURL; image entries carry a file descriptor, either uploaded
// alongside the request or referenced through the File* fields.
type CreateSolutionInput struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Description     string   `json:"description" validate:"required,max=1000"`
	BookTitle       string   `json:"bookTitle" validate:"required,max=100"`
	Chapter         string   `json:"chapter" validate:"required,max=50"`
	ContentType     string   `json:"contentType" validate:"required,oneof=video image"`
	ExternalLinkURL string   `json:"externalLinkUrl" validate:"omitempty,max=2048"`
	FileURL         string   `json:"fileUrl" validate:"omitempty,max=2048"`
	FileName        string   `json:"fileName" validate:"omitempty,max=255"`
	FileSize        *int64   `json:"fileSize" validate:"omitnil,min=0"`
	Tags            []string `json:"tags" validate:"omitempty,max=10,dive,max=30"`
	Difficulty      string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Subject         string   `json:"subject" validate:"omitempty,max=100"`
	Grade           string   `json:"grade" validate:"omitempty,max=20"`
}

// UpdateSolutionInput is a partial update; nil fields are left unchanged.
type UpdateSolutionInput struct {
	Title           *string   `json:"title" validate:"omitnil,min=1,max=200"`
	Description     *string   `json:"description" validate:"omitnil,min=1,max=1000"`
	BookTitle       *string   `json:"bookTitle" validate:"omitnil,min=1,max=100"`
	Chapter         *string   `json:"chapter" validate:"omitnil,min=1,max=50"`
	ContentType     *string   `json:"contentType" validate:"omitnil,oneof=video image"`
	ExternalLinkURL *string   `json:"externalLinkUrl" validate:"omitnil,max=2048"`
	FileURL         *string   `json:"fileUrl" validate:"omitnil,max=2048"`
	FileName        *string   `json:"fileName" validate:"omitnil,max=255"`
	FileSize        *int64    `json:"fileSize" validate:"omitnil,min=0"`
	Tags            *[]string `json:"tags" validate:"omitnil,max=10,dive,max=30"`
	Difficulty      *string   `json:"difficulty" validate:"omitnil,oneof=easy medium hard"`
	Subject         *string   `json:"subject" validate:"omitnil,max=100"`
	Grade           *string   `json:"grade" validate:"omitnil,max=20"`
}

func (in *CreateSolutionInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.BookTitle = strings.TrimSpace(in.BookTitle)
	in.Chapter = strings.TrimSpace(in.Chapter)
	in.ContentType = strings.ToLower(strings.TrimSpace(in.ContentType))
	in.ExternalLinkURL = strings.TrimSpace(in.ExternalLinkURL)
	in.FileURL = strings.TrimSpace(in.FileURL)
	in.FileName = strings.TrimSpace(in.FileName)
	in.Tags = cleanTags(in.Tags)
	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	in.Subject = strings.TrimSpace(in.Subject)
	in.Grade = strings.TrimSpace(in.Grade)
}

func (in *UpdateSolutionInput) normalize() {
	for _, p := range []**string{
		&in.Title, &in.Description, &in.BookTitle, &in.Chapter,
		&in.ExternalLinkURL, &in.FileURL, &in.FileName, &in.Subject, &in.Grade,
	} {
		if *p != nil {
			v := strings.TrimSpace(**p)
			*p = &v
		}
	}
	for _, p := range []**string{&in.ContentType, &in.Difficulty} {
		if *p != nil {
			v := strings.ToLower(strings.TrimSpace(**p))
			*p = &v
		}
	}
	if in.Tags != nil {
		tags := cleanTags(*in.Tags)
		in.Tags = &tags
	}
}

// cleanTags trims entries and drops blanks, keeping insertion order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// validateStruct runs tag validation and reports the first failing field as
// a ValidationFailure.
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apierr.Validation("invalid_request", "invalid request: %v", err)
	}
	return apierr.Validation("invalid_"+fieldSlug(verrs[0]), "%s", describe(verrs[0]))
}

func fieldSlug(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return toSnake(name)
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not be empty", field)
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s accepts at most %s entries", field, fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		default:
			return fmt.Sprintf("%s must be at most %s", field, fe.Param())
		}
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
