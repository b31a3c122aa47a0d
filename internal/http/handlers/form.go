package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
	"github.com/yungbote/solutions-catalog/internal/services"
)

// formOverhead is the room left for text fields on top of the image limit.
const formOverhead = 1 << 20

const imageField = "image"

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// parseMultipart reads the whole form under a byte ceiling derived from the
// image limit.
func parseMultipart(c *gin.Context, maxImageBytes int64) error {
	limit := maxImageBytes + formOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apierr.TooLarge("request body exceeds %s", humanize.IBytes(uint64(limit)))
		}
		return apierr.Validation("invalid_body", "request body must be a valid multipart form")
	}
	return nil
}

// formImage returns the uploaded image header, or nil when none was sent.
func formImage(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apierr.Validation("invalid_file", "could not read uploaded image")
	}
	return fh, nil
}

// formTags accepts repeated tags fields, tags[] fields, or one comma
// separated value.
func formTags(c *gin.Context) ([]string, bool) {
	vals, ok := c.GetPostFormArray("tags")
	if !ok {
		vals, ok = c.GetPostFormArray("tags[]")
	}
	if !ok {
		return nil, false
	}
	if len(vals) == 1 && strings.Contains(vals[0], ",") {
		vals = strings.Split(vals[0], ",")
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, true
}

func formPtr(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func createInputFromForm(c *gin.Context) (services.CreateSolutionInput, error) {
	in := services.CreateSolutionInput{
		Title:           c.PostForm("title"),
		Description:     c.PostForm("description"),
		BookTitle:       c.PostForm("bookTitle"),
		Chapter:         c.PostForm("chapter"),
		ContentType:     c.PostForm("contentType"),
		ExternalLinkURL: c.PostForm("externalLinkUrl"),
		Difficulty:      c.PostForm("difficulty"),
		FileURL:         c.PostForm("fileUrl"),
		FileName:        c.PostForm("fileName"),
		Subject:         c.PostForm("subject"),
		Grade:           c.PostForm("grade"),
	}
	if tags, ok := formTags(c); ok {
		in.Tags = tags
	}
	size, err := formSize(c)
	if err != nil {
		return in, err
	}
	in.FileSize = size
	return in, nil
}

func updateInputFromForm(c *gin.Context) (services.UpdateSolutionInput, error) {
	in := services.UpdateSolutionInput{
		Title:           formPtr(c, "title"),
		Description:     formPtr(c, "description"),
		BookTitle:       formPtr(c, "bookTitle"),
		Chapter:         formPtr(c, "chapter"),
		ContentType:     formPtr(c, "contentType"),
		ExternalLinkURL: formPtr(c, "externalLinkUrl"),
		Difficulty:      formPtr(c, "difficulty"),
		FileURL:         formPtr(c, "fileUrl"),
		FileName:        formPtr(c, "fileName"),
		Subject:         formPtr(c, "subject"),
		Grade:           formPtr(c, "grade"),
	}
	if tags, ok := formTags(c); ok {
		in.Tags = &tags
	}
	size, err := formSize(c)
	if err != nil {
		return in, err
	}
	in.FileSize = size
	return in, nil
}

// formSize reads the optional fileSize field of a referenced image.
func formSize(c *gin.Context) (*int64, error) {
	raw, ok := c.GetPostForm("fileSize")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, apierr.Validation("invalid_file_size", "fileSize must be an integer")
	}
	return &n, nil
}
