package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/solutions-catalog/internal/http/response"
	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
	"github.com/yungbote/solutions-catalog/internal/services"
)

type UploadHandler struct {
	uploads services.UploadService
}

func NewUploadHandler(uploads services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// POST /api/uploads
//
// The returned descriptor carries no storage key. Entries that later
// reference its fileUrl do not own the blob, so it is never cleaned up.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	if !isMultipart(c) {
		response.RespondError(c, apierr.Validation("invalid_body", "request must be multipart/form-data with an image field"))
		return
	}
	if err := parseMultipart(c, h.uploads.MaxBytes()); err != nil {
		response.RespondError(c, err)
		return
	}
	fh, err := formImage(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	desc, err := h.uploads.StoreImage(c.Request.Context(), fh)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, desc)
}
