package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/http/response"
	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
	"github.com/yungbote/solutions-catalog/internal/services"
)

type SolutionHandler struct {
	log       *logger.Logger
	solutions services.SolutionService
	uploads   services.UploadService
}

func NewSolutionHandler(log *logger.Logger, solutions services.SolutionService, uploads services.UploadService) *SolutionHandler {
	return &SolutionHandler{
		log:       log.With("handler", "SolutionHandler"),
		solutions: solutions,
		uploads:   uploads,
	}
}

// GET /api/solutions
func (h *SolutionHandler) List(c *gin.Context) {
	var params services.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.RespondError(c, apierr.Validation("invalid_query", "query string could not be parsed"))
		return
	}
	res, err := h.solutions.List(c.Request.Context(), params)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondList(c, res)
}

// GET /api/books/:bookTitle/solutions
func (h *SolutionHandler) ListByBook(c *gin.Context) {
	var params services.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.RespondError(c, apierr.Validation("invalid_query", "query string could not be parsed"))
		return
	}
	res, err := h.solutions.ListByBook(c.Request.Context(), c.Param("bookTitle"), params)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondList(c, res)
}

// GET /api/solutions/:id
func (h *SolutionHandler) Get(c *gin.Context) {
	sol, err := h.solutions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, sol)
}

// POST /api/solutions/:id/like
func (h *SolutionHandler) Like(c *gin.Context) {
	sol, err := h.solutions.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, sol)
}

// POST /api/solutions
func (h *SolutionHandler) Create(c *gin.Context) {
	var in services.CreateSolutionInput
	var upload *catalog.FileDescriptor
	if isMultipart(c) {
		var err error
		if err = parseMultipart(c, h.uploads.MaxBytes()); err != nil {
			response.RespondError(c, err)
			return
		}
		if in, err = createInputFromForm(c); err != nil {
			response.RespondError(c, err)
			return
		}
		if upload, err = h.storeFormImage(c); err != nil {
			response.RespondError(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, apierr.Validation("invalid_body", "request body must be valid JSON"))
		return
	}

	sol, err := h.solutions.Create(c.Request.Context(), in, upload)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, sol)
}

// PUT /api/solutions/:id
func (h *SolutionHandler) Update(c *gin.Context) {
	var in services.UpdateSolutionInput
	var upload *catalog.FileDescriptor
	if isMultipart(c) {
		var err error
		if err = parseMultipart(c, h.uploads.MaxBytes()); err != nil {
			response.RespondError(c, err)
			return
		}
		if in, err = updateInputFromForm(c); err != nil {
			response.RespondError(c, err)
			return
		}
		if upload, err = h.storeFormImage(c); err != nil {
			response.RespondError(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, apierr.Validation("invalid_body", "request body must be valid JSON"))
		return
	}

	sol, err := h.solutions.Update(c.Request.Context(), c.Param("id"), in, upload)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, sol)
}

// DELETE /api/solutions/:id
func (h *SolutionHandler) Delete(c *gin.Context) {
	if err := h.solutions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondMessage(c, "solution deleted")
}

// storeFormImage stores the image of an already parsed form, if one was
// sent.
func (h *SolutionHandler) storeFormImage(c *gin.Context) (*catalog.FileDescriptor, error) {
	fh, err := formImage(c)
	if err != nil || fh == nil {
		return nil, err
	}
	return h.uploads.StoreImage(c.Request.Context(), fh)
}
