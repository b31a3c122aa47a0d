package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/solutions-catalog/internal/http/response"
	"github.com/yungbote/solutions-catalog/internal/pkg/videolink"
	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
	"github.com/yungbote/solutions-catalog/internal/services"
)

type MetaHandler struct {
	solutions services.SolutionService
}

func NewMetaHandler(solutions services.SolutionService) *MetaHandler {
	return &MetaHandler{solutions: solutions}
}

// GET /api/stats
func (h *MetaHandler) Stats(c *gin.Context) {
	stats, err := h.solutions.Stats(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /api/filters?bookTitle=
func (h *MetaHandler) Filters(c *gin.Context) {
	opts, err := h.solutions.Filters(c.Request.Context(), c.Query("bookTitle"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, opts)
}

// GET /api/video-info?url=&quality=&autoplay=&mute=&controls=&rel=&start=&end=
func (h *MetaHandler) VideoInfo(c *gin.Context) {
	opts, err := embedOptions(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	links, err := h.solutions.VideoInfo(c.Request.Context(), c.Query("url"), c.Query("quality"), opts)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, links)
}

func embedOptions(c *gin.Context) (videolink.EmbedOptions, error) {
	var opts videolink.EmbedOptions
	var err error
	if opts.Autoplay, err = queryBool(c, "autoplay"); err != nil {
		return opts, err
	}
	if opts.Mute, err = queryBool(c, "mute"); err != nil {
		return opts, err
	}
	if opts.Controls, err = queryBool(c, "controls"); err != nil {
		return opts, err
	}
	if opts.ShowRelated, err = queryBool(c, "rel"); err != nil {
		return opts, err
	}
	if opts.StartSeconds, err = querySeconds(c, "start"); err != nil {
		return opts, err
	}
	if opts.EndSeconds, err = querySeconds(c, "end"); err != nil {
		return opts, err
	}
	return opts, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apierr.Validation("invalid_"+key, "%s must be true, false, 1 or 0", key)
	}
	return &v, nil
}

func querySeconds(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, apierr.Validation("invalid_"+key, "%s must be a non-negative number of seconds", key)
	}
	return &v, nil
}
