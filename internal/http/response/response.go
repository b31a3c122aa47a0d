package response

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/solutions-catalog/internal/domain/catalog"
	"github.com/yungbote/solutions-catalog/internal/observability"
	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
)

const genericInternalMessage = "internal server error"

var hideInternal atomic.Bool

// HideInternalErrors replaces 5xx messages with a generic text. Enabled in
// production so store and driver errors never reach clients.
func HideInternalErrors(on bool) { hideInternal.Store(on) }

type Envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Pagination *catalog.PageInfo `json:"pagination,omitempty"`
	Filters    any               `json:"filters,omitempty"`
	Message    string            `json:"message,omitempty"`
	Code       string            `json:"code,omitempty"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: payload})
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: payload})
}

func RespondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

func RespondList(c *gin.Context, res *catalog.ListResult) {
	page := res.Pagination
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Data:       res.Items,
		Pagination: &page,
		Filters:    res.Filters,
	})
}

// RespondError writes the failure envelope for err and attaches err to the
// gin context so the request logger can report it.
func RespondError(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	code := apierr.CodeOf(err)
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	if status >= http.StatusInternalServerError && hideInternal.Load() {
		msg = genericInternalMessage
	}
	observability.Current().IncAPIError(code)
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: msg, Code: code})
}
