package response

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"anoa.com/collegeattendance/pkg/apperror"
	"anoa.com/collegeattendance/pkg/ratelimiter"
	"anoa.com/collegeattendance/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		zap.L().Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(code, gin.H{"error": http.StatusText(code)})
		return
	}

	var rle *ratelimiter.RateLimitError
	if errors.As(err, &rle) && rle.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rle.RetryAfter.Seconds()))))
	}

	body := gin.H{"error": err.Error()}
	var verr *apperror.ValidationError
	if errors.As(err, &verr) && verr.HasErrors() {
		body["fields"] = verr.Fields
	}
	c.JSON(code, body)
}

// BindError reports a failed ShouldBind* call as a 400 with field messages.
func BindError(c *gin.Context, err error) {
	ResponseError(c, validator.ToValidationError(err))
}
