package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shoe-catalog-service/internal/models"
)

// statusFor maps a classified error onto its HTTP status and code.
// Anything unclassified is an internal error.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, models.CodeValidation
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, models.CodeNotFound
	case errors.Is(err, models.ErrStoreUnavailable):
		return http.StatusInternalServerError, models.CodeStoreUnavailable
	case errors.Is(err, models.ErrUpstream):
		return http.StatusBadGateway, models.CodeUpstream
	}
	return http.StatusInternalServerError, models.CodeInternal
}

// respondError renders err as an ErrorResponse. Store and internal failures
// are logged with their cause and reported with a generic message.
func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	resp := models.ErrorResponse{
		Success: false,
		Error:   err.Error(),
		Code:    code,
		Status:  status,
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}

	switch code {
	case models.CodeStoreUnavailable:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Catalog store unavailable")
		resp.Error = "Catalog store is unavailable"
	case models.CodeInternal:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled error")
		resp.Error = "Internal server error"
	}

	c.JSON(status, resp)
}

// respondBadRequest reports a malformed request body or query
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error:   message,
		Code:    models.CodeValidation,
		Status:  http.StatusBadRequest,
	})
}

// parseID reads a UUID path parameter, writing a 400 response when malformed
func parseID(c *gin.Context, param, kind string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   "Invalid " + kind + " ID format",
			Code:    models.CodeInvalidID,
			Status:  http.StatusBadRequest,
		})
		return uuid.Nil, false
	}
	return id, true
}

// actorID returns the authenticated user set by the session middleware
func actorID(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func stringPtr(s string) *string {
	return &s
}
