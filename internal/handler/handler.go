package handler

import (
	"errors"
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// actorFromContext rebuilds the service Actor from the claims stored by the
// auth middleware.
func actorFromContext(c *gin.Context) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Get("userID"); ok {
		actor.UID, _ = v.(string)
	}
	if v, ok := c.Get("userEmail"); ok {
		actor.Email, _ = v.(string)
	}
	if v, ok := c.Get("userRole"); ok {
		actor.Role, _ = v.(string)
	}
	if v, ok := c.Get("barangayID"); ok {
		if s, ok := v.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				actor.BarangayID = id
			}
		}
	}
	return actor
}

// respondError maps service errors onto the portal's error taxonomy:
// authorization → 403, not-found → 404, anything else the caller sent us →
// 400. Store failures surface through the 500 paths on list endpoints.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}
