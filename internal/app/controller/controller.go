package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sellio/sellio-backend/internal/app/service"
	"github.com/sellio/sellio-backend/internal/middleware"
)

// currentActor builds the request-scoped identity services authorize
// against. False means the request carries no authenticated user.
func currentActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return service.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role}, true
}

// paginationParams reads limit/offset query parameters with sane bounds.
func paginationParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
