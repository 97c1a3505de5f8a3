package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/campus-admin-api/internal/middleware"
	"github.com/campuskit/campus-admin-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// pageQuery reads page and limit query params, leaving normalisation to the
// service layer.
func pageQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}
