package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/inventory-admin-api/internal/middleware"
	"github.com/noah-isme/inventory-admin-api/internal/models"
	appErrors "github.com/noah-isme/inventory-admin-api/pkg/errors"
)

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

func requestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// bindError reports a payload that could not be decoded.
func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, message)
}
