package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/inventory-admin-api/internal/dto"
	"github.com/noah-isme/inventory-admin-api/internal/models"
	appErrors "github.com/noah-isme/inventory-admin-api/pkg/errors"
	"github.com/noah-isme/inventory-admin-api/pkg/response"
)

const userDeletedMessage = "Usuario eliminado exitosamente"

type userService interface {
	List(ctx context.Context, actor *models.User, skip, limit int) ([]models.User, int, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, actor *models.User, req dto.CreateUserRequest, meta models.RequestMeta) (*models.User, error)
	Update(ctx context.Context, actor *models.User, id string, req dto.UpdateUserRequest, meta models.RequestMeta) (*models.User, error)
	UpdateMe(ctx context.Context, actor *models.User, req dto.UpdateMeRequest, meta models.RequestMeta) (*models.User, error)
	Delete(ctx context.Context, actor *models.User, id string, meta models.RequestMeta) error
}

// UserHandler manages user administration endpoints.
type UserHandler struct {
	service userService
}

// NewUserHandler constructs a new handler instance.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description Administrators never see super administrators
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Page size (1-1000)" default(100)
// @Success 200 {array} models.User
// @Header 200 {integer} X-Total-Count "Total rows"
// @Failure 403 {object} response.ErrorBody
// @Router /users/ [get]
func (h *UserHandler) List(c *gin.Context) {
	var page dto.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, bindError(err, "invalid pagination parameters"))
		return
	}

	users, total, err := h.service.List(c.Request.Context(), currentUser(c), page.Skip, page.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	response.List(c, users, total)
}

// Get godoc
// @Summary Get user by ID
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// Create godoc
// @Summary Create user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateUserRequest true "User payload"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /users/ [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid user payload"))
		return
	}

	user, err := h.service.Create(c.Request.Context(), currentUser(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// Me godoc
// @Summary Get the authenticated user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		response.Error(c, appErrors.ErrNotAuthenticated)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.UpdateMeRequest true "Profile fields"
// @Success 200 {object} models.User
// @Failure 422 {object} response.ErrorBody
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid profile payload"))
		return
	}

	user, err := h.service.UpdateMe(c.Request.Context(), currentUser(c), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// Update godoc
// @Summary Update user
// @Description Partial update; omitted fields are left untouched
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid user payload"))
		return
	}

	user, err := h.service.Update(c.Request.Context(), currentUser(c), c.Param("id"), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

// Delete godoc
// @Summary Deactivate user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), currentUser(c), c.Param("id"), requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, userDeletedMessage)
}
