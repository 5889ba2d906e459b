package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/inventory-admin-api/internal/models"
	appErrors "github.com/noah-isme/inventory-admin-api/pkg/errors"
	"github.com/noah-isme/inventory-admin-api/pkg/response"
)

// RoleChecker admits users whose role belongs to a fixed set.
type RoleChecker struct {
	allowed map[int]struct{}
}

// NewRoleChecker builds a checker for the given role ids.
func NewRoleChecker(roles ...int) RoleChecker {
	allowed := make(map[int]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return RoleChecker{allowed: allowed}
}

var (
	// AllowAdmin admits super administrators and administrators.
	AllowAdmin = NewRoleChecker(models.RoleSuperAdmin, models.RoleAdmin)
	// AllowSuperAdmin admits super administrators only.
	AllowSuperAdmin = NewRoleChecker(models.RoleSuperAdmin)
)

// Check returns ErrForbidden unless user holds an allowed role.
func (r RoleChecker) Check(user *models.User) error {
	if user == nil {
		return appErrors.ErrNotAuthenticated
	}
	if _, ok := r.allowed[user.RoleID]; !ok {
		return appErrors.ErrForbidden
	}
	return nil
}

// Middleware enforces Check against the authenticated user.
func (r RoleChecker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := r.Check(CurrentUser(c)); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}
