// internal/handlers/user.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/storefront-backend/internal/i18n"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/services"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type AccountManager interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, idNumber string) (*models.User, error)
	CreateUser(ctx context.Context, req *services.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, idNumber string, req *services.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, idNumber string) error
}

type UserHandler struct {
	accounts AccountManager
}

func NewUserHandler(accounts AccountManager) *UserHandler {
	return &UserHandler{
		accounts: accounts,
	}
}

// GET /me
func (h *UserHandler) GetProfile(c *gin.Context) {
	idNumber, exists := utils.GetIDNumberFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.accounts.GetUser(c.Request.Context(), idNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, services.NewUserView(user))
}

// GET /admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.accounts.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, services.NewUserViews(users))
}

// GET /admin/users/:id_number
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.accounts.GetUser(c.Request.Context(), c.Param("id_number"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, services.NewUserView(user))
}

// POST /admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, services.NewUserView(user), i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated, "User"))
}

// PUT /admin/users/:id_number
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req services.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.UpdateUser(c.Request.Context(), c.Param("id_number"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, services.NewUserView(user), i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated, "User"))
}

// DELETE /admin/users/:id_number
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.accounts.DeleteUser(c.Request.Context(), c.Param("id_number")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
