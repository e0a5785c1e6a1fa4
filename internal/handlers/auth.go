// internal/handlers/auth.go
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/storefront-backend/internal/i18n"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/services"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

type AuthHandler struct {
	accounts Authenticator
	tokens   *utils.TokenManager
}

func NewAuthHandler(accounts Authenticator, tokens *utils.TokenManager) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		tokens:   tokens,
	}
}

// GET /get_user_details/?username=&password=
func (h *AuthHandler) GetUserDetails(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	user, err := h.accounts.Authenticate(c.Request.Context(), c.Query("username"), c.Query("password"))
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Generate(user.IDNumber, user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMessage(c, gin.H{
		"user":         services.NewUserView(user),
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int64(h.tokens.TTL().Seconds()),
	}, i18n.T(lang, i18n.KeyAuthLoginSuccess))
}
