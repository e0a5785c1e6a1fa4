// internal/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-backend/internal/i18n"
	"github.com/javajoker/storefront-backend/internal/services"
	"github.com/javajoker/storefront-backend/internal/utils"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope for err. Messages of known codes are
// translated; unexpected errors are logged and never echoed to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	lang := utils.GetLangFromContext(c)

	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		c.Error(err)
		utils.ErrorResponse(c, status, "INTERNAL_ERROR", i18n.T(lang, i18n.KeyInternalError), nil)
		return
	}

	if status >= http.StatusInternalServerError {
		c.Error(err)
		logrus.WithError(err).WithField("code", svcErr.Code).Error("Service failure")
	}

	message := svcErr.Message
	if translated, ok := i18n.Lookup(lang, i18n.ErrorKey(svcErr.Code)); ok {
		message = translated
	}
	utils.ErrorResponse(c, status, svcErr.Code, message, svcErr.Details)
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "JSON body"), err.Error())
		return false
	}
	return true
}

func uuidParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyInvalidID, resource), nil)
		return uuid.Nil, false
	}
	return id, true
}

func uintParam(c *gin.Context, name, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyInvalidID, resource), nil)
		return 0, false
	}
	return uint(id), true
}
