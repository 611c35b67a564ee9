package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/middleware"
)

// AdminController serves administrator-only views
type AdminController struct {
	authService AuthService
	logger      zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(authService AuthService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		authService: authService,
		logger:      logger,
	}
}

// GetLogins lists the login log
// @Summary List successful logins
// @Description Returns every recorded login, oldest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Security BasicAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.LoginEventResponse} "Login log"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - ADMIN role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/logins [get]
func (c *AdminController) GetLogins(ctx *gin.Context) {
	events, err := c.authService.ListLogins(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	result := make([]dto.LoginEventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, dto.NewLoginEventResponse(event))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
