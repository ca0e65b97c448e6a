package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/travo-app/travo-server/internal/models"
	"github.com/travo-app/travo-server/internal/repositories"
)

// DeviceHandler manages FCM device token registrations
type DeviceHandler struct {
	deviceRepository repositories.DeviceTokenRepository
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(deviceRepo repositories.DeviceTokenRepository) *DeviceHandler {
	return &DeviceHandler{deviceRepository: deviceRepo}
}

// RegisterDeviceRoutes registers device token routes
func (h *DeviceHandler) RegisterDeviceRoutes(g *echo.Group) {
	g.POST("/devices", h.RegisterDevice)
	g.DELETE("/devices/:token", h.UnregisterDevice)
}

// RegisterDevice binds an FCM token to the caller. Re-registering an existing
// token moves it to the caller, so shared devices follow whoever signed in
// last.
func (h *DeviceHandler) RegisterDevice(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token := &models.DeviceToken{
		UserID:   currentUserID,
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := h.deviceRepository.RegisterToken(token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, token)
}

// UnregisterDevice removes a token, typically on sign-out
func (h *DeviceHandler) UnregisterDevice(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.deviceRepository.DeleteToken(c.Param("token")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
