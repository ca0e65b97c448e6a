package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/travo-app/travo-server/internal/models"
	"github.com/travo-app/travo-server/internal/repositories"
)

// GuideHandler handles HTTP requests related to destination guides
type GuideHandler struct {
	guideRepository repositories.GuideRepository
}

// NewGuideHandler creates a new GuideHandler
func NewGuideHandler(guideRepo repositories.GuideRepository) *GuideHandler {
	return &GuideHandler{guideRepository: guideRepo}
}

// RegisterGuideRoutes registers guide-related routes
func (h *GuideHandler) RegisterGuideRoutes(g *echo.Group) {
	g.POST("/guides", h.CreateGuide)
	g.GET("/guides", h.GetGuides)
	g.GET("/guides/:id", h.GetGuide)
	g.PUT("/guides/:id", h.UpdateGuide)
	g.DELETE("/guides/:id", h.DeleteGuide)
}

// CreateGuide creates a new destination guide
func (h *GuideHandler) CreateGuide(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateGuideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	guide := &models.Guide{
		AuthorID:      currentUserID,
		Title:         req.Title,
		Destination:   req.Destination,
		Body:          req.Body,
		CoverImageURL: req.CoverImageURL,
	}
	if err := h.guideRepository.CreateGuide(c.Request().Context(), guide); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, guide)
}

// GetGuides lists guides, optionally filtered by destination
func (h *GuideHandler) GetGuides(c echo.Context) error {
	skip, limit := paginationParams(c)

	var (
		guides []models.Guide
		err    error
	)
	if destination := c.QueryParam("destination"); destination != "" {
		guides, err = h.guideRepository.GetGuidesByDestination(c.Request().Context(), destination, skip, limit)
	} else {
		guides, err = h.guideRepository.GetAllGuides(c.Request().Context(), skip, limit)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"guides": guides})
}

// GetGuide retrieves a single guide by ID
func (h *GuideHandler) GetGuide(c echo.Context) error {
	guide, err := h.guideRepository.GetGuideByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Guide not found")
	}

	return c.JSON(http.StatusOK, guide)
}

// UpdateGuide updates a guide owned by the caller
func (h *GuideHandler) UpdateGuide(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	guideID := c.Param("id")

	var req models.UpdateGuideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	guide, err := h.guideRepository.GetGuideByID(c.Request().Context(), guideID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Guide not found")
	}

	if guide.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this guide")
	}

	if req.Title != "" {
		guide.Title = req.Title
	}
	if req.Destination != "" {
		guide.Destination = req.Destination
	}
	if req.Body != "" {
		guide.Body = req.Body
	}
	if req.CoverImageURL != "" {
		guide.CoverImageURL = req.CoverImageURL
	}

	if err := h.guideRepository.UpdateGuide(c.Request().Context(), guideID, guide); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, guide)
}

// DeleteGuide deletes a guide owned by the caller
func (h *GuideHandler) DeleteGuide(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	guideID := c.Param("id")

	guide, err := h.guideRepository.GetGuideByID(c.Request().Context(), guideID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Guide not found")
	}

	if guide.AuthorID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this guide")
	}

	if err := h.guideRepository.DeleteGuide(c.Request().Context(), guideID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
