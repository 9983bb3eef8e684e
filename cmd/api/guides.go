package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayguard/internal/guides"
	"wayguard/internal/place"
)

// handleGetGuides godoc
// @Summary Get safety guides
// @Description Do's and don'ts for the session's unlocked place
// @Tags guides
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} guides.Guide
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/guides [get]
func (app *App) handleGetGuides(c *gin.Context) {
	s, err := app.sessions.Get(c.Param("id"))
	if err != nil {
		app.writeError(c, err)
		return
	}

	guide, err := app.guidesService.GetGuide(c.Request.Context(), s.View())
	if err != nil {
		if errors.Is(err, guides.ErrLocked) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "guide content is unavailable"})
		return
	}

	c.JSON(http.StatusOK, guide)
}

// handleListPlaceTypes godoc
// @Summary List place types
// @Description Icons and display labels for every known place type
// @Tags places
// @Produce json
// @Success 200 {array} place.Category
// @Router /api/v1/place-types [get]
func (app *App) handleListPlaceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, place.Categories())
}
