package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wayguard/internal/geolocation"
	"wayguard/internal/types"
	"wayguard/internal/unlock"
)

// ErrorResponse represents an error payload
type ErrorResponse struct {
	Error string `json:"error" example:"session not found"`
}

// PositionRequest is the browser's getCurrentPosition outcome. Either Error
// is set, or Latitude and Longitude are.
type PositionRequest struct {
	Latitude  *float64 `json:"latitude" example:"6.9271"`
	Longitude *float64 `json:"longitude" example:"79.8612"`
	Accuracy  float64  `json:"accuracy" example:"12.5"`
	Timestamp int64    `json:"timestamp" example:"1740830400000"` // epoch milliseconds
	Error     string   `json:"error,omitempty" enums:"permission_denied,position_unavailable,timeout,unsupported"`
}

func (r PositionRequest) report() (geolocation.Report, error) {
	if r.Error != "" {
		reason, ok := geolocation.ParseReason(r.Error)
		if !ok {
			return geolocation.Report{}, errors.New("unknown geolocation error: " + r.Error)
		}
		return geolocation.Report{Reason: reason}, nil
	}

	if r.Latitude == nil || r.Longitude == nil {
		return geolocation.Report{}, errors.New("latitude and longitude are required")
	}
	coords, err := types.ParseCoords(*r.Latitude, *r.Longitude)
	if err != nil {
		return geolocation.Report{}, err
	}

	var ts time.Time
	if r.Timestamp > 0 {
		ts = time.UnixMilli(r.Timestamp)
	}
	return geolocation.Report{
		Reading: geolocation.Reading{Coords: coords, Accuracy: r.Accuracy, Timestamp: ts},
	}, nil
}

// handleCreateSession godoc
// @Summary Create an unlock session
// @Description Start a new session in the locked state
// @Tags sessions
// @Produce json
// @Success 201 {object} unlock.View
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/sessions [post]
func (app *App) handleCreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, app.sessions.Create())
}

// handleGetSession godoc
// @Summary Get a session
// @Description Poll the unlock state, place details and overlay map
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} unlock.View
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func (app *App) handleGetSession(c *gin.Context) {
	s, err := app.sessions.Get(c.Param("id"))
	if err != nil {
		app.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// handleActivate godoc
// @Summary Activate location
// @Description Open the overlay and start acquiring the device position. The
// @Description client should now call getCurrentPosition with the returned
// @Description geolocation options and post the outcome to /position.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 202 {object} unlock.View
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/activate [post]
func (app *App) handleActivate(c *gin.Context) {
	v, err := app.sessions.Activate(c.Param("id"))
	if err != nil {
		app.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, v)
}

// handleReportPosition godoc
// @Summary Report device position
// @Description Deliver a geolocation fix, or the geolocation error code, for the pending activation
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param position body PositionRequest true "Geolocation outcome"
// @Success 202 {object} unlock.View
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/position [post]
func (app *App) handleReportPosition(c *gin.Context) {
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	report, err := req.report()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")
	if err := app.sessions.ReportPosition(id, report); err != nil {
		app.writeError(c, err)
		return
	}

	s, err := app.sessions.Get(id)
	if err != nil {
		app.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, s.View())
}

// handleDismiss godoc
// @Summary Dismiss the overlay
// @Description Hide the map overlay; the unlock state is unchanged
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} unlock.View
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/dismiss [post]
func (app *App) handleDismiss(c *gin.Context) {
	s, err := app.sessions.Get(c.Param("id"))
	if err != nil {
		app.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Dismiss())
}

// handleReopenOverlay godoc
// @Summary Reopen the overlay
// @Description Show the map for the already resolved location without acquiring again
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} unlock.View
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/sessions/{id}/overlay [post]
func (app *App) handleReopenOverlay(c *gin.Context) {
	s, err := app.sessions.Get(c.Param("id"))
	if err != nil {
		app.writeError(c, err)
		return
	}
	v, err := s.ReopenOverlay()
	if err != nil {
		app.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// writeError maps domain errors onto HTTP status codes.
func (app *App) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, unlock.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, unlock.ErrLocked), errors.Is(err, geolocation.ErrNotWaiting):
		status = http.StatusConflict
	default:
		app.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
