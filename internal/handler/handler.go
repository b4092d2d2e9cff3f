package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/r-yvan/healify/internal/middleware"
	"github.com/r-yvan/healify/internal/model"
	"github.com/r-yvan/healify/internal/store"
)

type Handler struct {
	store  *store.Store
	secret string
	log    zerolog.Logger
}

func New(st *store.Store, secret string, log zerolog.Logger) *Handler {
	return &Handler{store: st, secret: secret, log: log}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, rl *middleware.RateLimiter) {
	authGroup := e.Group("/auth", middleware.RateLimit(rl))
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)
	authGroup.POST("/logout", h.Logout)

	api := e.Group("/api", middleware.Auth(h.secret))

	patient := api.Group("/patient", middleware.RequireRole(model.RolePatient))
	patient.GET("/doctors", h.SearchDoctors)
	patient.POST("/appointments", h.BookAppointment)
	patient.GET("/appointments", h.PatientAppointments)

	doctor := api.Group("/doctor", middleware.RequireRole(model.RoleDoctor))
	doctor.GET("/appointments", h.DoctorAppointments)
	doctor.PATCH("/appointments/:id/respond", h.Respond)
}

// domainError maps domain errors to HTTP in one place. Anything unmapped is
// an internal error and keeps its detail out of the response.
func (h *Handler) domainError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrNotPending):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrEmailTaken):
		// don't confirm which field collided
		return echo.NewHTTPError(http.StatusConflict, "registration failed")
	case errors.Is(err, model.ErrNotADoctor):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrBadCreds):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	default:
		h.log.Error().Err(err).Msg("internal error")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
