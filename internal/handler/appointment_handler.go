package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/r-yvan/healify/internal/middleware"
	"github.com/r-yvan/healify/internal/model"
)

func (h *Handler) SearchDoctors(c echo.Context) error {
	doctors, err := h.store.SearchDoctors(c.Request().Context(),
		c.QueryParam("specialization"), c.QueryParam("location"))
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, doctors)
}

type bookRequest struct {
	DoctorID        string    `json:"doctorId"`
	AppointmentTime time.Time `json:"appointmentTime"`
	Location        string    `json:"location"`
}

func (h *Handler) BookAppointment(c echo.Context) error {
	claims := middleware.Identity(c)

	// the token is authoritative; a contradicting patientEmail is rejected
	if email := c.QueryParam("patientEmail"); email != "" && email != claims.Email {
		return echo.NewHTTPError(http.StatusForbidden, "patientEmail does not match authenticated user")
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if req.DoctorID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "doctorId required")
	}
	if req.AppointmentTime.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "appointmentTime required")
	}
	// past-dated times are accepted; only parseability is checked

	ctx := c.Request().Context()
	doctor, err := h.store.UserByID(ctx, req.DoctorID)
	if err != nil {
		return h.domainError(err)
	}
	if doctor.Role != model.RoleDoctor {
		return h.domainError(model.ErrNotADoctor)
	}

	a := &model.Appointment{
		ID:              uuid.New().String(),
		PatientID:       claims.UserID,
		DoctorID:        doctor.ID,
		AppointmentTime: req.AppointmentTime,
		Location:        req.Location,
		Status:          model.StatusPending,
	}
	if err := h.store.CreateAppointment(ctx, a); err != nil {
		return h.domainError(err)
	}

	// re-read through the join so the response carries the name projections
	created, err := h.store.GetAppointment(ctx, a.ID)
	if err != nil {
		return h.domainError(err)
	}

	h.log.Info().Str("appointment", created.ID).Str("doctor", doctor.ID).Msg("booked")
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) PatientAppointments(c echo.Context) error {
	claims := middleware.Identity(c)
	appts, err := h.store.ListAppointmentsForPatient(c.Request().Context(), claims.UserID)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) DoctorAppointments(c echo.Context) error {
	claims := middleware.Identity(c)
	if email := c.QueryParam("email"); email != "" && email != claims.Email {
		return echo.NewHTTPError(http.StatusForbidden, "email does not match authenticated user")
	}
	appts, err := h.store.ListAppointmentsForDoctor(c.Request().Context(), claims.UserID)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, appts)
}

func (h *Handler) Respond(c echo.Context) error {
	claims := middleware.Identity(c)

	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	accept, err := strconv.ParseBool(c.QueryParam("accept"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "accept must be true or false")
	}
	if email := c.QueryParam("doctorEmail"); email != "" && email != claims.Email {
		return echo.NewHTTPError(http.StatusForbidden, "doctorEmail does not match authenticated user")
	}

	next := model.StatusRejected
	if accept {
		next = model.StatusAccepted
	}

	a, err := h.store.RespondAppointment(c.Request().Context(), id, claims.UserID, next)
	if err != nil {
		return h.domainError(err)
	}

	h.log.Info().Str("appointment", a.ID).Str("status", string(a.Status)).Msg("responded")
	return c.JSON(http.StatusOK, a)
}
