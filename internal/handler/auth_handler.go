package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/r-yvan/healify/internal/auth"
	"github.com/r-yvan/healify/internal/model"
)

const refreshTTL = 7 * 24 * time.Hour

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Specialization string `json:"specialization"`
	Location       string `json:"location"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password required")
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "password too short")
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be PATIENT or DOCTOR")
	}
	if role == model.RoleDoctor && (req.Specialization == "" || req.Location == "") {
		return echo.NewHTTPError(http.StatusBadRequest, "doctors require specialization and location")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return h.domainError(err)
	}

	u := &model.User{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           role,
		Specialization: req.Specialization,
		Location:       req.Location,
	}
	if err := h.store.CreateUser(c.Request().Context(), u); err != nil {
		return h.domainError(err)
	}

	h.log.Info().Str("user", u.ID).Str("role", string(u.Role)).Msg("registered")
	return h.issueSession(c, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	// same response for unknown email and wrong password
	u, err := h.store.UserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return h.domainError(model.ErrBadCreds)
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return h.domainError(model.ErrBadCreds)
	}

	return h.issueSession(c, http.StatusOK, u)
}

// issueSession returns {token, user} and sets the httponly refresh cookie.
func (h *Handler) issueSession(c echo.Context, code int, u *model.User) error {
	tok, err := auth.MakeToken(u, h.secret)
	if err != nil {
		return h.domainError(err)
	}

	rawRefresh, tokenHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return h.domainError(err)
	}
	if _, err := h.store.CreateRefreshToken(c.Request().Context(), u.ID, tokenHash, time.Now().Add(refreshTTL)); err != nil {
		return h.domainError(err)
	}
	c.SetCookie(&http.Cookie{
		Name:     "refresh_token",
		Value:    rawRefresh,
		Path:     "/auth",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(refreshTTL),
	})

	return c.JSON(code, authResponse{Token: tok, User: u})
}

func (h *Handler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no refresh token")
	}

	ctx := c.Request().Context()
	rt, err := h.store.RefreshTokenByHash(ctx, auth.HashRefreshToken(cookie.Value))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	u, err := h.store.UserByID(ctx, rt.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	rawNew, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return h.domainError(err)
	}
	newID := uuid.New().String()
	if err := h.store.RotateRefreshToken(ctx, rt.ID, newID, u.ID, newHash, time.Now().Add(refreshTTL)); err != nil {
		return h.domainError(err)
	}

	tok, err := auth.MakeToken(u, h.secret)
	if err != nil {
		return h.domainError(err)
	}
	c.SetCookie(&http.Cookie{
		Name:     "refresh_token",
		Value:    rawNew,
		Path:     "/auth",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(refreshTTL),
	})
	return c.JSON(http.StatusOK, authResponse{Token: tok, User: u})
}

func (h *Handler) Logout(c echo.Context) error {
	cookie, err := c.Cookie("refresh_token")
	if err == nil && cookie.Value != "" {
		if rt, err := h.store.RefreshTokenByHash(c.Request().Context(), auth.HashRefreshToken(cookie.Value)); err == nil {
			_ = h.store.RevokeAllRefreshTokens(c.Request().Context(), rt.UserID)
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return c.NoContent(http.StatusNoContent)
}
