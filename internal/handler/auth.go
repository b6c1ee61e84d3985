package handler

import (
	"net/http"

	"github.com/sime65123/gym-project/internal/apierror"
	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/middleware"
	"github.com/sime65123/gym-project/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Register godoc
// @Summary Self-service client registration
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 409 {object} apierror.APIError
// @Router /api/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /api/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile returns the authenticated user's account.
func (h *AuthHandler) Profile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Malformed token"))
		return
	}
	resp, err := h.svc.GetUser(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile applies partial profile changes. A password change returns
// fresh tokens in the response body.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Malformed token"))
		return
	}
	var req dto.UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateProfile(c.Request.Context(), uid, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Users (admin) ────────────────────────────────────────────────────────────

type UsersHandler struct{ svc service.AuthService }

func NewUsersHandler(svc service.AuthService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsersHandler) List(c *gin.Context) {
	resp, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivateUser(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
