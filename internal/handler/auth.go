package handler

import (
	"net/http"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, token refresh and operator management.
type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login godoc
// @Summary      Operator login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      200 {object} dto.LoginResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh token"
// @Success      200 {object} dto.LoginResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateOperator godoc
// @Summary      Create an operator account
// @Tags         operators
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateOperatorRequest true "Operator"
// @Success      201 {object} dto.OperatorResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/operators [post]
func (h *AuthHandler) CreateOperator(c *gin.Context) {
	var req dto.CreateOperatorRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.CreateOperator(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOperators godoc
// @Summary      List operator accounts
// @Tags         operators
// @Produce      json
// @Success      200 {array} dto.OperatorResponse
// @Security     BearerAuth
// @Router       /v1/operators [get]
func (h *AuthHandler) ListOperators(c *gin.Context) {
	resp, err := h.svc.ListOperators(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
