package handler

import (
	"net/http"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/apierror"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/middleware"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterHandler exposes the cash register lifecycle endpoints.
type RegisterHandler struct {
	svc service.RegisterService
}

func NewRegisterHandler(svc service.RegisterService) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

// Open godoc
// @Summary      Open a cash register
// @Description  Opens a named register with an initial cash float. Fails with 409 if the register is already open.
// @Tags         registers
// @Accept       json
// @Produce      json
// @Param        request body dto.OpenRegisterRequest true "Register name and opening balance"
// @Success      201 {object} dto.RegisterResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/registers [post]
func (h *RegisterHandler) Open(c *gin.Context) {
	var req dto.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	operatorID, err := uuid.Parse(middleware.GetClaims(c).OperatorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid operator id in token"))
		return
	}

	resp, svcErr := h.svc.Open(c.Request.Context(), operatorID, req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary      Close a cash register
// @Description  Computes the per-method sales breakdown since opening, archives the closing and flips the register shut. When counted_cash is provided the cash difference against the expected drawer total is recorded.
// @Tags         registers
// @Accept       json
// @Produce      json
// @Param        id path string true "Register ID"
// @Param        request body dto.CloseRegisterRequest true "Counted cash and notes"
// @Success      200 {object} dto.ClosingResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/registers/{id}/close [post]
func (h *RegisterHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid register id"))
		return
	}

	var req dto.CloseRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	closedBy, err := uuid.Parse(middleware.GetClaims(c).OperatorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid operator id in token"))
		return
	}

	resp, svcErr := h.svc.Close(c.Request.Context(), id, closedBy, req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summary godoc
// @Summary      Live sales summary for an open register
// @Description  Returns totals grouped by payment method plus the expected cash in the drawer. Cached for a few seconds.
// @Tags         registers
// @Produce      json
// @Param        id path string true "Register ID"
// @Success      200 {object} dto.SalesSummaryResponse
// @Failure      404 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/registers/{id}/summary [get]
func (h *RegisterHandler) Summary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid register id"))
		return
	}

	resp, svcErr := h.svc.Summary(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOpen godoc
// @Summary      List open registers
// @Tags         registers
// @Produce      json
// @Success      200 {array} dto.RegisterResponse
// @Security     BearerAuth
// @Router       /v1/registers/open [get]
func (h *RegisterHandler) ListOpen(c *gin.Context) {
	resp, err := h.svc.ListOpen(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FindOpen godoc
// @Summary      Find the open session for a named register
// @Tags         registers
// @Produce      json
// @Param        name path string true "Register name" Enums(till-1, till-2, delivery)
// @Success      200 {object} dto.RegisterResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/registers/open/{name} [get]
func (h *RegisterHandler) FindOpen(c *gin.Context) {
	resp, err := h.svc.FindOpen(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
