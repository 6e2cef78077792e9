package handler

import (
	"net/http"
	"strconv"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/apierror"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/middleware"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleHandler serves the sale recording and history endpoints.
type SaleHandler struct {
	svc service.SaleService
}

func NewSaleHandler(svc service.SaleService) *SaleHandler {
	return &SaleHandler{svc: svc}
}

// Record godoc
// @Summary      Record a sale
// @Description  Records a completed sale, deducts product stock and attributes the sale to a register (required for till and delivery channels, forbidden for digital-menu).
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body dto.RecordSaleRequest true "Sale payload"
// @Success      201 {object} dto.SaleResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/sales [post]
func (h *SaleHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	operatorID, err := uuid.Parse(middleware.GetClaims(c).OperatorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid operator id in token"))
		return
	}

	resp, svcErr := h.svc.Record(c.Request.Context(), operatorID, req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Void godoc
// @Summary      Void a sale
// @Description  Marks a completed sale as voided and restores product stock. Voided sales are excluded from register summaries and closings.
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID"
// @Param        reason query string false "Reason for the void"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/sales/{id} [delete]
func (h *SaleHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale id"))
		return
	}

	if err := h.svc.Void(c.Request.Context(), id, c.Query("reason")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        status query string false "completed | voided" default(completed)
// @Param        date query string false "YYYY-MM-DD"
// @Param        register_id query string false "Register ID"
// @Param        page query int false "Page (default 1)"
// @Param        limit query int false "Page size (default 50)"
// @Success      200 {object} dto.SaleListResponse
// @Failure      400 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	filter := dto.SaleFilter{
		Status: c.Query("status"),
		Date:   c.Query("date"),
	}

	if raw := c.Query("register_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid register_id"))
			return
		}
		filter.RegisterID = &id
	}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, apierror.New("page must be a positive integer"))
			return
		}
		filter.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, apierror.New("limit must be a positive integer"))
			return
		}
		filter.Limit = n
	}

	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
