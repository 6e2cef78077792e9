package handler

import (
	"net/http"
	"strconv"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/apierror"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/dto"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClosingHandler serves the closing history endpoints.
type ClosingHandler struct {
	svc service.ClosingService
}

func NewClosingHandler(svc service.ClosingService) *ClosingHandler {
	return &ClosingHandler{svc: svc}
}

// List godoc
// @Summary      List archived closings
// @Description  Returns closings ordered by closed_at descending. Filter by a date preset (today, yesterday, this-week, this-month, all) and optionally by register name.
// @Tags         closings
// @Produce      json
// @Param        date_filter query string false "today | yesterday | this-week | this-month | all" default(all)
// @Param        register query string false "Register name (till-1, till-2, delivery)"
// @Param        limit query int false "Max results (default 50, cap 200)"
// @Success      200 {array} dto.ClosingResponse
// @Failure      400 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/closings [get]
func (h *ClosingHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, apierror.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	resp, err := h.svc.List(c.Request.Context(), c.DefaultQuery("date_filter", dto.DateFilterAll), c.Query("register"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateNotes godoc
// @Summary      Update the notes of a closing
// @Description  Notes are the only mutable field of an archived closing.
// @Tags         closings
// @Accept       json
// @Produce      json
// @Param        id path string true "Closing ID"
// @Param        request body dto.UpdateClosingNotesRequest true "New notes"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/closings/{id}/notes [patch]
func (h *ClosingHandler) UpdateNotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid closing id"))
		return
	}

	var req dto.UpdateClosingNotesRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.svc.UpdateNotes(c.Request.Context(), id, req.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete godoc
// @Summary      Delete a closing and its per-method details
// @Tags         closings
// @Produce      json
// @Param        id path string true "Closing ID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Security     BearerAuth
// @Router       /v1/closings/{id} [delete]
func (h *ClosingHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid closing id"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
