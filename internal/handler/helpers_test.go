package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respondTo(err error) int {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	respondError(c, err)
	return rec.Code
}

// Validation maps to 422, matching the field-level binding errors, so clients
// see one status for "your input is wrong" regardless of which layer caught it.
func TestRespondErrorStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, respondTo(apperr.Validation("bad input")))
	assert.Equal(t, http.StatusNotFound, respondTo(apperr.NotFound("no such register")))
	assert.Equal(t, http.StatusConflict, respondTo(apperr.Conflict("already closed")))
	assert.Equal(t, http.StatusServiceUnavailable, respondTo(apperr.Persistence(errors.New("conn reset"), "storage down")))
	// Anything untyped is treated as a storage fault, never leaked verbatim.
	assert.Equal(t, http.StatusServiceUnavailable, respondTo(errors.New("driver: bad connection")))
}
