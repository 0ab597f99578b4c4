package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus("NOT_FOUND"))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("PAIRED_VARIANT"))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("NOT_PAIRED"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus("ORPHANED_GROUP"))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_AMOUNT"))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2, 3}, 45, 2, 20)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewFieldErrorResponse(t *testing.T) {
	resp := NewFieldErrorResponse("validation failed", "req-1", map[string]string{"amount": "must be positive"})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Equal(t, "must be positive", resp.Error.Fields["amount"])
}
