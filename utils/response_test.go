package utils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	fn(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSendResponseEnvelope(t *testing.T) {
	w, body := record(t, func(c *gin.Context) {
		SendResponse(c, 201, "Tạo thành công", gin.H{"id": "abc"})
	})

	assert.Equal(t, 201, w.Code)
	assert.Equal(t, float64(201), body["status_code"])
	assert.Equal(t, "CREATED", body["flag"])
	assert.Equal(t, "Tạo thành công", body["message"])
	assert.Equal(t, "abc", body["data"].(map[string]interface{})["id"])
}

func TestSendErrorMapsHTTPError(t *testing.T) {
	w, body := record(t, func(c *gin.Context) {
		SendError(c, NewNotFound("Không tìm thấy khóa học"))
	})

	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "NOT_FOUND", body["flag"])
	assert.Equal(t, "Không tìm thấy khóa học", body["message"])
}

func TestSendErrorIncludesFieldErrors(t *testing.T) {
	w, body := record(t, func(c *gin.Context) {
		SendError(c, NewValidationFailed("Dữ liệu không hợp lệ", []FieldError{
			{FieldName: "email", Message: "email không hợp lệ"},
		}))
	})

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", body["flag"])
	fields := body["data"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].(map[string]interface{})["fieldname"])
}

func TestSendErrorHidesInternalDetails(t *testing.T) {
	w, body := record(t, func(c *gin.Context) {
		SendError(c, errors.New("pq: connection refused"))
	})

	assert.Equal(t, 500, w.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestSendErrorUnwrapsWrappedHTTPError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewInvalidOperation("Đã ghi danh khóa học này rồi"))
	w, body := record(t, func(c *gin.Context) {
		SendError(c, wrapped)
	})

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "INVALID_OPERATION", body["flag"])
}
