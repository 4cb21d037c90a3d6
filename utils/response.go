package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var statusFlags = map[int]string{
	http.StatusOK:                  "SUCCESS",
	http.StatusCreated:             "CREATED",
	http.StatusBadRequest:          "BAD_REQUEST",
	http.StatusUnauthorized:        "UNAUTHENTICATED",
	http.StatusForbidden:           "UNAUTHORIZED",
	http.StatusNotFound:            "NOT_FOUND",
	http.StatusInternalServerError: "INTERNAL_SERVER_ERROR",
}

// SendResponse trả envelope thống nhất {status_code, flag, message, data}.
func SendResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, gin.H{
		"status_code": code,
		"flag":        statusFlags[code],
		"message":     message,
		"data":        data,
	})
}

// SendError map lỗi nghiệp vụ vào envelope; lỗi không xác định được log đầy
// đủ phía server và chỉ trả về thông báo chung, không lộ chi tiết nội bộ.
func SendError(c *gin.Context, err error) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		var data interface{}
		if len(httpErr.Fields) > 0 {
			data = httpErr.Fields
		}
		c.JSON(httpErr.Code, gin.H{
			"status_code": httpErr.Code,
			"flag":        httpErr.Flag,
			"message":     httpErr.Message,
			"data":        data,
		})
		return
	}

	log.Println("Lỗi không xác định:", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"status_code": http.StatusInternalServerError,
		"flag":        statusFlags[http.StatusInternalServerError],
		"message":     "Internal server error",
		"data":        nil,
	})
}
