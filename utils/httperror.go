package utils

import "net/http"

// FieldError mô tả lỗi cho từng trường khi validate input.
type FieldError struct {
	FieldName string `json:"fieldname"`
	Message   string `json:"message"`
}

// HTTPError là lỗi nghiệp vụ mang sẵn status và flag để boundary map thẳng
// vào envelope trả về. Lỗi không mong muốn (DB, broker...) không dùng type
// này mà được log và trả về 500 chung chung.
type HTTPError struct {
	Code    int          `json:"status_code"`
	Flag    string       `json:"flag"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewNotFound(message string) *HTTPError {
	return &HTTPError{Code: http.StatusNotFound, Flag: "NOT_FOUND", Message: message}
}

func NewInvalidOperation(message string) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Flag: "INVALID_OPERATION", Message: message}
}

func NewUnauthorized(message string) *HTTPError {
	return &HTTPError{Code: http.StatusForbidden, Flag: "UNAUTHORIZED", Message: message}
}

func NewValidationFailed(message string, fields []FieldError) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Flag: "VALIDATION_FAILED", Message: message, Fields: fields}
}
