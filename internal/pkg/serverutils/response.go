package serverutils

import "time"

type SuccessResponseBody[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) SuccessResponseBody[T] {
	return SuccessResponseBody[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

type ErrorResponseBody struct {
	Success   bool      `json:"success"`
	Code      int       `json:"code"`
	Error     string    `json:"error"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func ErrorResponse(code int, message string) ErrorResponseBody {
	return ErrorResponseBody{
		Code:      code,
		Error:     message,
		Timestamp: time.Now().UTC(),
	}
}

func ErrorResponseWithDetail(code int, message, detail string) ErrorResponseBody {
	body := ErrorResponse(code, message)
	body.Detail = detail
	return body
}
