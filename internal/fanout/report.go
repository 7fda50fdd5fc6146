package fanout

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ValidationError означает, что параметры цели отклонены до отправки запроса.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Invalid создаёт ValidationError для поля.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ErrorBody видит клиент вместо payload упавшей цели.
type ErrorBody struct {
	Error string `json:"error"`
}

type statusCoder interface {
	StatusCode() int
}

// Reason переводит ошибку вызова в короткое сообщение для пользователя.
func Reason(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return "timeout"
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		if text := http.StatusText(code); text != "" {
			return fmt.Sprintf("%d %s", code, text)
		}
		return fmt.Sprintf("HTTP %d", code)
	}

	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return err.Error()
}

// Describe возвращает payload успешного результата или ErrorBody.
func Describe(r Result) any {
	if r.OK() {
		return r.Payload
	}
	return ErrorBody{Error: Reason(r.Err)}
}
