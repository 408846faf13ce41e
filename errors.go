package nominatim

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNilQuery возвращается, когда в Search передан nil-запрос
	ErrNilQuery = errors.New("query is nil")

	// ErrNoBoundingBox возвращается при вычислении площади локации без boundingbox
	ErrNoBoundingBox = errors.New("location has no bounding box")

	// ErrLocationNotFound возвращается, когда обратное геокодирование не находит объект
	ErrLocationNotFound = errors.New("location not found")
)

// FieldError - нарушение ограничения одного поля параметров
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint,omitempty"`
	Message    string `json:"message"`
}

// ValidationError - ошибка валидации параметров запроса
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid search params"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "invalid search params: " + strings.Join(msgs, "; ")
}

// HTTPError - ответ API со статусом, отличным от 200 OK
type HTTPError struct {
	StatusCode int         `json:"status_code"`
	Status     string      `json:"status"`
	URL        string      `json:"url"`
	Header     http.Header `json:"-"`
	Body       string      `json:"body,omitempty"`
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("nominatim API error: status %d, url: %s, body: %s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("nominatim API error: status %d, url: %s", e.StatusCode, e.URL)
}

// Temporary сообщает, имеет ли смысл повторять запрос позже.
// Сам клиент запросы не повторяет.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// ParseError - некорректное тело успешного ответа API.
// Index указывает позицию элемента в массиве результатов;
// -1 означает, что не удалось разобрать сам ответ.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("failed to parse response: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse location at index %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
