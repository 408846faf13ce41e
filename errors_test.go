package nominatim

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name:     "no field details",
			err:      &ValidationError{},
			expected: "invalid search params",
		},
		{
			name: "single field",
			err: &ValidationError{Fields: []FieldError{
				{Field: "limit", Constraint: "max", Message: "limit must be at most 40"},
			}},
			expected: "invalid search params: limit must be at most 40",
		},
		{
			name: "multiple fields",
			err: &ValidationError{Fields: []FieldError{
				{Field: "limit", Message: "limit must be at least 1"},
				{Field: "format", Message: "format must be one of: xml, json, jsonv2, geojson, geocodejson"},
			}},
			expected: "invalid search params: limit must be at least 1; format must be one of: xml, json, jsonv2, geojson, geocodejson",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestHTTPError_Error(t *testing.T) {
	t.Run("with body", func(t *testing.T) {
		err := &HTTPError{
			StatusCode: http.StatusBadRequest,
			Status:     "400 Bad Request",
			URL:        "https://nominatim.openstreetmap.org/search?q=x",
			Body:       "Parameter 'q' is invalid",
		}
		assert.Equal(t,
			"nominatim API error: status 400, url: https://nominatim.openstreetmap.org/search?q=x, body: Parameter 'q' is invalid",
			err.Error(),
		)
	})

	t.Run("without body", func(t *testing.T) {
		err := &HTTPError{
			StatusCode: http.StatusBadGateway,
			URL:        "https://nominatim.openstreetmap.org/search",
		}
		assert.Equal(t,
			"nominatim API error: status 502, url: https://nominatim.openstreetmap.org/search",
			err.Error(),
		)
	})
}

func TestHTTPError_Temporary(t *testing.T) {
	tests := []struct {
		statusCode int
		temporary  bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.statusCode), func(t *testing.T) {
			err := &HTTPError{StatusCode: tt.statusCode}
			assert.Equal(t, tt.temporary, err.Temporary())
		})
	}
}

func TestParseError(t *testing.T) {
	t.Run("item index in message", func(t *testing.T) {
		err := &ParseError{Index: 3, Err: errors.New("missing required field \"lat\"")}
		assert.Equal(t, `failed to parse location at index 3: missing required field "lat"`, err.Error())
	})

	t.Run("whole response", func(t *testing.T) {
		err := &ParseError{Index: -1, Err: errors.New("invalid character '<'")}
		assert.Equal(t, "failed to parse response: invalid character '<'", err.Error())
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := &ParseError{Index: 0, Err: cause}
		assert.ErrorIs(t, err, cause)
	})
}
