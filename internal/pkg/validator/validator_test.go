package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type withViewbox struct {
	Viewbox string `json:"viewbox" validate:"omitempty,viewbox"`
}

type withOSMIds struct {
	OSMIds string `json:"osm_ids" validate:"required,osm_ids"`
}

func TestValidateViewbox(t *testing.T) {
	tests := []struct {
		name    string
		viewbox string
		valid   bool
	}{
		{name: "four floats", viewbox: "-0.5103,51.2868,0.3340,51.6923", valid: true},
		{name: "spaces after commas", viewbox: "-0.5103, 51.2868, 0.3340, 51.6923", valid: true},
		{name: "integers", viewbox: "1,2,3,4", valid: true},
		{name: "empty string skipped", viewbox: "", valid: true},
		{name: "three values", viewbox: "1,2,3", valid: false},
		{name: "five values", viewbox: "1,2,3,4,5", valid: false},
		{name: "not numbers", viewbox: "a,b,c,d", valid: false},
		{name: "trailing comma", viewbox: "1,2,3,", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(withViewbox{Viewbox: tt.viewbox})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateOSMIds(t *testing.T) {
	tests := []struct {
		name   string
		osmIds string
		valid  bool
	}{
		{name: "single relation", osmIds: "R146656", valid: true},
		{name: "mixed types", osmIds: "N123,W456,R789", valid: true},
		{name: "spaces after commas", osmIds: "N123, W456", valid: true},
		{name: "no type prefix", osmIds: "146656", valid: false},
		{name: "lowercase prefix", osmIds: "r146656", valid: false},
		{name: "prefix without id", osmIds: "R", valid: false},
		{name: "negative id", osmIds: "N-5", valid: false},
		{name: "empty element", osmIds: "R123,,W456", valid: false},
		{name: "empty string", osmIds: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(withOSMIds{OSMIds: tt.osmIds})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFieldNamesFromJSONTags(t *testing.T) {
	err := Validate(withViewbox{Viewbox: "1,2,3"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "viewbox", verrs[0].Field())
	assert.Equal(t, "viewbox", verrs[0].Tag())
}

func TestGetValidator(t *testing.T) {
	assert.NotNil(t, GetValidator())
}
