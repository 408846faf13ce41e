package validator

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Ошибки валидации называют поля их именами из API, а не именами в Go
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("viewbox", validateViewbox)
	_ = validate.RegisterValidation("osm_ids", validateOSMIds)
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// validateViewbox проверяет формат viewbox: ровно четыре числа через запятую,
// например "-0.5103,51.2868,0.3340,51.6923"
func validateViewbox(fl validator.FieldLevel) bool {
	parts := strings.Split(fl.Field().String(), ",")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if _, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return false
		}
	}
	return true
}

// validateOSMIds проверяет формат osm_ids: список идентификаторов OSM
// через запятую, каждый вида N123, W456 или R789
func validateOSMIds(fl validator.FieldLevel) bool {
	parts := strings.Split(fl.Field().String(), ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) < 2 {
			return false
		}
		if p[0] != 'N' && p[0] != 'W' && p[0] != 'R' {
			return false
		}
		if _, err := strconv.ParseUint(p[1:], 10, 64); err != nil {
			return false
		}
	}
	return true
}
