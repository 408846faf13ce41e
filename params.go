package nominatim

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	pkgvalidator "github.com/location-microservice/go-nominatim/internal/pkg/validator"
)

// SearchParams - полный набор параметров запроса /search.
// Необязательные числовые параметры заданы указателями: nil означает
// "не задан" и не попадает в запрос, а установленное значение передается
// всегда, поэтому Dedupe: Int(0) дойдет до сервера как dedupe=0.
// Текстовые параметры с пустым значением в запрос не попадают.
type SearchParams struct {
	// Свободный текстовый запрос. Не сочетается со структурированными полями.
	Q string `json:"q,omitempty" mapstructure:"q"`

	// Структурированный запрос
	Amenity    string `json:"amenity,omitempty" mapstructure:"amenity"`
	Street     string `json:"street,omitempty" mapstructure:"street"`
	City       string `json:"city,omitempty" mapstructure:"city"`
	County     string `json:"county,omitempty" mapstructure:"county"`
	State      string `json:"state,omitempty" mapstructure:"state"`
	Country    string `json:"country,omitempty" mapstructure:"country"`
	Postalcode string `json:"postalcode,omitempty" mapstructure:"postalcode"`

	// Формат ответа. Разбор ответа рассчитан на jsonv2, поэтому при
	// сериализации формат фиксируется независимо от значения поля.
	Format       string `json:"format,omitempty" mapstructure:"format" validate:"omitempty,oneof=xml json jsonv2 geojson geocodejson"`
	JSONCallback string `json:"json_callback,omitempty" mapstructure:"json_callback"`

	// Флаги детализации ответа (0 или 1)
	AddressDetails *int `json:"addressdetails,omitempty" mapstructure:"addressdetails" validate:"omitempty,oneof=0 1"`
	ExtraTags      *int `json:"extratags,omitempty" mapstructure:"extratags" validate:"omitempty,oneof=0 1"`
	NameDetails    *int `json:"namedetails,omitempty" mapstructure:"namedetails" validate:"omitempty,oneof=0 1"`

	// Максимум результатов. Сервер без параметра использует 10.
	Limit *int `json:"limit,omitempty" mapstructure:"limit" validate:"omitempty,min=1,max=40"`

	// Фильтры
	CountryCodes    string `json:"countrycodes,omitempty" mapstructure:"countrycodes"`
	Layer           string `json:"layer,omitempty" mapstructure:"layer"`
	FeatureType     string `json:"featureType,omitempty" mapstructure:"featureType"`
	ExcludePlaceIDs string `json:"exclude_place_ids,omitempty" mapstructure:"exclude_place_ids"`
	Viewbox         string `json:"viewbox,omitempty" mapstructure:"viewbox" validate:"omitempty,viewbox"`
	Bounded         *int   `json:"bounded,omitempty" mapstructure:"bounded" validate:"omitempty,oneof=0 1"`

	// Геометрия результатов
	PolygonGeoJSON   *int     `json:"polygon_geojson,omitempty" mapstructure:"polygon_geojson" validate:"omitempty,oneof=0 1"`
	PolygonKML       *int     `json:"polygon_kml,omitempty" mapstructure:"polygon_kml" validate:"omitempty,oneof=0 1"`
	PolygonSVG       *int     `json:"polygon_svg,omitempty" mapstructure:"polygon_svg" validate:"omitempty,oneof=0 1"`
	PolygonText      *int     `json:"polygon_text,omitempty" mapstructure:"polygon_text" validate:"omitempty,oneof=0 1"`
	PolygonThreshold *float64 `json:"polygon_threshold,omitempty" mapstructure:"polygon_threshold"`

	// Серверная дедупликация (по умолчанию включена) и отладка
	Dedupe *int `json:"dedupe,omitempty" mapstructure:"dedupe" validate:"omitempty,oneof=0 1"`
	Debug  *int `json:"debug,omitempty" mapstructure:"debug" validate:"omitempty,oneof=0 1"`
}

// ReverseParams - параметры обратного геокодирования /reverse
type ReverseParams struct {
	Lat            float64 `json:"lat" mapstructure:"lat" validate:"min=-90,max=90"`
	Lon            float64 `json:"lon" mapstructure:"lon" validate:"min=-180,max=180"`
	Zoom           *int    `json:"zoom,omitempty" mapstructure:"zoom" validate:"omitempty,min=0,max=18"`
	AddressDetails *int    `json:"addressdetails,omitempty" mapstructure:"addressdetails" validate:"omitempty,oneof=0 1"`
}

// LookupParams - параметры запроса /lookup по идентификаторам OSM
type LookupParams struct {
	// Идентификаторы через запятую, каждый вида N123, W456 или R789
	OSMIds         string `json:"osm_ids" mapstructure:"osm_ids" validate:"required,osm_ids"`
	AddressDetails *int   `json:"addressdetails,omitempty" mapstructure:"addressdetails" validate:"omitempty,oneof=0 1"`
	ExtraTags      *int   `json:"extratags,omitempty" mapstructure:"extratags" validate:"omitempty,oneof=0 1"`
	NameDetails    *int   `json:"namedetails,omitempty" mapstructure:"namedetails" validate:"omitempty,oneof=0 1"`
}

// Int возвращает указатель на значение, для литералов параметров
func Int(v int) *int { return &v }

// Float возвращает указатель на значение, для литералов параметров
func Float(v float64) *float64 { return &v }

// Query - запрос для Search в одном из трех видов: свободный текст (Text),
// набор полей (Fields) или готовый *SearchParams.
type Query interface {
	searchParams() (*SearchParams, error)
}

// Text - свободный текстовый запрос
type Text string

func (t Text) searchParams() (*SearchParams, error) {
	return &SearchParams{Q: string(t)}, nil
}

// Fields - параметры запроса в виде отображения "имя параметра API - значение".
// Имена совпадают с проводными: q, city, limit, dedupe, exclude_place_ids и
// так далее. Числовые значения принимаются также строками и булевыми.
type Fields map[string]interface{}

func (f Fields) searchParams() (*SearchParams, error) {
	params := &SearchParams{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           params,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fields decoder: %w", err)
	}
	if err := decoder.Decode(map[string]interface{}(f)); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{
			Message: err.Error(),
		}}}
	}
	return params, nil
}

func (p *SearchParams) searchParams() (*SearchParams, error) {
	if p == nil {
		return nil, ErrNilQuery
	}
	return p, nil
}

// Validate проверяет параметры поиска
func (p *SearchParams) Validate() error {
	return validateStruct(p)
}

// Validate проверяет параметры обратного геокодирования
func (p *ReverseParams) Validate() error {
	return validateStruct(p)
}

// Validate проверяет параметры /lookup
func (p *LookupParams) Validate() error {
	return validateStruct(p)
}

// validateStruct превращает ошибки валидатора в *ValidationError
// с сообщением по каждому нарушенному полю
func validateStruct(s interface{}) error {
	err := pkgvalidator.Validate(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:      fe.Field(),
			Constraint: fe.Tag(),
			Message:    fieldMessage(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "viewbox":
		return fmt.Sprintf("%s must contain exactly four comma-separated numbers", fe.Field())
	case "osm_ids":
		return fmt.Sprintf("%s must be a comma-separated list of ids like N123,W456,R789", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Values формирует query-параметры запроса /search. Передаются только
// явно заданные непустые поля; format всегда принудительно jsonv2.
func (p *SearchParams) Values() url.Values {
	v := url.Values{}

	setParam(v, "q", p.Q)
	setParam(v, "amenity", p.Amenity)
	setParam(v, "street", p.Street)
	setParam(v, "city", p.City)
	setParam(v, "county", p.County)
	setParam(v, "state", p.State)
	setParam(v, "country", p.Country)
	setParam(v, "postalcode", p.Postalcode)
	setParam(v, "json_callback", p.JSONCallback)

	setIntParam(v, "addressdetails", p.AddressDetails)
	setIntParam(v, "extratags", p.ExtraTags)
	setIntParam(v, "namedetails", p.NameDetails)
	setIntParam(v, "limit", p.Limit)

	setParam(v, "countrycodes", p.CountryCodes)
	setParam(v, "layer", p.Layer)
	setParam(v, "featureType", p.FeatureType)
	setParam(v, "exclude_place_ids", p.ExcludePlaceIDs)
	setParam(v, "viewbox", p.Viewbox)
	setIntParam(v, "bounded", p.Bounded)

	setIntParam(v, "polygon_geojson", p.PolygonGeoJSON)
	setIntParam(v, "polygon_kml", p.PolygonKML)
	setIntParam(v, "polygon_svg", p.PolygonSVG)
	setIntParam(v, "polygon_text", p.PolygonText)
	if p.PolygonThreshold != nil {
		v.Set("polygon_threshold", strconv.FormatFloat(*p.PolygonThreshold, 'f', -1, 64))
	}

	setIntParam(v, "dedupe", p.Dedupe)
	setIntParam(v, "debug", p.Debug)

	v.Set("format", "jsonv2")
	return v
}

// Values формирует query-параметры запроса /reverse
func (p *ReverseParams) Values() url.Values {
	v := url.Values{}
	v.Set("lat", formatCoord(p.Lat))
	v.Set("lon", formatCoord(p.Lon))
	setIntParam(v, "zoom", p.Zoom)
	setIntParam(v, "addressdetails", p.AddressDetails)
	v.Set("format", "jsonv2")
	return v
}

// Values формирует query-параметры запроса /lookup
func (p *LookupParams) Values() url.Values {
	v := url.Values{}
	setParam(v, "osm_ids", p.OSMIds)
	setIntParam(v, "addressdetails", p.AddressDetails)
	setIntParam(v, "extratags", p.ExtraTags)
	setIntParam(v, "namedetails", p.NameDetails)
	v.Set("format", "jsonv2")
	return v
}

func setParam(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

func setIntParam(v url.Values, key string, val *int) {
	if val != nil {
		v.Set(key, strconv.Itoa(*val))
	}
}
