package nominatim

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/geodesic"
)

// BoundingBox - прямоугольник локации в градусах.
// Nominatim передает его массивом из четырех строк
// в порядке [юг, север, запад, восток].
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// UnmarshalJSON разбирает проводной формат boundingbox.
// Значения принимаются строками или числами, но их должно быть ровно четыре.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("boundingbox must be an array: %w", err)
	}
	if len(raw) != 4 {
		return fmt.Errorf("boundingbox must contain exactly 4 values, got %d", len(raw))
	}

	var vals [4]float64
	for i, item := range raw {
		switch v := item.(type) {
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("boundingbox value %q is not a number", v)
			}
			vals[i] = f
		case float64:
			vals[i] = v
		default:
			return fmt.Errorf("boundingbox value %v is not a number", item)
		}
	}

	b.MinLat, b.MaxLat, b.MinLon, b.MaxLon = vals[0], vals[1], vals[2], vals[3]
	return nil
}

// MarshalJSON возвращает boundingbox в проводном формате Nominatim
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	raw := [4]string{
		formatCoord(b.MinLat),
		formatCoord(b.MaxLat),
		formatCoord(b.MinLon),
		formatCoord(b.MaxLon),
	}
	return json.Marshal(raw)
}

// Location - результат геокодирования Nominatim (формат jsonv2)
type Location struct {
	PlaceID     int64
	OSMType     string
	OSMId       int64
	Lat         float64
	Lon         float64
	DisplayName string
	Address     map[string]string
	BoundingBox *BoundingBox
	Class       string
	Type        string
	Importance  *float64
	Icon        string
}

// locationJSON - проводное представление локации. Координаты приходят
// строками; класс объекта в jsonv2 называется category, в старом формате
// json - class. Поле error сервер присылает при неудачном /reverse.
type locationJSON struct {
	PlaceID     int64             `json:"place_id"`
	OSMType     string            `json:"osm_type,omitempty"`
	OSMId       int64             `json:"osm_id,omitempty"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address,omitempty"`
	BoundingBox *BoundingBox      `json:"boundingbox,omitempty"`
	Category    string            `json:"category,omitempty"`
	Class       string            `json:"class,omitempty"`
	Type        string            `json:"type,omitempty"`
	Importance  *float64          `json:"importance,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// toLocation проверяет обязательные поля и приводит типы
func (raw locationJSON) toLocation() (Location, error) {
	if raw.PlaceID == 0 {
		return Location{}, fmt.Errorf("missing required field %q", "place_id")
	}
	if raw.OSMType == "" {
		return Location{}, fmt.Errorf("missing required field %q", "osm_type")
	}
	if raw.OSMId == 0 {
		return Location{}, fmt.Errorf("missing required field %q", "osm_id")
	}
	if raw.DisplayName == "" {
		return Location{}, fmt.Errorf("missing required field %q", "display_name")
	}

	lat, err := strconv.ParseFloat(raw.Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("invalid coordinate lat=%q", raw.Lat)
	}
	lon, err := strconv.ParseFloat(raw.Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("invalid coordinate lon=%q", raw.Lon)
	}

	class := raw.Category
	if class == "" {
		class = raw.Class
	}

	return Location{
		PlaceID:     raw.PlaceID,
		OSMType:     raw.OSMType,
		OSMId:       raw.OSMId,
		Lat:         lat,
		Lon:         lon,
		DisplayName: raw.DisplayName,
		Address:     raw.Address,
		BoundingBox: raw.BoundingBox,
		Class:       class,
		Type:        raw.Type,
		Importance:  raw.Importance,
		Icon:        raw.Icon,
	}, nil
}

// UnmarshalJSON разбирает локацию из проводного формата jsonv2
func (l *Location) UnmarshalJSON(data []byte) error {
	var raw locationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	loc, err := raw.toLocation()
	if err != nil {
		return err
	}
	*l = loc
	return nil
}

// MarshalJSON возвращает локацию в проводном формате jsonv2
func (l Location) MarshalJSON() ([]byte, error) {
	raw := locationJSON{
		PlaceID:     l.PlaceID,
		OSMType:     l.OSMType,
		OSMId:       l.OSMId,
		Lat:         formatCoord(l.Lat),
		Lon:         formatCoord(l.Lon),
		DisplayName: l.DisplayName,
		Address:     l.Address,
		BoundingBox: l.BoundingBox,
		Category:    l.Class,
		Type:        l.Type,
		Importance:  l.Importance,
		Icon:        l.Icon,
	}
	return json.Marshal(raw)
}

// DistanceTo вычисляет геодезическое расстояние до другой локации в метрах
// на эллипсоиде WGS84 (алгоритм Карни)
func (l Location) DistanceTo(other Location) float64 {
	var dist float64
	geodesic.WGS84.Inverse(l.Lat, l.Lon, other.Lat, other.Lon, &dist, nil, nil)
	return dist
}

// Area вычисляет площадь boundingbox в квадратных градусах:
// (север - юг) * (восток - запад). Возвращает ErrNoBoundingBox,
// если boundingbox отсутствует.
func (l Location) Area() (float64, error) {
	if l.BoundingBox == nil {
		return 0, ErrNoBoundingBox
	}
	b := l.BoundingBox
	return (b.MaxLat - b.MinLat) * (b.MaxLon - b.MinLon), nil
}

// String возвращает краткое описание локации для логов
func (l Location) String() string {
	return fmt.Sprintf("%s (%v, %v)", l.DisplayName, l.Lat, l.Lon)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
