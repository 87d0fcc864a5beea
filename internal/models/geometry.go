package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Geometry is a GeoJSON Point stored in a JSON column. Coordinates are
// ordered [longitude, latitude], following the GeoJSON convention.
type Geometry struct {
	Point orb.Point
}

// NewPoint builds a Geometry from a latitude/longitude pair.
func NewPoint(lat, lng float64) *Geometry {
	return &Geometry{Point: orb.Point{lng, lat}}
}

func (g Geometry) Lat() float64 { return g.Point.Lat() }
func (g Geometry) Lng() float64 { return g.Point.Lon() }

func (g Geometry) MarshalJSON() ([]byte, error) {
	return geojson.NewGeometry(g.Point).MarshalJSON()
}

func (g *Geometry) UnmarshalJSON(data []byte) error {
	geom, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return err
	}
	point, ok := geom.Geometry().(orb.Point)
	if !ok {
		return fmt.Errorf("geometry is not a point: %s", geom.Type)
	}
	g.Point = point
	return nil
}

// Value implements driver.Valuer so gorm can persist the geometry.
func (g Geometry) Value() (driver.Value, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (g *Geometry) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return g.UnmarshalJSON(v)
	case string:
		return g.UnmarshalJSON([]byte(v))
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Geometry", value)
	}
}

func (Geometry) GormDataType() string {
	return "json"
}
