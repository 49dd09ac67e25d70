package solar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// PointQuery identifies a location.
type PointQuery struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (p PointQuery) Location() Location {
	return Location{Lat: p.Lat, Lon: p.Lon}
}

// EstimateQuery is the input of a PV estimate. Optional fields default in NewSystemConfig.
type EstimateQuery struct {
	PointQuery
	CapacityKW    float64    `json:"capacity" validate:"gte=0.05,lte=500000"`
	TiltDeg       *float64   `json:"tilt" validate:"omitempty,gte=0,lte=90"`
	AzimuthDeg    *float64   `json:"azimuth" validate:"omitempty,gte=0,lte=360"`
	ModuleType    ModuleType `json:"module" validate:"omitempty,oneof=standard premium thinfilm"`
	LossesPercent *float64   `json:"losses" validate:"omitempty,gte=0,lte=99"`
}

// System applies defaults and returns the effective SystemConfig.
func (q EstimateQuery) System() SystemConfig {
	return NewSystemConfig(q.Location(), SystemOptions{
		CapacityKW:    q.CapacityKW,
		TiltDeg:       q.TiltDeg,
		AzimuthDeg:    q.AzimuthDeg,
		ModuleType:    q.ModuleType,
		LossesPercent: q.LossesPercent,
	})
}

// ForecastQuery is the input of a radiation forecast.
type ForecastQuery struct {
	PointQuery
	Days int `json:"days" validate:"gte=1,lte=16"`
}

// TiltQuery is the input of an optimal tilt search.
type TiltQuery struct {
	PointQuery
	CapacityKW float64 `json:"capacity" validate:"gte=0.05,lte=500000"`
}

// CompareRequest is the input of a location comparison.
type CompareRequest struct {
	Locations  []CompareSite `json:"locations" yaml:"locations" validate:"min=2,max=5,dive"`
	CapacityKW float64       `json:"capacity" yaml:"capacity" validate:"gte=0.05,lte=500000"`
}

// CompareSite is one site of a CompareRequest. Coordinates are pointers so a
// missing lat or lon is rejected instead of read as 0.
type CompareSite struct {
	Name string   `json:"name" yaml:"name" validate:"max=100"`
	Lat  *float64 `json:"lat" yaml:"lat" validate:"required,gte=-90,lte=90"`
	Lon  *float64 `json:"lon" yaml:"lon" validate:"required,gte=-180,lte=180"`
}

// Named converts validated request sites to NamedLocations.
func (r CompareRequest) Named() []NamedLocation {
	out := make([]NamedLocation, len(r.Locations))
	for i, s := range r.Locations {
		out[i] = NamedLocation{Name: s.Name, Lat: deref(s.Lat), Lon: deref(s.Lon)}
	}
	return out
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Validate checks v against its struct tags and reports violations as KindInvalidInput.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return InvalidInput("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return InvalidInput("%s", strings.Join(msgs, "; "))
}
