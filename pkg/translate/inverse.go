package translate

import (
	"fmt"
	"reflect"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/hostvalue"
	"github.com/aretw0/navbridge/pkg/value"
	"github.com/mitchellh/mapstructure"
)

// ExtractCoordinate reads a coordinate mapping. Both {latitude, longitude}
// and {lat, lng} are accepted, and either number tag is read as a double.
func ExtractCoordinate(v value.Value) (domain.LatLng, bool) {
	lat, ok := firstNumber(v, "latitude", "lat")
	if !ok {
		return domain.LatLng{}, false
	}
	lng, ok := firstNumber(v, "longitude", "lng")
	if !ok {
		return domain.LatLng{}, false
	}
	return domain.LatLng{Lat: lat, Lng: lng}, true
}

func firstNumber(v value.Value, keys ...string) (float64, bool) {
	for _, k := range keys {
		if n, ok := v.Get(k).AsNumber(); ok {
			return n, true
		}
	}
	return 0, false
}

// BuildPath reads a sequence of coordinate mappings into a path. Entries
// that are not coordinates are skipped; a non-sequence yields an empty path.
func BuildPath(v value.Value) domain.Path {
	items, _ := v.AsSequence()
	path := make(domain.Path, 0, len(items))
	for _, item := range items {
		if p, ok := ExtractCoordinate(item); ok {
			path = append(path, p)
		}
	}
	return path
}

var (
	latLngType = reflect.TypeOf(domain.LatLng{})
	pathType   = reflect.TypeOf(domain.Path{})
)

// coordinateHook lets mapstructure fill LatLng and Path fields from host
// coordinate maps.
func coordinateHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to {
	case latLngType:
		if from.Kind() != reflect.Map {
			return data, nil
		}
		v, err := hostvalue.FromHost(data)
		if err != nil {
			return nil, err
		}
		p, ok := ExtractCoordinate(v)
		if !ok {
			return nil, fmt.Errorf("expected a coordinate, got %s", v)
		}
		return p, nil
	case pathType:
		if from.Kind() != reflect.Slice {
			return data, nil
		}
		v, err := hostvalue.FromHost(data)
		if err != nil {
			return nil, err
		}
		return BuildPath(v), nil
	}
	return data, nil
}

// decodeInto copies a mapping value over the fields of out, leaving fields
// the mapping does not mention untouched. Null leaves out unchanged.
func decodeInto(v value.Value, out any) error {
	if v.IsNull() {
		return nil
	}
	if v.Kind() != value.KindMapping {
		return fmt.Errorf("%w: expected mapping, got %s", domain.ErrInvalidArgument, v.Kind())
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(coordinateHook),
		Result:     out,
		TagName:    "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(hostvalue.ToHost(v)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}
