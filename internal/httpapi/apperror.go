package httpapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	errRequired     = errors.New("is required")
	errTooLong      = errors.New("must be at most 40 characters long")
	errPlaceType    = errors.New("must be indoor or outdoor")
	errLatitude     = errors.New("must be a valid latitude")
	errLongitude    = errors.New("must be a valid longitude")
	errNotNegative  = errors.New("must not be negative")
	errInvalidInput = errors.New("is invalid")
)

var customErrors = map[string]error{
	"PlaceInput.Name.required":         errRequired,
	"PlaceInput.Name.max":              errTooLong,
	"PlaceInput.Type.required":         errRequired,
	"PlaceInput.Type.oneof":            errPlaceType,
	"PlaceInput.Lat.latitude":          errLatitude,
	"PlaceInput.Lon.longitude":         errLongitude,
	"Mission.ID.required":              errRequired,
	"Mission.Title.required":           errRequired,
	"Mission.Points.gte":               errNotNegative,
	"Mission.EstimatedTimeSeconds.gte": errNotNegative,
	"buyRequest.ItemID.required":       errRequired,
}

// fieldErrors converts validator errors into a list of {field: message} pairs keyed by
// the JSON field name.
func fieldErrors(err error) []map[string]string {
	errList := make([]map[string]string, 0)

	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) {
		return errList
	}
	for _, e := range validationErr {
		key := e.StructNamespace() + "." + e.Tag()
		msg := fmt.Sprintf("%s %s", e.Field(), errInvalidInput)
		if v, ok := customErrors[key]; ok {
			msg = v.Error()
		}
		errList = append(errList, map[string]string{e.Field(): msg})
	}
	return errList
}
