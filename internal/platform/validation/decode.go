package validation

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// Decode copies a validated payload into out, a pointer to a struct whose
// fields carry `mapstructure` tags. Keys absent from in leave fields untouched,
// so Decode over an existing entity applies a partial update. A present null
// zeroes its field.
func Decode(in Input, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToUUIDHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: false,
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(map[string]interface{}(in)); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

var uuidType = reflect.TypeOf(uuid.UUID{})

func stringToUUIDHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != uuidType {
		return data, nil
	}
	return uuid.Parse(data.(string))
}
