package presets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hand-edited preset files mix strings, numbers and nulls for the same
// field ("quality": "28" vs "quality": 28). These scalar types accept any of
// them.

// Text is a string field that also accepts numbers and null.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	v, err := decodeScalar(data)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(strings.TrimSpace(x))
	case json.Number:
		*t = Text(x.String())
	case bool:
		*t = Text(strconv.FormatBool(x))
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Number is a float field that also accepts numeric strings and null.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	v, err := decodeScalar(data)
	if err != nil {
		return err
	}
	f, err := toFloat(v)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Int is an integer field that also accepts numeric strings and null.
type Int int

func (i *Int) UnmarshalJSON(data []byte) error {
	v, err := decodeScalar(data)
	if err != nil {
		return err
	}
	f, err := toFloat(v)
	if err != nil {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("expected an integer, got %v", f)
	}
	*i = Int(f)
	return nil
}

// Flag is a boolean field that also accepts "true"/"yes"/"1" style strings,
// numbers and null.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	v, err := decodeScalar(data)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return err
		}
		*f = n != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "false", "no", "0":
			*f = false
		case "true", "yes", "1":
			*f = true
		default:
			return fmt.Errorf("expected a boolean, got %q", x)
		}
	}
	return nil
}

func decodeScalar(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case nil, string, json.Number, bool:
		return v, nil
	default:
		return nil, fmt.Errorf("expected a scalar value, got %s", data)
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		return x.Float64()
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("expected a number, got %q", x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected a number, got %v", v)
	}
}
