// File: conf/value.go
package conf

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Value is a resolved configuration tree. It structurally mirrors the
// schema: each group is a nested Value, each leaf holds its parsed value,
// and absent optional fields have no key. A Value is produced fresh per
// resolution call and is never mutated afterward.
type Value map[string]any

// Get retrieves the raw value at a dot-separated path. The second return
// value reports whether the path exists.
func (v Value) Get(path string) (any, bool) {
	if path == "" {
		return v, true
	}
	current := any(v)
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(Value)
		if !ok {
			return nil, false
		}
		next, exists := m[segment]
		if !exists {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Has reports whether the path resolved to a value. Useful for optional
// fields and flattens, where absence is meaningful.
func (v Value) Has(path string) bool {
	_, ok := v.Get(path)
	return ok
}

// String retrieves a string value at the path, converting common scalar
// types when the stored value isn't already a string.
func (v Value) String(path string) (string, error) {
	val, found := v.Get(path)
	if !found {
		return "", fmt.Errorf("no value at path %s", path)
	}
	if val == nil {
		return "", nil
	}

	if s, ok := val.(string); ok {
		return s, nil
	}
	switch t := val.(type) {
	case fmt.Stringer:
		return t.String(), nil
	case []byte:
		return string(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(val).Uint(), 10), nil
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string for path %s", val, path)
	}
}

// Int64 retrieves an int64 value at the path, converting from other numeric
// types, parsable strings, and booleans.
func (v Value) Int64(path string) (int64, error) {
	val, found := v.Get(path)
	if !found {
		return 0, fmt.Errorf("no value at path %s", path)
	}
	if val == nil {
		return 0, fmt.Errorf("value at path %s is nil, cannot convert to int64", path)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > uint64(int64(^uint64(0)>>1)) {
			return 0, fmt.Errorf("cannot convert %d to int64 for path %s: overflow", u, path)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), nil
	case reflect.String:
		s := rv.String()
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i, nil
		} else if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return int64(f), nil
		} else {
			return 0, fmt.Errorf("cannot convert string %q to int64 for path %s: %w", s, path, err)
		}
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert type %T to int64 for path %s", val, path)
}

// Bool retrieves a boolean value at the path, converting from numeric types
// (0 is false, non-zero true) and parsable strings.
func (v Value) Bool(path string) (bool, error) {
	val, found := v.Get(path)
	if !found {
		return false, fmt.Errorf("no value at path %s", path)
	}
	if val == nil {
		return false, fmt.Errorf("value at path %s is nil, cannot convert to bool", path)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		s := rv.String()
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("cannot convert string %q to bool for path %s: %w", s, path, err)
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	}
	return false, fmt.Errorf("cannot convert type %T to bool for path %s", val, path)
}

// Float64 retrieves a float64 value at the path, converting from numeric
// types, parsable strings, and booleans.
func (v Value) Float64(path string) (float64, error) {
	val, found := v.Get(path)
	if !found {
		return 0, fmt.Errorf("no value at path %s", path)
	}
	if val == nil {
		return 0, fmt.Errorf("value at path %s is nil, cannot convert to float64", path)
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.String:
		s := rv.String()
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64 for path %s: %w", s, path, err)
		}
		return f, nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert type %T to float64 for path %s", val, path)
}

// StringSlice retrieves a repeat field's values at the path, converting each
// element to a string.
func (v Value) StringSlice(path string) ([]string, error) {
	val, found := v.Get(path)
	if !found {
		return nil, fmt.Errorf("no value at path %s", path)
	}
	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("value at path %s is %T, not a list", path, val)
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			out[i] = fmt.Sprintf("%v", item)
			continue
		}
		out[i] = s
	}
	return out, nil
}
