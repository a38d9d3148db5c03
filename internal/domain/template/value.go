package template

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// FormatValue converts a context or helper value to the text written into the body.
// Scalars follow JavaScript String() conventions, maps and slices become compact JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case float32:
		return formatNumber(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case json.Number:
		return val.String()
	case []byte:
		return string(val)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToNumber coerces a value the way JavaScript's Number() does; anything
// non-numeric yields NaN.
func ToNumber(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case uint64:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		switch s {
		case "Infinity", "+Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		}
		// Go 接受 inf/nan 等写法，JS 不接受
		bare := strings.ToLower(strings.TrimLeft(s, "+-"))
		if strings.HasPrefix(bare, "inf") || strings.HasPrefix(bare, "nan") || strings.Contains(s, "_") {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// Truthy applies JavaScript truthiness.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case float32:
		return val != 0 && !math.IsNaN(float64(val))
	case int:
		return val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case uint64:
		return val != 0
	}
	return true
}

// numericOperand reports the value as a number when it is one, or is a
// non-empty string that parses completely as one.
func numericOperand(v any) (float64, bool) {
	switch v.(type) {
	case nil, bool:
		return 0, false
	case string:
		if strings.TrimSpace(v.(string)) == "" {
			return 0, false
		}
	case map[string]any, []any:
		return 0, false
	}
	f := ToNumber(v)
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// compareValues orders two values numerically when both are numeric and by
// their string form otherwise.
func compareValues(a, b any) int {
	if x, ok := numericOperand(a); ok {
		if y, ok := numericOperand(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(FormatValue(a), FormatValue(b))
}

// asSlice returns the items of any slice or array value.
func asSlice(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case nil, string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
