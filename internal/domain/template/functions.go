package template

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func pair(kind ArgKind) []ArgKind { return []ArgKind{kind, kind} }

// =============================================================================
// Comparison
// =============================================================================

func comparisonHelpers() []*Helper {
	cmp := func(name string, test func(int) bool) *Helper {
		return &Helper{Name: name, Category: CategoryComparison, Params: pair(ArgAny),
			Fn: func(_ *Engine, args []any) (any, error) {
				return test(compareValues(args[0], args[1])), nil
			}}
	}
	str := func(name string, test func(s, sub string) bool) *Helper {
		return &Helper{Name: name, Category: CategoryComparison, Params: pair(ArgString),
			Fn: func(_ *Engine, args []any) (any, error) {
				return test(args[0].(string), args[1].(string)), nil
			}}
	}
	return []*Helper{
		cmp("equals", func(c int) bool { return c == 0 }),
		cmp("notEquals", func(c int) bool { return c != 0 }),
		cmp("gt", func(c int) bool { return c > 0 }),
		cmp("lt", func(c int) bool { return c < 0 }),
		cmp("gte", func(c int) bool { return c >= 0 }),
		cmp("lte", func(c int) bool { return c <= 0 }),
		{Name: "contains", Category: CategoryComparison, Params: pair(ArgAny), Fn: containsHelper},
		str("startsWith", strings.HasPrefix),
		str("endsWith", strings.HasSuffix),
	}
}

// containsHelper checks array membership for arrays and substring otherwise.
func containsHelper(_ *Engine, args []any) (any, error) {
	needle := FormatValue(args[1])
	if items, ok := asSlice(args[0]); ok {
		for _, item := range items {
			if compareValues(item, args[1]) == 0 {
				return true, nil
			}
		}
		return false, nil
	}
	return strings.Contains(FormatValue(args[0]), needle), nil
}

// =============================================================================
// Math
// =============================================================================

func mathHelpers() []*Helper {
	op := func(name string, fn func(a, b float64) float64) *Helper {
		return &Helper{Name: name, Category: CategoryMath, Params: pair(ArgNumber),
			Fn: func(_ *Engine, args []any) (any, error) {
				return fn(args[0].(float64), args[1].(float64)), nil
			}}
	}
	return []*Helper{
		op("add", func(a, b float64) float64 { return a + b }),
		op("subtract", func(a, b float64) float64 { return a - b }),
		op("multiply", func(a, b float64) float64 { return a * b }),
		// 除以 0 得到 ±Infinity 或 NaN
		op("divide", func(a, b float64) float64 { return a / b }),
	}
}

// =============================================================================
// String
// =============================================================================

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

func stringHelpers() []*Helper {
	one := func(name string, fn func(string) string) *Helper {
		return &Helper{Name: name, Category: CategoryString, Params: []ArgKind{ArgString},
			Fn: func(_ *Engine, args []any) (any, error) {
				return fn(args[0].(string)), nil
			}}
	}
	return []*Helper{
		one("uppercase", upperCaser.String),
		one("lowercase", lowerCaser.String),
		one("capitalize", capitalize),
	}
}

// capitalize upper-cases the first rune and leaves the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// =============================================================================
// Date
// =============================================================================

const defaultDateFormat = "YYYY-MM-DD HH:mm:ss"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func dateHelpers() []*Helper {
	return []*Helper{
		{Name: "formatDate", Category: CategoryDate, Params: []ArgKind{ArgAny, ArgString}, Optional: 1, Fn: formatDateHelper},
		{Name: "currentDate", Category: CategoryDate, Fn: func(e *Engine, _ []any) (any, error) {
			return e.now().Format("2006-01-02"), nil
		}},
		{Name: "currentTime", Category: CategoryDate, Fn: func(e *Engine, _ []any) (any, error) {
			return e.now().Format("15:04:05"), nil
		}},
	}
}

func formatDateHelper(e *Engine, args []any) (any, error) {
	t, err := e.toTime(args[0])
	if err != nil {
		return nil, err
	}
	format := defaultDateFormat
	if len(args) > 1 && args[1].(string) != "" {
		format = args[1].(string)
	}
	return formatTokens(t, format), nil
}

// toTime accepts milliseconds since the epoch or a date string.
func (e *Engine) toTime(v any) (time.Time, error) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, e.loc); err == nil {
				return t.In(e.loc), nil
			}
		}
	}
	ms := ToNumber(v)
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, fmt.Errorf("invalid date %q", FormatValue(v))
	}
	return time.UnixMilli(int64(ms)).In(e.loc), nil
}

func formatTokens(t time.Time, format string) string {
	pad := func(n int) string { return fmt.Sprintf("%02d", n) }
	return strings.NewReplacer(
		"YYYY", strconv.Itoa(t.Year()),
		"MM", pad(int(t.Month())),
		"DD", pad(t.Day()),
		"HH", pad(t.Hour()),
		"mm", pad(t.Minute()),
		"ss", pad(t.Second()),
	).Replace(format)
}

// =============================================================================
// Collection
// =============================================================================

func collectionHelpers() []*Helper {
	return []*Helper{
		{Name: "length", Category: CategoryCollection, Params: []ArgKind{ArgAny}, Fn: lengthHelper},
		{Name: "keys", Category: CategoryCollection, Params: []ArgKind{ArgAny}, Fn: keysHelper},
	}
}

func lengthHelper(_ *Engine, args []any) (any, error) {
	switch v := args[0].(type) {
	case string:
		return float64(utf8.RuneCountInString(v)), nil
	case map[string]any:
		return float64(len(v)), nil
	case map[string]string:
		return float64(len(v)), nil
	}
	if items, ok := asSlice(args[0]); ok {
		return float64(len(items)), nil
	}
	return nil, fmt.Errorf("%s has no length", FormatValue(args[0]))
}

func keysHelper(_ *Engine, args []any) (any, error) {
	var keys []string
	switch v := args[0].(type) {
	case map[string]any:
		for k := range v {
			keys = append(keys, k)
		}
	case map[string]string:
		for k := range v {
			keys = append(keys, k)
		}
	default:
		items, ok := asSlice(args[0])
		if !ok {
			return nil, errors.New("keys expects an object or array")
		}
		out := make([]any, len(items))
		for i := range items {
			out[i] = strconv.Itoa(i)
		}
		return out, nil
	}
	sort.Strings(keys)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out, nil
}

// =============================================================================
// Generation
// =============================================================================

const (
	alphanumeric        = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	maxRandomString     = 4096
	defaultRandomLength = 10
)

// maxSafeInteger 与 JS Number.MAX_SAFE_INTEGER 一致，保证 high-low+1 不溢出 int64
const maxSafeInteger = 1<<53 - 1

func generationHelpers() []*Helper {
	return []*Helper{
		{Name: "timestamp", Category: CategoryGeneration, Fn: func(e *Engine, _ []any) (any, error) {
			return e.now().UnixMilli(), nil
		}},
		{Name: "uuid", Category: CategoryGeneration, Fn: func(e *Engine, _ []any) (any, error) {
			return e.newUUID(), nil
		}},
		{Name: "randomNumber", Category: CategoryGeneration, Params: pair(ArgNumber), Optional: 2, Fn: randomNumberHelper},
		{Name: "randomString", Category: CategoryGeneration, Params: []ArgKind{ArgNumber}, Optional: 1, Fn: randomStringHelper},
		{Name: "randomBoolean", Category: CategoryGeneration, Fn: func(e *Engine, _ []any) (any, error) {
			return e.intN(2) == 1, nil
		}},
	}
}

// randomNumberHelper returns an integer in [min, max]; both bounds default to 0..100.
func randomNumberHelper(e *Engine, args []any) (any, error) {
	lo, hi := 0.0, 100.0
	if len(args) > 0 {
		lo = args[0].(float64)
	}
	if len(args) > 1 {
		hi = args[1].(float64)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, errors.New("randomNumber bounds must be numbers")
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	lo = math.Max(lo, -maxSafeInteger)
	hi = math.Min(hi, maxSafeInteger)
	low, high := int64(math.Ceil(lo)), int64(math.Floor(hi))
	if high < low {
		return nil, fmt.Errorf("no integer between %s and %s", formatNumber(lo), formatNumber(hi))
	}
	return low + e.int64N(high-low+1), nil
}

func randomStringHelper(e *Engine, args []any) (any, error) {
	n := float64(defaultRandomLength)
	if len(args) > 0 {
		n = args[0].(float64)
	}
	if math.IsNaN(n) || n < 0 {
		return nil, fmt.Errorf("invalid length %s", formatNumber(n))
	}
	length := int(math.Min(n, maxRandomString))
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumeric[e.intN(len(alphanumeric))]
	}
	return string(b), nil
}
