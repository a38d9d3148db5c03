package template

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 34, 56, 0, time.UTC)

func newTestEngine(opts ...Option) *Engine {
	base := []Option{
		WithLocation(time.UTC),
		WithClock(func() time.Time { return fixedNow }),
		WithRand(rand.New(rand.NewPCG(42, 7))),
	}
	return New(append(base, opts...)...)
}

func TestRender(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name string
		tpl  string
		data map[string]any
		want string
	}{
		{
			name: "helpers in text",
			tpl:  "Hello {{uppercase name}}, you have {{add count 1}} items",
			data: map[string]any{"name": "sam", "count": 4},
			want: "Hello SAM, you have 5 items",
		},
		{
			name: "simple loop",
			tpl:  "{{#each items}}{{this}}-{{/each}}",
			data: map[string]any{"items": []any{"a", "b"}},
			want: "a-b-",
		},
		{
			name: "loop variables and nested if",
			tpl:  "{{#each items}}{{@index}}:{{this.name}}{{#if @last}}.{{else}},{{/if}}{{/each}}",
			data: map[string]any{"items": []any{
				map[string]any{"name": "a"},
				map[string]any{"name": "b"},
			}},
			want: "0:a,1:b.",
		},
		{
			name: "item fields and parent scope",
			tpl:  "{{#each users}}{{name}}/{{request.method}} {{/each}}",
			data: map[string]any{
				"users":   []any{map[string]any{"name": "x"}, map[string]any{"name": "y"}},
				"request": map[string]any{"method": "GET"},
			},
			want: "x/GET y/GET ",
		},
		{
			name: "nested loops",
			tpl:  "{{#each rows}}[{{#each this}}{{this}}{{/each}}]{{/each}}",
			data: map[string]any{"rows": []any{[]any{1.0, 2.0}, []any{3.0}}},
			want: "[12][3]",
		},
		{
			name: "first flag",
			tpl:  "{{#each items}}{{#if @first}}>{{/if}}{{this}}{{/each}}",
			data: map[string]any{"items": []string{"a", "b"}},
			want: ">ab",
		},
		{
			name: "loop over non array",
			tpl:  "a{{#each user}}x{{/each}}b",
			data: map[string]any{"user": map[string]any{"id": 1}},
			want: "a[Each Error: user is not an array]b",
		},
		{
			name: "loop over missing path",
			tpl:  "{{#each nothing}}x{{/each}}",
			want: "[Each Error: nothing is not an array]",
		},
		{
			name: "unresolved path is kept",
			tpl:  "Hi {{missing.path}}!",
			want: "Hi {{missing.path}}!",
		},
		{
			name: "null value",
			tpl:  "{{v}}",
			data: map[string]any{"v": nil},
			want: "null",
		},
		{
			name: "object value is JSON",
			tpl:  "{{obj}}",
			data: map[string]any{"obj": map[string]any{"a": 1.0}},
			want: `{"a":1}`,
		},
		{
			name: "whitespace inside tags",
			tpl:  "{{ name }}{{#if  flag }}!{{/if}}",
			data: map[string]any{"name": "n", "flag": true},
			want: "n!",
		},
		{
			name: "if else on path",
			tpl:  "{{#if user.admin}}admin{{else}}guest{{/if}}",
			data: map[string]any{"user": map[string]any{"admin": false}},
			want: "guest",
		},
		{
			name: "if without else and missing path",
			tpl:  "[{{#if nope}}x{{/if}}]",
			want: "[]",
		},
		{
			name: "if on helper",
			tpl:  `{{#if equals status "active"}}on{{else}}off{{/if}}`,
			data: map[string]any{"status": "active"},
			want: "on",
		},
		{
			name: "numeric comparison of strings",
			tpl:  `{{gt "10" "9"}} {{lt count 3}} {{gte 3 3}} {{lte 4 3}}`,
			data: map[string]any{"count": 4.0},
			want: "true false true false",
		},
		{
			name: "string equality",
			tpl:  `{{equals "abc" "abc"}} {{notEquals "a" "b"}}`,
			want: "true true",
		},
		{
			name: "contains on array and string",
			tpl:  `{{contains tags "b"}} {{contains "hello" "ell"}} {{startsWith "hello" "he"}} {{endsWith "hello" "x"}}`,
			data: map[string]any{"tags": []any{"a", "b"}},
			want: "true true true false",
		},
		{
			name: "math",
			tpl:  `{{subtract 10 4}} {{multiply "2.5" 2}} {{add 0.1 0.2}} {{divide 1 0}} {{divide 0 0}} {{add "x" 1}}`,
			want: "6 5 0.30000000000000004 Infinity NaN NaN",
		},
		{
			name: "string helpers",
			tpl:  `{{capitalize "hello world"}} {{lowercase "ABC"}} {{uppercase "hello there"}}`,
			want: "Hello world abc HELLO THERE",
		},
		{
			name: "collections",
			tpl:  "{{length items}} {{keys obj}} {{length \"héllo\"}}",
			data: map[string]any{"items": []any{1.0, 2.0}, "obj": map[string]any{"b": 1.0, "a": 2.0}},
			want: `2 ["a","b"] 5`,
		},
		{
			name: "dates",
			tpl:  `{{formatDate 0 "YYYY-MM-DD HH:mm:ss"}} {{formatDate "2024-03-05T10:20:30Z" "DD/MM/YYYY"}} {{currentDate}} {{currentTime}} {{timestamp}}`,
			want: "1970-01-01 00:00:00 05/03/2024 2024-06-01 12:34:56 1717245296000",
		},
		{
			name: "request time as date",
			tpl:  `{{formatDate ts "HH:mm"}}`,
			data: map[string]any{"ts": float64(fixedNow.UnixMilli())},
			want: "12:34",
		},
		{
			name: "stray tags stay literal",
			tpl:  "a {{/if}} b {{else}} c {{/each}}",
			want: "a {{/if}} b {{else}} c {{/each}}",
		},
		{
			name: "unclosed if stays literal",
			tpl:  "{{#if flag}}y",
			data: map[string]any{"flag": true},
			want: "{{#if flag}}y",
		},
		{
			name: "unterminated tag",
			tpl:  "Hello {{name",
			data: map[string]any{"name": "x"},
			want: "Hello {{name",
		},
		{
			name: "quoted literal",
			tpl:  `{{"plain"}}`,
			want: "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Render(tt.tpl, tt.data))
		})
	}
}

func TestRenderHelperErrors(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name string
		tpl  string
		want string
	}{
		{
			name: "unknown helper",
			tpl:  "{{frobnicate a b}}",
			want: `[Helper Error: unknown helper "frobnicate"]`,
		},
		{
			name: "wrong arity",
			tpl:  "{{add 1}}",
			want: "[Helper Error: wrong number of arguments: add expects 2, got 1]",
		},
		{
			name: "optional arity range",
			tpl:  "{{randomNumber 1 2 3}}",
			want: "[Helper Error: wrong number of arguments: randomNumber expects 0 to 2, got 3]",
		},
		{
			name: "helper error keeps rendering",
			tpl:  `before {{formatDate "nope"}} after`,
			want: `before [Date Error: invalid date "nope"] after`,
		},
		{
			name: "helper error inside if",
			tpl:  `{{#if formatDate "bad"}}x{{else}}y{{/if}}`,
			want: `[Date Error: invalid date "bad"]`,
		},
		{
			name: "generation error",
			tpl:  "{{randomNumber 1.2 1.8}}",
			want: "[Generation Error: no integer between 1.2 and 1.8]",
		},
		{
			name: "collection error",
			tpl:  "{{keys 5}}",
			want: "[Collection Error: keys expects an object or array]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Render(tt.tpl, nil))
		})
	}
}

func TestRenderHelperPanic(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Helper{
		Name:     "boom",
		Category: "Custom",
		Fn:       func(*Engine, []any) (any, error) { panic("kaboom") },
	}))
	e := newTestEngine(WithRegistry(reg))

	assert.Equal(t, "a [Custom Error: kaboom] b", e.Render("a {{boom}} b", nil))
}

func TestRenderRandomHelpers(t *testing.T) {
	e := newTestEngine()
	uuidRe := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	alnumRe := regexp.MustCompile(`^[A-Za-z0-9]+$`)

	for i := 0; i < 50; i++ {
		assert.Regexp(t, uuidRe, e.Render("{{uuid}}", nil))

		n, err := strconv.Atoi(e.Render("{{randomNumber 5 7}}", nil))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 7)

		d, err := strconv.Atoi(e.Render("{{randomNumber}}", nil))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d, 0)
		assert.LessOrEqual(t, d, 100)

		assert.Contains(t, []string{"true", "false"}, e.Render("{{randomBoolean}}", nil))
	}

	// 超出安全整数范围的边界被截断
	for _, tpl := range []string{"{{randomNumber 1 9223372036854775807}}", "{{randomNumber -1e300 1e300}}"} {
		n, err := strconv.ParseInt(e.Render(tpl, nil), 10, 64)
		require.NoError(t, err, tpl)
		assert.LessOrEqual(t, n, int64(maxSafeInteger))
		assert.GreaterOrEqual(t, n, int64(-maxSafeInteger))
	}
	lowest, err := strconv.ParseInt(e.Render("{{randomNumber 9223372036854775807 1e300}}", nil), 10, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(maxSafeInteger), lowest)

	s := e.Render("{{randomString 8}}", nil)
	assert.Len(t, s, 8)
	assert.Regexp(t, alnumRe, s)
	assert.Len(t, e.Render("{{randomString}}", nil), 10)

	// 默认全局随机源同样可用
	plain := New()
	assert.Regexp(t, uuidRe, plain.Render("{{uuid}}", nil))
}

func TestRenderSeededIsRepeatable(t *testing.T) {
	tpl := `{{uuid}} {{randomString 6}} {{faker "person.fullName"}}`
	a := New(WithRand(rand.New(rand.NewPCG(1, 1)))).Render(tpl, nil)
	b := New(WithRand(rand.New(rand.NewPCG(1, 1)))).Render(tpl, nil)
	assert.Equal(t, a, b)
}

func TestRenderIdempotentOnOutput(t *testing.T) {
	e := newTestEngine()
	data := map[string]any{"name": "sam", "items": []any{"a", "b"}}

	out := e.Render(`{"name":"{{name}}","items":"{{#each items}}{{this}}{{/each}}"}`, data)
	assert.Equal(t, `{"name":"sam","items":"ab"}`, out)
	assert.Equal(t, out, e.Render(out, data))
}

func TestRenderWithoutTagsIsUnchanged(t *testing.T) {
	e := newTestEngine()
	for _, src := range []string{"", "plain", `{"a":1}`, "}} only closing"} {
		assert.Equal(t, src, e.Render(src, nil))
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{
		"equals", "notEquals", "contains", "startsWith", "endsWith", "gt", "lt", "gte", "lte",
		"add", "subtract", "multiply", "divide",
		"uppercase", "lowercase", "capitalize",
		"formatDate", "currentDate", "currentTime",
		"length", "keys",
		"timestamp", "uuid", "randomNumber", "randomString", "randomBoolean",
		"faker",
	} {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, name)
	}

	assert.Error(t, reg.Register(&Helper{Name: "noFn"}))
	assert.Error(t, reg.Register(&Helper{Name: "bad", Params: []ArgKind{ArgAny}, Optional: 2,
		Fn: func(*Engine, []any) (any, error) { return nil, nil }}))
	require.NoError(t, reg.Register(&Helper{Name: "shout", Params: []ArgKind{ArgString},
		Fn: func(_ *Engine, args []any) (any, error) { return args[0].(string) + "!", nil }}))

	e := newTestEngine(WithRegistry(reg))
	assert.Equal(t, "hey!", e.Render(`{{shout "hey"}}`, nil))

	h, _ := reg.Lookup("shout")
	assert.Equal(t, Category("Helper"), h.Category)
	assert.True(t, errors.Is(h.checkArity(3), ErrArity))
}
