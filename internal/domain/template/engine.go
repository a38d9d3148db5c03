package template

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go_mockapi_server/utils"

	"github.com/google/uuid"
)

// Engine renders response templates. It holds no per-render state and is
// safe for concurrent use.
type Engine struct {
	helpers *Registry
	loc     *time.Location
	clock   func() time.Time

	// rng 为 nil 时使用 math/rand/v2 全局源
	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocation sets the zone used by the date helpers.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithRand makes random helpers draw from rng, which gives repeatable output in tests.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock replaces time.Now for the date and timestamp helpers.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithRegistry swaps the helper registry, e.g. to add custom helpers.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.helpers = r
		}
	}
}

// New 创建模板引擎
func New(opts ...Option) *Engine {
	e := &Engine{
		helpers: NewRegistry(),
		loc:     time.Local,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Helpers exposes the engine's registry.
func (e *Engine) Helpers() *Registry {
	return e.helpers
}

// Render parses and renders src. It always returns a string: helper failures
// become inline markers and anything unexpected collapses into a single
// "[Template Error: ...]" string.
func (e *Engine) Render(src string, data map[string]any) string {
	if !strings.Contains(src, openDelim) {
		return src
	}
	return e.Execute(Parse(src), data)
}

// Execute renders an already parsed template.
func (e *Engine) Execute(t *Template, data map[string]any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			utils.GetLogger().Errorf("template render panic: %v", r)
			out = fmt.Sprintf("[Template Error: %v]", r)
		}
	}()

	var sb strings.Builder
	e.renderNodes(&sb, t.nodes, newRootScope(data))
	return sb.String()
}

func (e *Engine) renderNodes(sb *strings.Builder, nodes []node, s *scope) {
	for _, n := range nodes {
		switch n := n.(type) {
		case textNode:
			sb.WriteString(n.text)
		case varNode:
			sb.WriteString(e.renderVar(n, s))
		case ifNode:
			e.renderIf(sb, n, s)
		case eachNode:
			e.renderEach(sb, n, s)
		}
	}
}

func (e *Engine) renderVar(n varNode, s *scope) string {
	res := e.eval(n.expr, s)
	switch {
	case res.marker != "":
		return res.marker
	case !res.resolved:
		return n.raw
	}
	return FormatValue(res.value)
}

func (e *Engine) renderIf(sb *strings.Builder, n ifNode, s *scope) {
	res := e.eval(n.cond, s)
	if res.marker != "" {
		sb.WriteString(res.marker)
		return
	}
	if res.resolved && Truthy(res.value) {
		e.renderNodes(sb, n.then, s)
		return
	}
	e.renderNodes(sb, n.otherwise, s)
}

func (e *Engine) renderEach(sb *strings.Builder, n eachNode, s *scope) {
	v, ok := s.lookup(n.path)
	items, isSlice := asSlice(v)
	if !ok || !isSlice {
		sb.WriteString(fmt.Sprintf("[Each Error: %s is not an array]", n.path))
		return
	}
	for i, item := range items {
		e.renderNodes(sb, n.body, s.child(item, i, len(items)))
	}
}

// evalResult is the outcome of one expression. A non-empty marker replaces
// the output of the tag; resolved is false for an unknown bare path.
type evalResult struct {
	value    any
	resolved bool
	marker   string
}

func (e *Engine) eval(expr string, s *scope) evalResult {
	args := splitArgs(expr)
	if len(args) == 0 {
		return evalResult{}
	}

	head := args[0]
	if !head.quoted {
		if h, ok := e.helpers.Lookup(head.text); ok {
			return e.call(h, args[1:], s)
		}
	}
	if len(args) == 1 {
		if head.quoted {
			return evalResult{value: head.text, resolved: true}
		}
		v, ok := s.lookup(head.text)
		return evalResult{value: v, resolved: ok}
	}
	return evalResult{marker: helperMarker("Helper", fmt.Errorf("%w %q", ErrUnknownHelper, head.text))}
}

func (e *Engine) call(h *Helper, argTokens []arg, s *scope) (res evalResult) {
	defer func() {
		if r := recover(); r != nil {
			utils.GetLogger().Warnf("helper %s panicked: %v", h.Name, r)
			res = evalResult{marker: helperMarker(string(h.Category), fmt.Errorf("%v", r))}
		}
	}()

	if err := h.checkArity(len(argTokens)); err != nil {
		return evalResult{marker: helperMarker("Helper", err)}
	}
	values := make([]any, len(argTokens))
	for i, a := range argTokens {
		values[i] = a.resolve(s)
	}
	v, err := h.Fn(e, h.coerce(values))
	if err != nil {
		return evalResult{marker: helperMarker(string(h.Category), err)}
	}
	return evalResult{value: v, resolved: true}
}

func helperMarker(kind string, err error) string {
	msg := err.Error()
	if errors.Is(err, ErrArity) || errors.Is(err, ErrUnknownHelper) {
		kind = "Helper"
	}
	return fmt.Sprintf("[%s Error: %s]", kind, msg)
}

// arg is one space-separated token of a helper invocation.
type arg struct {
	text   string
	quoted bool
}

// resolve returns quoted tokens verbatim, and looks unquoted tokens up in the
// scope, falling back to the token text itself.
func (a arg) resolve(s *scope) any {
	if a.quoted {
		return a.text
	}
	if v, ok := s.lookup(a.text); ok {
		return v
	}
	return a.text
}

// splitArgs splits on whitespace, keeping "double" or 'single' quoted runs
// together with the quotes removed.
func splitArgs(expr string) []arg {
	var (
		args    []arg
		cur     strings.Builder
		quote   rune
		inToken bool
		quoted  bool
	)
	emit := func() {
		if inToken {
			args = append(args, arg{text: cur.String(), quoted: quoted})
		}
		cur.Reset()
		inToken, quoted = false, false
	}

	for _, r := range expr {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote, inToken, quoted = r, true, true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			emit()
		default:
			inToken = true
			cur.WriteRune(r)
		}
	}
	emit()
	return args
}

func (e *Engine) now() time.Time {
	return e.clock().In(e.loc)
}

func (e *Engine) intN(n int) int {
	if e.rng == nil {
		return rand.IntN(n)
	}
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.IntN(n)
}

func (e *Engine) int64N(n int64) int64 {
	if e.rng == nil {
		return rand.Int64N(n)
	}
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Int64N(n)
}

func (e *Engine) randFloat() float64 {
	if e.rng == nil {
		return rand.Float64()
	}
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}

// newUUID 使用注入的随机源时生成可复现的 v4 UUID
func (e *Engine) newUUID() string {
	if e.rng == nil {
		return uuid.NewString()
	}
	var b [16]byte
	for i := range b {
		b[i] = byte(e.intN(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b).String()
}
