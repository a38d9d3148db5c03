package template

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Category groups helpers and names the error marker they produce,
// e.g. a failing Math helper renders as "[Math Error: ...]".
type Category string

const (
	CategoryComparison Category = "Comparison"
	CategoryMath       Category = "Math"
	CategoryString     Category = "String"
	CategoryDate       Category = "Date"
	CategoryCollection Category = "Collection"
	CategoryGeneration Category = "Generation"
	CategoryFaker      Category = "Faker"
)

// ArgKind is the coercion applied to a helper argument before the call.
type ArgKind int

const (
	ArgAny ArgKind = iota
	ArgString
	ArgNumber
)

// HelperFunc receives the coerced arguments. Omitted optional arguments are
// absent from args, so len(args) may be shorter than the declared params.
type HelperFunc func(e *Engine, args []any) (any, error)

// Helper 模板中可调用的具名函数
type Helper struct {
	Name     string
	Category Category
	Params   []ArgKind
	Optional int // 末尾可省略的参数个数
	Fn       HelperFunc
}

var (
	ErrUnknownHelper = errors.New("unknown helper")
	ErrArity         = errors.New("wrong number of arguments")
)

func (h *Helper) checkArity(n int) error {
	hi := len(h.Params)
	lo := hi - h.Optional
	if n >= lo && n <= hi {
		return nil
	}
	if lo == hi {
		return fmt.Errorf("%w: %s expects %d, got %d", ErrArity, h.Name, hi, n)
	}
	return fmt.Errorf("%w: %s expects %d to %d, got %d", ErrArity, h.Name, lo, hi, n)
}

func (h *Helper) coerce(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch h.Params[i] {
		case ArgString:
			out[i] = FormatValue(a)
		case ArgNumber:
			out[i] = ToNumber(a)
		default:
			out[i] = a
		}
	}
	return out
}

// Registry maps helper names to helpers. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	helpers map[string]*Helper
}

// NewRegistry returns a registry preloaded with the built-in catalogue.
func NewRegistry() *Registry {
	r := &Registry{helpers: make(map[string]*Helper)}
	for _, h := range builtinHelpers() {
		r.helpers[h.Name] = h
	}
	return r
}

// Register adds or replaces a helper.
func (r *Registry) Register(h *Helper) error {
	if h == nil || h.Name == "" || h.Fn == nil {
		return errors.New("helper needs a name and a function")
	}
	if h.Optional < 0 || h.Optional > len(h.Params) {
		return fmt.Errorf("helper %s: optional count %d out of range", h.Name, h.Optional)
	}
	if h.Category == "" {
		h.Category = "Helper"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.helpers[h.Name] = h
	return nil
}

// Lookup 按名称查找 helper
func (r *Registry) Lookup(name string) (*Helper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.helpers[name]
	return h, ok
}

// Names lists the registered helper names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.helpers))
	for name := range r.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func builtinHelpers() []*Helper {
	var all []*Helper
	all = append(all, comparisonHelpers()...)
	all = append(all, mathHelpers()...)
	all = append(all, stringHelpers()...)
	all = append(all, dateHelpers()...)
	all = append(all, collectionHelpers()...)
	all = append(all, generationHelpers()...)
	all = append(all, &Helper{
		Name:     "faker",
		Category: CategoryFaker,
		Params:   []ArgKind{ArgString},
		Fn: func(e *Engine, args []any) (any, error) {
			return e.fake(args[0].(string)), nil
		},
	})
	return all
}
