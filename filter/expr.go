package filter

import (
	"maps"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/filmquery/film"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	envPool    *sync.Pool
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[CompiledFilter]
	envPool     *sync.Pool
}

// NewExprCompiler creates a new expr-based filter compiler. Expressions see the
// record fields Title, Year, Awards, Nominations, IsBestPicture and
// NumberOfReferences plus the helper functions.
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
		envPool:     &sync.Pool{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.envPool.New = func() any {
		env := make(map[string]any, len(c.helperFuncs)+6)
		maps.Copy(env, c.helperFuncs)
		return env
	}

	return c
}

var defaultCompiler = NewExprCompiler(WithCache(100))

// CompileFilter compiles an expression with the shared default compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	env := make(map[string]any, len(c.helperFuncs)+6)
	maps.Copy(env, c.helperFuncs)
	setRecordFields(env, film.Record{})

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		envPool:    c.envPool,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against a record. Runtime errors count as no match.
func (f *exprFilter) Evaluate(record film.Record) bool {
	env := f.envPool.Get().(map[string]any)
	defer f.envPool.Put(env)

	setRecordFields(env, record)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	// AsBool at compile time guarantees the type
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

func setRecordFields(env map[string]any, record film.Record) {
	env["Title"] = record.Title
	env["Year"] = record.Year
	env["Awards"] = record.Awards
	env["Nominations"] = record.Nominations
	env["IsBestPicture"] = record.IsBestPicture
	env["NumberOfReferences"] = record.NumberOfReferences
}

// createHelperFunctions creates the static helper functions
func createHelperFunctions() map[string]any {
	return map[string]any{
		"containsFold": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefixFold": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"hasSuffixFold": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"between": func(v, lo, hi int) bool {
			return v >= lo && v <= hi
		},
	}
}
