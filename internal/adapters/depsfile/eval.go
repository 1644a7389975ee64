package depsfile

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"go.starlark.net/syntax"
	"go.trai.ch/pinsync/internal/core/domain"
	"go.trai.ch/zerr"
)

// evaluator walks a parsed DEPS file. Top-level bindings are the only state.
type evaluator struct {
	path    string
	globals map[string]any
}

func newEvaluator(path string) *evaluator {
	return &evaluator{
		path: path,
		globals: map[string]any{
			"deps_os": map[string]any{},
		},
	}
}

func (e *evaluator) execFile(f *syntax.File) error {
	for _, stmt := range f.Stmts {
		if err := e.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (e *evaluator) exec(stmt syntax.Stmt) error {
	switch s := stmt.(type) {
	case *syntax.AssignStmt:
		return e.assign(s)
	case *syntax.ExprStmt:
		_, err := e.eval(s.X)
		return err
	case *syntax.BranchStmt:
		if s.Token == syntax.PASS {
			return nil
		}
	}
	return e.fail(stmt, "unsupported statement")
}

func (e *evaluator) assign(s *syntax.AssignStmt) error {
	id, ok := s.LHS.(*syntax.Ident)
	if !ok {
		return e.fail(s.LHS, "only plain names can be assigned")
	}

	v, err := e.eval(s.RHS)
	if err != nil {
		return err
	}

	switch s.Op {
	case syntax.EQ:
		e.globals[id.Name] = v
		return nil
	case syntax.PLUS_EQ:
		old, ok := e.globals[id.Name]
		if !ok {
			return e.fail(s.LHS, "name %q is not defined", id.Name)
		}
		sum, err := e.add(s, old, v)
		if err != nil {
			return err
		}
		e.globals[id.Name] = sum
		return nil
	default:
		return e.fail(s, "unsupported assignment operator %s", s.Op)
	}
}

//nolint:cyclop // one case per accepted expression form
func (e *evaluator) eval(expr syntax.Expr) (any, error) {
	switch x := expr.(type) {
	case *syntax.Literal:
		return e.literal(x)
	case *syntax.Ident:
		return e.ident(x)
	case *syntax.ParenExpr:
		return e.eval(x.X)
	case *syntax.DictExpr:
		return e.dict(x)
	case *syntax.ListExpr:
		return e.list(x.List)
	case *syntax.TupleExpr:
		return e.list(x.List)
	case *syntax.UnaryExpr:
		return e.unary(x)
	case *syntax.BinaryExpr:
		return e.binary(x)
	case *syntax.CallExpr:
		return e.call(x)
	default:
		return nil, e.fail(expr, "unsupported expression")
	}
}

func (e *evaluator) literal(x *syntax.Literal) (any, error) {
	switch v := x.Value.(type) {
	case string:
		return v, nil
	case int64:
		return v, nil
	case float64:
		return v, nil
	case *big.Int:
		return nil, e.fail(x, "integer literal %s is too large", x.Raw)
	default:
		return nil, e.fail(x, "unsupported literal %s", x.Raw)
	}
}

func (e *evaluator) ident(x *syntax.Ident) (any, error) {
	switch x.Name {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	}
	if v, ok := e.globals[x.Name]; ok {
		return v, nil
	}
	return nil, e.fail(x, "name %q is not defined", x.Name)
}

func (e *evaluator) dict(x *syntax.DictExpr) (any, error) {
	out := make(map[string]any, len(x.List))
	for _, item := range x.List {
		entry, ok := item.(*syntax.DictEntry)
		if !ok {
			return nil, e.fail(item, "malformed dict entry")
		}
		k, err := e.eval(entry.Key)
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			return nil, e.fail(entry.Key, "dict keys must be strings, got %s", typeName(k))
		}
		v, err := e.eval(entry.Value)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func (e *evaluator) list(items []syntax.Expr) (any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		v, err := e.eval(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *evaluator) unary(x *syntax.UnaryExpr) (any, error) {
	v, err := e.eval(x.X)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case syntax.NOT:
		b, ok := v.(bool)
		if !ok {
			return nil, e.fail(x, "'not' needs a bool, got %s", typeName(v))
		}
		return !b, nil
	case syntax.MINUS:
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, e.fail(x, "unary '-' needs a number, got %s", typeName(v))
	default:
		return nil, e.fail(x, "unsupported unary operator %s", x.Op)
	}
}

func (e *evaluator) binary(x *syntax.BinaryExpr) (any, error) {
	left, err := e.eval(x.X)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(x.Y)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case syntax.PLUS:
		return e.add(x, left, right)
	case syntax.PERCENT:
		format, ok := left.(string)
		if !ok {
			return nil, e.fail(x, "'%%' needs a format string, got %s", typeName(left))
		}
		return e.format(x, format, right)
	default:
		return nil, e.fail(x, "unsupported operator %s", x.Op)
	}
}

func (e *evaluator) add(node syntax.Node, left, right any) (any, error) {
	switch l := left.(type) {
	case string:
		if r, ok := right.(string); ok {
			return l + r, nil
		}
	case int64:
		if r, ok := right.(int64); ok {
			return l + r, nil
		}
	case []any:
		if r, ok := right.([]any); ok {
			out := make([]any, 0, len(l)+len(r))
			out = append(out, l...)
			return append(out, r...), nil
		}
	}
	return nil, e.fail(node, "unsupported operands for '+': %s and %s", typeName(left), typeName(right))
}

// format implements the %s, %d and %% verbs of Python string interpolation.
func (e *evaluator) format(node syntax.Node, format string, arg any) (any, error) {
	args, ok := arg.([]any)
	if !ok {
		args = []any{arg}
	}

	var b strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(format) {
			return nil, e.fail(node, "incomplete format")
		}
		verb := format[i]
		if verb == '%' {
			b.WriteByte('%')
			continue
		}
		if next == len(args) {
			return nil, e.fail(node, "not enough arguments for format string")
		}
		v := args[next]
		next++
		switch verb {
		case 's':
			b.WriteString(str(v))
		case 'd':
			n, ok := v.(int64)
			if !ok {
				return nil, e.fail(node, "%%d format needs an int, got %s", typeName(v))
			}
			b.WriteString(strconv.FormatInt(n, 10))
		default:
			return nil, e.fail(node, "unsupported format verb %%%c", verb)
		}
	}
	if next != len(args) {
		return nil, e.fail(node, "not all arguments converted during string formatting")
	}
	return b.String(), nil
}

func (e *evaluator) call(x *syntax.CallExpr) (any, error) {
	fn, ok := x.Fn.(*syntax.Ident)
	if !ok {
		return nil, e.fail(x, "only Var() and Str() can be called")
	}
	if len(x.Args) != 1 {
		return nil, e.fail(x, "%s() takes exactly one argument", fn.Name)
	}
	if bin, ok := x.Args[0].(*syntax.BinaryExpr); ok && bin.Op == syntax.EQ {
		return nil, e.fail(x, "%s() takes no keyword arguments", fn.Name)
	}

	arg, err := e.eval(x.Args[0])
	if err != nil {
		return nil, err
	}

	switch fn.Name {
	case "Var":
		name, ok := arg.(string)
		if !ok {
			return nil, e.fail(x, "Var() needs a string, got %s", typeName(arg))
		}
		return e.lookupVar(x, name)
	case "Str":
		s, ok := arg.(string)
		if !ok {
			return nil, e.fail(x, "Str() needs a string, got %s", typeName(arg))
		}
		return s, nil
	default:
		return nil, e.fail(x, "call to unknown function %s()", fn.Name)
	}
}

// lookupVar resolves name against the vars binding assigned so far.
func (e *evaluator) lookupVar(node syntax.Node, name string) (any, error) {
	if vars, ok := e.globals[VarsName].(map[string]any); ok {
		if v, ok := vars[name]; ok {
			return v, nil
		}
	}
	start, _ := node.Span()
	return nil, zerr.With(
		zerr.With(
			zerr.With(domain.ErrUndefinedVar, "var", name),
			"path", e.path,
		),
		"pos", start.String(),
	)
}

func (e *evaluator) fail(node syntax.Node, format string, args ...any) error {
	start, _ := node.Span()
	return zerr.With(
		zerr.With(
			zerr.Wrap(fmt.Errorf(format, args...), domain.ErrManifestParseFailed.Error()),
			"path", e.path,
		),
		"pos", start.String(),
	)
}

func str(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "True"
		}
		return "False"
	case nil:
		return "None"
	default:
		return fmt.Sprint(x)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	case nil:
		return "NoneType"
	default:
		return fmt.Sprintf("%T", v)
	}
}
