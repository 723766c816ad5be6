package ipsl

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the variant a Value currently holds.
type ValueKind int

const (
	ValueError ValueKind = iota
	ValueNumber
	ValueSymbol
	ValueString
	ValueFunction
	ValueSExpression
	ValueQExpression
)

// String returns the human-readable type name spec-mandated error
// messages quote (e.g. "S-Expression starts with incorrect type! Got
// Number, expected Function!").
func (k ValueKind) String() string {
	switch k {
	case ValueError:
		return "Error"
	case ValueNumber:
		return "Number"
	case ValueSymbol:
		return "Symbol"
	case ValueString:
		return "String"
	case ValueFunction:
		return "Function"
	case ValueSExpression:
		return "S-Expression"
	case ValueQExpression:
		return "Q-Expression"
	default:
		return "Unknown"
	}
}

// Builtin is the signature every builtin function implements: given the
// environment it was called in and its already-evaluated argument list
// (a QExpression), produce a result Value.
type Builtin func(env *Environment, args *Value) *Value

// Value is the tagged-variant runtime value every expression evaluates
// to: a number, symbol, string, function, or an S-/Q-expression holding
// a list of child Values.
type Value struct {
	Kind ValueKind

	Num float64
	Sym string
	Str string
	Err string

	// Function fields. A Value of kind ValueFunction is either a
	// builtin (Builtin non-nil) or a user-defined lambda (Formals/Body
	// non-nil, built by NewLambda) — calling the latter is explicitly
	// unimplemented, see Environment.Call.
	Name    string
	Builtin Builtin
	Formals *Value
	Body    *Value

	Cells []*Value
}

// NewNumber returns a number value.
func NewNumber(n float64) *Value {
	return &Value{Kind: ValueNumber, Num: n}
}

// NewSymbol returns a symbol value.
func NewSymbol(sym string) *Value {
	return &Value{Kind: ValueSymbol, Sym: sym}
}

// NewString returns a string value.
func NewString(s string) *Value {
	return &Value{Kind: ValueString, Str: s}
}

// NewError returns an error value formatted like fmt.Sprintf.
func NewError(format string, args ...interface{}) *Value {
	return &Value{Kind: ValueError, Err: fmt.Sprintf(format, args...)}
}

// NewSExpression returns an empty S-expression value.
func NewSExpression() *Value {
	return &Value{Kind: ValueSExpression}
}

// NewQExpression returns an empty Q-expression value.
func NewQExpression() *Value {
	return &Value{Kind: ValueQExpression}
}

// NewBuiltinFunction wraps fn as a named builtin function value.
func NewBuiltinFunction(name string, fn Builtin) *Value {
	return &Value{Kind: ValueFunction, Name: name, Builtin: fn}
}

// NewLambda constructs a user-defined function value out of a formals
// list and a body, both Q-expressions. The resulting Value is a valid
// function value that Environment.Call recognizes, but calling it
// always fails: evaluating user-defined function bodies is explicitly
// unimplemented (see Environment.Call).
func NewLambda(formals, body *Value) *Value {
	return &Value{Kind: ValueFunction, Name: "\\", Formals: formals, Body: body}
}

// IsLambda reports whether v is a user-defined (non-builtin) function.
func (v *Value) IsLambda() bool {
	return v.Kind == ValueFunction && v.Builtin == nil
}

// Add appends child to v's Cells and returns v, for incremental
// construction of S-/Q-expressions.
func (v *Value) Add(child *Value) *Value {
	v.Cells = append(v.Cells, child)
	return v
}

// Pop removes and returns the Value at index i, shifting later cells
// down. Pop panics if i is out of range — an out-of-range pop is always
// a caller bug in a builtin, never user input.
func (v *Value) Pop(i int) *Value {
	cell := v.Cells[i]
	v.Cells = append(v.Cells[:i], v.Cells[i+1:]...)
	return cell
}

// Take pops index i and discards everything else in v.
func (v *Value) Take(i int) *Value {
	cell := v.Pop(i)
	v.Cells = nil
	return cell
}

// Join appends other's cells onto v's and returns v. other is left
// empty.
func (v *Value) Join(other *Value) *Value {
	for len(other.Cells) > 0 {
		v.Add(other.Pop(0))
	}
	return v
}

// Copy returns a deep copy of v.
func (v *Value) Copy() *Value {
	out := &Value{
		Kind:    v.Kind,
		Num:     v.Num,
		Sym:     v.Sym,
		Str:     v.Str,
		Err:     v.Err,
		Name:    v.Name,
		Builtin: v.Builtin,
	}
	if v.Formals != nil {
		out.Formals = v.Formals.Copy()
	}
	if v.Body != nil {
		out.Body = v.Body.Copy()
	}
	if v.Cells != nil {
		out.Cells = make([]*Value, len(v.Cells))
		for i, c := range v.Cells {
			out.Cells[i] = c.Copy()
		}
	}
	return out
}

// TypeName returns the human-readable name of v's kind, used in error
// messages ("expected number, got String").
func (v *Value) TypeName() string {
	return v.Kind.String()
}

// String renders v the way the interpreter would print it back to a
// user: numbers in minimal decimal form, strings quoted, lists
// parenthesized/braced, builtin functions by name, and lambdas as
// (\ formals body).
func (v *Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValueSymbol:
		return v.Sym
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueError:
		return "Error: " + v.Err
	case ValueFunction:
		if v.Builtin != nil {
			return "<builtin " + v.Name + ">"
		}
		return "(\\ " + v.Formals.String() + " " + v.Body.String() + ")"
	case ValueSExpression:
		return wrap(v.Cells, "(", ")")
	case ValueQExpression:
		return wrap(v.Cells, "{", "}")
	default:
		return "<unknown>"
	}
}

func wrap(cells []*Value, open, close string) string {
	var b strings.Builder
	b.WriteString(open)
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	b.WriteString(close)
	return b.String()
}

// FromNode converts a parsed AST node into a runtime Value. NodeRoot
// and NodeSExpression become ValueSExpression, NodeQExpression becomes
// ValueQExpression, and leaf kinds become their corresponding scalar
// Value. NodeExpression is transparent: it always wraps exactly one
// child and converts to whatever that child converts to. A malformed
// number literal (should not occur given the lexer's own number
// grammar, but checked anyway since this is a trust boundary between
// two packages) yields a ValueError.
func FromNode(n *Node) *Value {
	switch n.Kind {
	case NodeExpression:
		return FromNode(n.Children[0])
	case NodeRoot, NodeSExpression:
		v := NewSExpression()
		for _, c := range n.Children {
			v.Add(FromNode(c))
		}
		return v
	case NodeQExpression:
		v := NewQExpression()
		for _, c := range n.Children {
			v.Add(FromNode(c))
		}
		return v
	case NodeNumber:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return NewError("invalid number %q at %s", n.Value, n.Location)
		}
		return NewNumber(f)
	case NodeSymbol:
		return NewSymbol(n.Value)
	case NodeString, NodeComment:
		return NewString(n.Value)
	default:
		return NewError("cannot convert node kind %s to a value", n.Kind)
	}
}
