package ipsl

// Environment binds symbols to Values. Lookups walk up the parent
// chain; Def always walks all the way to the root so a name bound with
// def is visible globally, while Put binds only in this environment
// (used for builtin registration and, eventually, function call
// frames).
type Environment struct {
	parent *Environment
	vars   map[string]*Value
}

// NewEnvironment returns a root environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]*Value)}
}

// NewChild returns a new environment whose lookups fall back to env
// when a symbol isn't found locally.
func (env *Environment) NewChild() *Environment {
	return &Environment{parent: env, vars: make(map[string]*Value)}
}

// Get looks up sym in env, then in env's ancestors. It returns a copy
// of the bound Value so callers can freely mutate what they get back.
func (env *Environment) Get(sym string) (*Value, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.vars[sym]; ok {
			return v.Copy(), true
		}
	}
	return nil, false
}

// Put binds sym to v in env itself, shadowing any binding of the same
// name in an ancestor.
func (env *Environment) Put(sym string, v *Value) {
	env.vars[sym] = v.Copy()
}

// Def binds sym to v in the root environment of env's parent chain, so
// the binding is visible from every descendant environment.
func (env *Environment) Def(sym string, v *Value) {
	root := env
	for root.parent != nil {
		root = root.parent
	}
	root.vars[sym] = v.Copy()
}

// Eval evaluates v in env. Symbols resolve to their bound value (or an
// error, if unbound); S-expressions evaluate their children and then
// apply the leading function to the rest, short-circuiting on the
// first error encountered; every other kind evaluates to itself.
func (env *Environment) Eval(v *Value) *Value {
	switch v.Kind {
	case ValueSymbol:
		bound, ok := env.Get(v.Sym)
		if !ok {
			return NewError("Unbound symbol '%s'!", v.Sym)
		}
		return bound
	case ValueSExpression:
		return env.evalSExpression(v)
	default:
		return v
	}
}

func (env *Environment) evalSExpression(v *Value) *Value {
	evaluated := make([]*Value, len(v.Cells))
	for i, c := range v.Cells {
		r := env.Eval(c)
		if r.Kind == ValueError {
			return r
		}
		evaluated[i] = r
	}

	switch len(evaluated) {
	case 0:
		return NewSExpression()
	case 1:
		return evaluated[0]
	}

	head := evaluated[0]
	if head.Kind != ValueFunction {
		return NewError("S-Expression starts with incorrect type! Got %s, expected Function!", head.TypeName())
	}

	args := NewQExpression()
	args.Cells = evaluated[1:]
	return env.Call(head, args)
}

// Call applies fn to args (a QExpression of already-evaluated
// arguments). Builtins run directly; calling a user-defined function
// (constructed with \, see NewLambda) is explicitly unimplemented and
// always returns an error, since this language has no facility for
// binding formals to a call frame and evaluating a function body.
func (env *Environment) Call(fn *Value, args *Value) *Value {
	if fn.Kind != ValueFunction {
		return NewError("cannot call a value of kind %s", fn.TypeName())
	}
	if fn.Builtin != nil {
		return fn.Builtin(env, args)
	}
	return NewError("User-defined functions are not implemented yet!")
}
