package ipsl

// RegisterBuiltins binds the standard arithmetic, list, and
// function-construction vocabulary into env: "+ - * /", the
// Q-expression operators "list head tail join eval", "def" for global
// binding, and "\" to construct (but never call) a user-defined
// function.
func RegisterBuiltins(env *Environment) {
	env.Put("+", NewBuiltinFunction("+", builtinAdd))
	env.Put("-", NewBuiltinFunction("-", builtinSub))
	env.Put("*", NewBuiltinFunction("*", builtinMul))
	env.Put("/", NewBuiltinFunction("/", builtinDiv))

	env.Put("list", NewBuiltinFunction("list", builtinList))
	env.Put("head", NewBuiltinFunction("head", builtinHead))
	env.Put("tail", NewBuiltinFunction("tail", builtinTail))
	env.Put("join", NewBuiltinFunction("join", builtinJoin))
	env.Put("eval", NewBuiltinFunction("eval", builtinEval))

	env.Put("def", NewBuiltinFunction("def", builtinDef))
	env.Put("\\", NewBuiltinFunction("\\", builtinLambda))
}

func assertAllNumbers(name string, args *Value) *Value {
	for _, c := range args.Cells {
		if c.Kind != ValueNumber {
			return NewError("%s: expected number, got %s", name, c.TypeName())
		}
	}
	return nil
}

func builtinAdd(_ *Environment, args *Value) *Value {
	if err := assertAllNumbers("+", args); err != nil {
		return err
	}
	sum := 0.0
	for _, c := range args.Cells {
		sum += c.Num
	}
	return NewNumber(sum)
}

func builtinSub(_ *Environment, args *Value) *Value {
	if err := assertAllNumbers("-", args); err != nil {
		return err
	}
	if len(args.Cells) == 0 {
		return NewError("-: expected at least 1 argument, got 0")
	}
	if len(args.Cells) == 1 {
		return NewNumber(-args.Cells[0].Num)
	}
	result := args.Cells[0].Num
	for _, c := range args.Cells[1:] {
		result -= c.Num
	}
	return NewNumber(result)
}

func builtinMul(_ *Environment, args *Value) *Value {
	if err := assertAllNumbers("*", args); err != nil {
		return err
	}
	product := 1.0
	for _, c := range args.Cells {
		product *= c.Num
	}
	return NewNumber(product)
}

func builtinDiv(_ *Environment, args *Value) *Value {
	if err := assertAllNumbers("/", args); err != nil {
		return err
	}
	if len(args.Cells) == 0 {
		return NewError("/: expected at least 1 argument, got 0")
	}
	if len(args.Cells) == 1 {
		if args.Cells[0].Num == 0 {
			return NewError("/: division by zero")
		}
		return NewNumber(1 / args.Cells[0].Num)
	}
	result := args.Cells[0].Num
	for _, c := range args.Cells[1:] {
		if c.Num == 0 {
			return NewError("/: division by zero")
		}
		result /= c.Num
	}
	return NewNumber(result)
}

// builtinList returns its evaluated arguments as a Q-expression,
// leaving the already-built args value untouched by copying it.
func builtinList(_ *Environment, args *Value) *Value {
	return args.Copy()
}

func builtinHead(_ *Environment, args *Value) *Value {
	if len(args.Cells) != 1 {
		return NewError("head: expected 1 argument, got %d", len(args.Cells))
	}
	q := args.Cells[0]
	if q.Kind != ValueQExpression {
		return NewError("head: expected a Q-expression, got %s", q.TypeName())
	}
	if len(q.Cells) == 0 {
		return NewError("head: expected a non-empty Q-expression")
	}
	out := NewQExpression()
	out.Add(q.Cells[0].Copy())
	return out
}

func builtinTail(_ *Environment, args *Value) *Value {
	if len(args.Cells) != 1 {
		return NewError("tail: expected 1 argument, got %d", len(args.Cells))
	}
	q := args.Cells[0]
	if q.Kind != ValueQExpression {
		return NewError("tail: expected a Q-expression, got %s", q.TypeName())
	}
	if len(q.Cells) == 0 {
		return NewError("tail: expected a non-empty Q-expression")
	}
	out := NewQExpression()
	for _, c := range q.Cells[1:] {
		out.Add(c.Copy())
	}
	return out
}

func builtinJoin(_ *Environment, args *Value) *Value {
	out := NewQExpression()
	for _, c := range args.Cells {
		if c.Kind != ValueQExpression {
			return NewError("join: expected a Q-expression, got %s", c.TypeName())
		}
		out.Join(c.Copy())
	}
	return out
}

func builtinEval(env *Environment, args *Value) *Value {
	if len(args.Cells) != 1 {
		return NewError("eval: expected 1 argument, got %d", len(args.Cells))
	}
	q := args.Cells[0]
	if q.Kind != ValueQExpression {
		return NewError("eval: expected a Q-expression, got %s", q.TypeName())
	}
	s := NewSExpression()
	for _, c := range q.Cells {
		s.Add(c.Copy())
	}
	return env.evalSExpression(s)
}

// builtinDef binds a list of names (the first argument, a Q-expression
// of symbols) to the remaining arguments' values, globally.
func builtinDef(env *Environment, args *Value) *Value {
	if len(args.Cells) < 1 {
		return NewError("def: expected at least 1 argument, got 0")
	}
	names := args.Cells[0]
	if names.Kind != ValueQExpression {
		return NewError("def: first argument must be a Q-expression of names, got %s", names.TypeName())
	}
	values := args.Cells[1:]
	if len(names.Cells) != len(values) {
		return NewError("def: %d names but %d values", len(names.Cells), len(values))
	}
	for _, n := range names.Cells {
		if n.Kind != ValueSymbol {
			return NewError("def: expected a symbol, got %s", n.TypeName())
		}
	}
	for i, n := range names.Cells {
		env.Def(n.Sym, values[i])
	}
	return NewSExpression()
}

// builtinLambda constructs a function value from a formals list and a
// body, both Q-expressions. See NewLambda and Environment.Call for why
// the result can be constructed but never invoked.
func builtinLambda(_ *Environment, args *Value) *Value {
	if len(args.Cells) != 2 {
		return NewError("\\: expected 2 arguments (formals, body), got %d", len(args.Cells))
	}
	formals, body := args.Cells[0], args.Cells[1]
	if formals.Kind != ValueQExpression {
		return NewError("\\: formals must be a Q-expression, got %s", formals.TypeName())
	}
	if body.Kind != ValueQExpression {
		return NewError("\\: body must be a Q-expression, got %s", body.TypeName())
	}
	for _, f := range formals.Cells {
		if f.Kind != ValueSymbol {
			return NewError("\\: formal parameters must be symbols, got %s", f.TypeName())
		}
	}
	return NewLambda(formals.Copy(), body.Copy())
}
