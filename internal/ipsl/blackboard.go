package ipsl

// Blackboard threads a single source text through the interpreter
// pipeline (lex, parse, convert, evaluate), accumulating the
// intermediate artifact at each stage so a caller can inspect where a
// run stopped — a partially filled Blackboard (tokens but no AST, say)
// tells its own story about which stage failed.
type Blackboard struct {
	Source string
	Text   string

	Tokens []Token
	AST    *Node
	Value  *Value
	Result *Value

	Errors []*Error
}

// NewBlackboard starts a pipeline run over text, identified as source
// in any locations reported against it.
func NewBlackboard(source, text string) *Blackboard {
	return &Blackboard{Source: source, Text: text}
}

func (bb *Blackboard) fail(loc Location, format string, args ...interface{}) {
	bb.Errors = append(bb.Errors, NewLocatedError(loc, format, args...))
}

// Ok reports whether the pipeline has accumulated no errors so far.
func (bb *Blackboard) Ok() bool {
	return len(bb.Errors) == 0
}

// Run lexes, parses, converts, and evaluates bb.Text against env in
// sequence, stopping at the first stage that fails and leaving
// whatever artifacts were produced before the failure in place.
func (bb *Blackboard) Run(env *Environment) *Value {
	lex := NewLexer(bb.Source, bb.Text)
	bb.Tokens = lex.Tokenize()
	bb.Errors = append(bb.Errors, lex.Errors...)

	parser := NewParser(NewLexer(bb.Source, bb.Text))
	ast, err := parser.Parse()
	if err != nil {
		bb.fail(Location{Source: bb.Source}, "%v", err)
		return nil
	}
	bb.AST = ast

	bb.Value = FromNode(ast)
	bb.Result = env.Eval(bb.Value)
	if bb.Result != nil && bb.Result.Kind == ValueError {
		bb.fail(Location{Source: bb.Source}, "%s", bb.Result.Err)
	}
	return bb.Result
}
