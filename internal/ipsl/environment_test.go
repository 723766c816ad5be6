package ipsl_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/cwbudde/pmdiffuse/internal/ipsl"
)

type EnvironmentSuite struct {
	suite.Suite
	env *ipsl.Environment
}

func (s *EnvironmentSuite) SetupTest() {
	s.env = ipsl.NewEnvironment()
	ipsl.RegisterBuiltins(s.env)
}

func (s *EnvironmentSuite) eval(src string) *ipsl.Value {
	ast, err := ipsl.Parse("t", src)
	s.Require().NoError(err)
	return s.env.Eval(ipsl.FromNode(ast).Cells[0])
}

func (s *EnvironmentSuite) TestUnboundSymbolIsError() {
	require := require.New(s.T())
	v, ok := s.env.Get("nope")
	require.False(ok)
	require.Nil(v)
}

func (s *EnvironmentSuite) TestDefIsVisibleFromChildEnvironment() {
	require := require.New(s.T())
	child := s.env.NewChild()
	s.env.Def("x", ipsl.NewNumber(7))
	v, ok := child.Get("x")
	require.True(ok)
	require.Equal(float64(7), v.Num)
}

func (s *EnvironmentSuite) TestPutDoesNotLeakToParent() {
	require := require.New(s.T())
	child := s.env.NewChild()
	child.Put("y", ipsl.NewNumber(9))
	_, ok := s.env.Get("y")
	require.False(ok)
}

func (s *EnvironmentSuite) TestArithmeticBuiltins() {
	require := require.New(s.T())
	result := s.eval("(+ 1 2 3)")
	require.Equal(ipsl.ValueNumber, result.Kind)
	require.Equal(float64(6), result.Num)

	result = s.eval("(- 10 3 2)")
	require.Equal(float64(5), result.Num)

	result = s.eval("(* 2 3 4)")
	require.Equal(float64(24), result.Num)

	result = s.eval("(/ 10 2)")
	require.Equal(float64(5), result.Num)
}

func (s *EnvironmentSuite) TestDivisionByZeroIsError() {
	require := require.New(s.T())
	result := s.eval("(/ 1 0)")
	require.Equal(ipsl.ValueError, result.Kind)
}

func (s *EnvironmentSuite) TestListHeadTailJoinEval() {
	require := require.New(s.T())

	require.Equal(ipsl.ValueQExpression, s.eval("(list 1 2 3)").Kind)

	head := s.eval("(head {1 2 3})")
	require.Len(head.Cells, 1)
	require.Equal(float64(1), head.Cells[0].Num)

	tail := s.eval("(tail {1 2 3})")
	require.Len(tail.Cells, 2)
	require.Equal(float64(2), tail.Cells[0].Num)

	joined := s.eval("(join {1 2} {3})")
	require.Len(joined.Cells, 3)

	evaled := s.eval("(eval {+ 1 2})")
	require.Equal(ipsl.ValueNumber, evaled.Kind)
	require.Equal(float64(3), evaled.Num)
}

func (s *EnvironmentSuite) TestHeadOnEmptyQExpressionIsError() {
	require := require.New(s.T())
	result := s.eval("(head {})")
	require.Equal(ipsl.ValueError, result.Kind)
}

func (s *EnvironmentSuite) TestDefBindsGlobally() {
	require := require.New(s.T())
	result := s.eval("(def {answer} 42)")
	require.NotEqual(ipsl.ValueError, result.Kind)
	v, ok := s.env.Get("answer")
	require.True(ok)
	require.Equal(float64(42), v.Num)
}

func (s *EnvironmentSuite) TestLambdaConstructsButCannotBeCalled() {
	require := require.New(s.T())
	fn := s.eval("(\\ {x} {x})")
	require.Equal(ipsl.ValueFunction, fn.Kind)
	require.True(fn.IsLambda())

	result := s.eval("((\\ {x} {x}) 5)")
	require.Equal(ipsl.ValueError, result.Kind)
	require.Contains(result.Err, "not implemented")
}

func (s *EnvironmentSuite) TestCallingNonFunctionHeadIsError() {
	require := require.New(s.T())
	result := s.eval("(1 2 3)")
	require.Equal(ipsl.ValueError, result.Kind)
	require.Equal("S-Expression starts with incorrect type! Got Number, expected Function!", result.Err)
}

func (s *EnvironmentSuite) TestUnboundSymbolErrorWording() {
	require := require.New(s.T())
	result := s.eval("nope")
	require.Equal(ipsl.ValueError, result.Kind)
	require.Equal("Unbound symbol 'nope'!", result.Err)
}

func TestEnvironmentSuite(t *testing.T) {
	suite.Run(t, new(EnvironmentSuite))
}
