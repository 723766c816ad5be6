package ipsl_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/cwbudde/pmdiffuse/internal/ipsl"
)

type BlackboardSuite struct {
	suite.Suite
	env *ipsl.Environment
}

func (s *BlackboardSuite) SetupTest() {
	s.env = ipsl.NewEnvironment()
	ipsl.RegisterBuiltins(s.env)
}

func (s *BlackboardSuite) TestSuccessfulRunPopulatesEveryStage() {
	require := require.New(s.T())
	bb := ipsl.NewBlackboard("t.ipsl", "(+ 1 2)")
	result := bb.Run(s.env)

	require.NotEmpty(bb.Tokens)
	require.NotNil(bb.AST)
	require.NotNil(bb.Value)
	require.True(bb.Ok())
	require.Equal(float64(3), result.Num)
}

func (s *BlackboardSuite) TestParseFailureStopsBeforeEval() {
	require := require.New(s.T())
	bb := ipsl.NewBlackboard("t.ipsl", "(+ 1 2")
	bb.Run(s.env)

	require.NotEmpty(bb.Tokens)
	require.Nil(bb.AST)
	require.False(bb.Ok())
}

func (s *BlackboardSuite) TestEvalFailureIsRecordedAsError() {
	require := require.New(s.T())
	bb := ipsl.NewBlackboard("t.ipsl", "(/ 1 0)")
	bb.Run(s.env)

	require.NotNil(bb.AST)
	require.False(bb.Ok())
	require.Len(bb.Errors, 1)
}

func (s *BlackboardSuite) TestLexerEscapeErrorIsCollectedAlongsideSuccessfulEval() {
	require := require.New(s.T())
	bb := ipsl.NewBlackboard("t.ipsl", `"a\qb"`)
	result := bb.Run(s.env)

	require.False(bb.Ok())
	require.Len(bb.Errors, 1)
	require.Equal("Unknown escape sequence!", bb.Errors[0].Message)
	require.NotNil(result)
	require.Equal(ipsl.ValueString, result.Kind)
	require.Equal("ab", result.Str)
}

func TestBlackboardSuite(t *testing.T) {
	suite.Run(t, new(BlackboardSuite))
}
