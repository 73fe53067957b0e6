package reject

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moveBody struct {
	Column   *int   `validate:"required"`
	Opponent string `validate:"required"`
}

func TestBindProblemListsViolations(t *testing.T) {
	err := validator.New().Struct(moveBody{})
	require.Error(t, err)

	p := BindProblem(err)

	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, invalidRequest, p.Code)
	require.Len(t, p.Errors, 2)
	assert.Equal(t, "Column", p.Errors[0].Property)
	assert.Equal(t, "required", p.Errors[0].Code)
	assert.Equal(t, "Opponent", p.Errors[1].Property)
}

func TestBindProblemFallsBackToParseProblem(t *testing.T) {
	p := BindProblem(errors.New("unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Equal(t, cannotParseBody, p.Code)
	assert.Empty(t, p.Errors)
}

func TestUnexpectedKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	trace := Unexpected(cause)

	assert.Equal(t, http.StatusInternalServerError, trace.Problem.Status)
	assert.ErrorIs(t, trace, cause)
}
