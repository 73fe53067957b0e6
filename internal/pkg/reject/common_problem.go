package reject

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	genericUnexpectedError string = "error.generic.unexpected"
	cannotParseParams      string = "error.generic.cannot-parse-params"
	invalidRequest         string = "error.generic.invalid-request-payload"
	cannotParseBody        string = "error.generic.cannot-parse-payload"
)

// RequestValidationProblem lists every field that failed its binding rule.
func RequestValidationProblem(violations validator.ValidationErrors) Problem {
	details := make([]ProblemDetail, 0, len(violations))
	for _, v := range violations {
		details = append(details, ProblemDetail{
			Property: v.Field(),
			Info:     v.Error(),
			Code:     v.Tag(),
		})
	}
	return NewProblem().
		WithTitle("Invalid request payload").
		WithStatus(http.StatusBadRequest).
		WithCode(invalidRequest).
		WithErrors(details).
		Build()
}

// BindProblem reports a failed gin bind: validation failures as RequestValidationProblem,
// anything else as an unreadable body.
func BindProblem(err error) Problem {
	var violations validator.ValidationErrors
	if errors.As(err, &violations) {
		return RequestValidationProblem(violations)
	}
	return BodyParseProblem()
}

func RequestParamsProblem() Problem {
	return NewProblem().
		WithTitle("Invalid request parameters").
		WithStatus(http.StatusBadRequest).
		WithCode(cannotParseParams).
		Build()
}

func BodyParseProblem() Problem {
	return NewProblem().
		WithTitle("Cannot read payload").
		WithStatus(http.StatusBadRequest).
		WithCode(cannotParseBody).
		Build()
}

func UnexpectedProblem(err error) Problem {
	log.Warn().Err(err).Msg("Unexpected error while handling request")
	return NewProblem().
		WithTitle("Unexpected error").
		WithStatus(http.StatusInternalServerError).
		WithCode(genericUnexpectedError).
		Build()
}

// Unexpected wraps err into a trace carrying UnexpectedProblem.
func Unexpected(err error) *ProblemWithTrace {
	return &ProblemWithTrace{
		Problem: UnexpectedProblem(err),
		Cause:   err,
	}
}
