package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder writes Problem Details responses.
type Responder struct {
	// BaseURI is prepended to relative problem type URIs.
	BaseURI string
}

func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

// DefaultResponder uses relative URIs for problem types.
var DefaultResponder = NewResponder("")

// Respond sends a ProblemDetail response with proper content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError converts err to a ProblemDetail. Errors that are not already
// problems become 500s carrying the original message.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}

func (r *Responder) NotFound(c *gin.Context, resourceType string, identifier any) {
	r.Respond(c, NewNotFoundProblem(resourceType, identifier))
}

func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

func (r *Responder) ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	r.Respond(c, NewValidationProblem(fieldErrors))
}

func (r *Responder) InternalError(c *gin.Context, detail string) {
	r.Respond(c, ErrInternal.WithDetail(detail))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, problem ProblemDetail) {
	DefaultResponder.Respond(c, problem)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}

// ErrorMapper maps domain/application errors to ProblemDetail.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder tries each registered mapper before the default handling.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(baseURI),
		mappers:   mappers,
	}
}

func (r *ChainedResponder) AddMapper(mapper ErrorMapper) {
	r.mappers = append(r.mappers, mapper)
}

func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	if problem, ok := r.Map(err); ok {
		r.Respond(c, problem)
		return
	}
	r.Responder.RespondError(c, err)
}

// Map runs the mapper chain without writing a response.
func (r *ChainedResponder) Map(err error) (ProblemDetail, bool) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem, true
		}
	}
	return ProblemDetail{}, false
}

// MapSentinels builds an ErrorMapper that matches err against each sentinel
// with errors.Is and answers with the paired template, detail set to err.
func MapSentinels(template ProblemDetail, sentinels ...error) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		for _, sentinel := range sentinels {
			if errors.Is(err, sentinel) {
				return template.WithDetail(err.Error()), true
			}
		}
		return ProblemDetail{}, false
	}
}

// HTTPStatusFromError extracts HTTP status from an error if possible.
func HTTPStatusFromError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}
