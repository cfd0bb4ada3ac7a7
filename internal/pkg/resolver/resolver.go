package resolver

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
)

// ErrEmptyCandidateSet is returned when Resolve is called without candidates.
var ErrEmptyCandidateSet = errors.New("resolver: empty candidate set")

// Caller performs a single candidate request. A non-nil error means no
// response was obtained (transport failure or cancellation).
type Caller interface {
	Call(ctx context.Context, c Candidate) (Outcome, error)
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, c Candidate) (Outcome, error)

func (f CallerFunc) Call(ctx context.Context, c Candidate) (Outcome, error) { return f(ctx, c) }

// Response is the successful answer of a candidate set.
type Response struct {
	Payload     []byte
	ContentType string
	StatusCode  int
	Candidate   Candidate
	Attempts    int
}

// Resolve tries candidates in order and returns the first success. A 404
// moves on to the next candidate; any other failure stops immediately since
// the request reached a real handler. When only 404s were seen the last one
// is reported as a RouteNotFoundError. No candidate is started once ctx is
// done.
func Resolve(ctx context.Context, caller Caller, candidates []Candidate) (*Response, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}

	var lastNotFound *apierror.RouteNotFoundError
	for i, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := caller.Call(ctx, cand)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			log.Warnf("[Resolver] %s %s: transport error: %v", cand.Method, cand.URL, err)
			return nil, &apierror.RequestFailedError{Method: cand.Method, URL: cand.URL, Err: err}
		}

		switch out.Kind {
		case OutcomeSuccess:
			log.Debugf("[Resolver] %s %s -> %d (candidate %d/%d)", cand.Method, cand.URL, out.StatusCode, i+1, len(candidates))
			return &Response{
				Payload:     out.Payload,
				ContentType: out.ContentType,
				StatusCode:  out.StatusCode,
				Candidate:   cand,
				Attempts:    i + 1,
			}, nil
		case OutcomeNotFound:
			log.Debugf("[Resolver] %s %s -> 404, trying next candidate", cand.Method, cand.URL)
			status := out.StatusCode
			if status == 0 {
				status = 404
			}
			lastNotFound = &apierror.RouteNotFoundError{
				Method:     cand.Method,
				URL:        cand.URL,
				StatusCode: status,
				Message:    out.Message,
			}
		default:
			log.Debugf("[Resolver] %s %s -> %d, stopping: %s", cand.Method, cand.URL, out.StatusCode, out.Message)
			return nil, &apierror.RequestFailedError{
				Method:     cand.Method,
				URL:        cand.URL,
				StatusCode: out.StatusCode,
				Message:    out.Message,
			}
		}
	}

	lastNotFound.Attempts = len(candidates)
	return nil, lastNotFound
}
