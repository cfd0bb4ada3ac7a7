package resolver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
)

// scriptedCaller answers each URL with a fixed outcome and counts calls.
type scriptedCaller struct {
	mu       sync.Mutex
	outcomes map[string]Outcome
	errs     map[string]error
	calls    map[string]int
	onCall   func(url string)
}

func newScriptedCaller() *scriptedCaller {
	return &scriptedCaller{
		outcomes: map[string]Outcome{},
		errs:     map[string]error{},
		calls:    map[string]int{},
	}
}

func (s *scriptedCaller) Call(ctx context.Context, c Candidate) (Outcome, error) {
	s.mu.Lock()
	s.calls[c.URL]++
	out, ok := s.outcomes[c.URL]
	err := s.errs[c.URL]
	hook := s.onCall
	s.mu.Unlock()
	if hook != nil {
		hook(c.URL)
	}
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return NotFound(""), nil
	}
	return out, nil
}

func (s *scriptedCaller) count(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[url]
}

func gets(urls ...string) []Candidate {
	return Candidates(http.MethodGet, urls, nil, Body{})
}

func TestResolve_FirstSuccessWins(t *testing.T) {
	caller := newScriptedCaller()
	caller.outcomes["A"] = Success(200, "application/json", []byte(`{"a":1}`))
	caller.outcomes["B"] = Success(200, "application/json", []byte(`{"b":1}`))

	resp, err := Resolve(context.Background(), caller, gets("A", "B"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(resp.Payload))
	assert.Equal(t, "A", resp.Candidate.URL)
	assert.Equal(t, 1, resp.Attempts)
	assert.Equal(t, 0, caller.count("B"))
}

func TestResolve_NotFoundFallsThrough(t *testing.T) {
	caller := newScriptedCaller()
	caller.outcomes["A"] = NotFound("no route")
	caller.outcomes["B"] = Success(200, "application/json", []byte(`[1]`))

	resp, err := Resolve(context.Background(), caller, gets("A", "B"))
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(resp.Payload))
	assert.Equal(t, 2, resp.Attempts)
	assert.Equal(t, 1, caller.count("A"))
}

func TestResolve_AllNotFoundReportsLast(t *testing.T) {
	caller := newScriptedCaller()
	caller.outcomes["A"] = NotFound("first missing")
	caller.outcomes["B"] = NotFound("second missing")

	_, err := Resolve(context.Background(), caller, gets("A", "B"))
	require.Error(t, err)

	var notFound *apierror.RouteNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "B", notFound.URL)
	assert.Equal(t, "second missing", notFound.Message)
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.Equal(t, 2, notFound.Attempts)
	assert.Equal(t, apierror.KindRouteNotFound, apierror.KindOf(err))
}

func TestResolve_NonNotFoundFailureShortCircuits(t *testing.T) {
	caller := newScriptedCaller()
	caller.outcomes["A"] = Failure(500, "boom")
	caller.outcomes["B"] = Success(200, "application/json", []byte(`{}`))

	_, err := Resolve(context.Background(), caller, gets("A", "B"))
	require.Error(t, err)

	var failed *apierror.RequestFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 500, failed.StatusCode)
	assert.Equal(t, "A", failed.URL)
	assert.Equal(t, "boom", failed.Message)
	assert.Equal(t, 0, caller.count("B"))
}

func TestResolve_ValidationFailureAfterNotFound(t *testing.T) {
	caller := newScriptedCaller()
	caller.outcomes["A"] = NotFound("")
	caller.outcomes["B"] = Failure(422, "name: required")
	caller.outcomes["C"] = Success(200, "", nil)

	_, err := Resolve(context.Background(), caller, gets("A", "B", "C"))
	var failed *apierror.RequestFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 422, failed.StatusCode)
	assert.Equal(t, 0, caller.count("C"))
}

func TestResolve_TransportErrorStops(t *testing.T) {
	caller := newScriptedCaller()
	caller.errs["A"] = errors.New("connection refused")

	_, err := Resolve(context.Background(), caller, gets("A", "B"))
	var failed *apierror.RequestFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 0, failed.StatusCode)
	assert.Equal(t, 0, caller.count("B"))
}

func TestResolve_EmptySet(t *testing.T) {
	_, err := Resolve(context.Background(), newScriptedCaller(), nil)
	assert.ErrorIs(t, err, ErrEmptyCandidateSet)
}

func TestResolve_CancellationStopsBeforeNextCandidate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	caller := newScriptedCaller()
	caller.onCall = func(url string) {
		if url == "A" {
			cancel()
		}
	}

	_, err := Resolve(ctx, caller, gets("A", "B", "C"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, caller.count("A"))
	assert.Equal(t, 0, caller.count("B"))
	assert.Equal(t, 0, caller.count("C"))
}

func TestResolve_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	caller := newScriptedCaller()

	_, err := Resolve(ctx, caller, gets("A"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, caller.count("A"))
}

func TestCandidates_ShareBodyWithoutConsumingIt(t *testing.T) {
	body, err := JSONBody(map[string]string{"name": "Red"})
	require.NoError(t, err)

	cands := Candidates(http.MethodPost, []string{"x", "y"}, http.Header{"X-Test": {"1"}}, body)
	require.Len(t, cands, 2)
	for _, c := range cands {
		buf := make([]byte, 64)
		n, _ := c.Body.Reader().Read(buf)
		assert.Equal(t, `{"name":"Red"}`, string(buf[:n]))
		assert.Equal(t, "application/json", c.Body.ContentType())
	}
	cands[0].Header.Set("X-Test", "changed")
	assert.Equal(t, "1", cands[1].Header.Get("X-Test"))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Classify(200))
	assert.Equal(t, OutcomeSuccess, Classify(204))
	assert.Equal(t, OutcomeNotFound, Classify(404))
	assert.Equal(t, OutcomeFailure, Classify(405))
	assert.Equal(t, OutcomeFailure, Classify(500))
	assert.Equal(t, OutcomeFailure, Classify(301))
}
