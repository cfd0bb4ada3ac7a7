package resolver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// Body is an immutable request body. It can be read any number of times so
// the same body can back every candidate of a set.
type Body struct {
	contentType string
	data        []byte
}

// NewBody copies data into a Body.
func NewBody(contentType string, data []byte) Body {
	cp := make([]byte, len(data))
	copy(cp, data)
	return Body{contentType: contentType, data: cp}
}

// JSONBody marshals v as an application/json body.
func JSONBody(v any) (Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Body{}, err
	}
	return Body{contentType: "application/json", data: data}, nil
}

func (b Body) ContentType() string { return b.contentType }
func (b Body) Len() int            { return len(b.data) }
func (b Body) IsZero() bool        { return b.contentType == "" && len(b.data) == 0 }

// Reader returns a fresh reader over the body.
func (b Body) Reader() io.Reader { return bytes.NewReader(b.data) }

// Bytes returns a copy of the body.
func (b Body) Bytes() []byte {
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp
}

// Candidate is one concrete request that may serve a logical operation.
type Candidate struct {
	Method string
	URL    string
	Header http.Header
	Body   Body
}

// Candidates builds one candidate per URL, sharing method, header and body.
func Candidates(method string, urls []string, header http.Header, body Body) []Candidate {
	out := make([]Candidate, 0, len(urls))
	for _, u := range urls {
		out = append(out, Candidate{Method: method, URL: u, Header: header.Clone(), Body: body})
	}
	return out
}

// OutcomeKind classifies the answer to one candidate.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeNotFound
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "failure"
	}
}

// Outcome is the result of attempting a single candidate.
type Outcome struct {
	Kind        OutcomeKind
	StatusCode  int
	ContentType string
	Payload     []byte
	Message     string
}

// Success builds a successful outcome.
func Success(status int, contentType string, payload []byte) Outcome {
	return Outcome{Kind: OutcomeSuccess, StatusCode: status, ContentType: contentType, Payload: payload}
}

// NotFound builds a route-missing outcome.
func NotFound(message string) Outcome {
	return Outcome{Kind: OutcomeNotFound, StatusCode: http.StatusNotFound, Message: message}
}

// Failure builds an outcome for a request that reached a handler and failed.
func Failure(status int, message string) Outcome {
	return Outcome{Kind: OutcomeFailure, StatusCode: status, Message: message}
}

// Classify maps an HTTP status onto an outcome kind.
func Classify(status int) OutcomeKind {
	switch {
	case status >= 200 && status < 300:
		return OutcomeSuccess
	case status == http.StatusNotFound:
		return OutcomeNotFound
	default:
		return OutcomeFailure
	}
}
