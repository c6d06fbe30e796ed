// Package client submits a pipeline snapshot to the analyzer and keeps the
// state a submit control shows: in flight, last result, last notice.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	fiberclient "github.com/gofiber/fiber/v3/client"

	"github.com/meikuraledutech/pipeline"
)

// ParsePath is the analyzer endpoint, relative to the base URL.
const ParsePath = "/pipelines/parse"

// Notices shown to the user.
const (
	NoticeEmpty       = "Add at least one node."
	NoticeUnavailable = "Unable to connect to backend."
)

var (
	ErrInFlight    = errors.New("pipeline: submission already in flight")
	ErrUnavailable = errors.New("pipeline: analyzer unavailable")
)

// Submitter posts snapshots to one analyzer. It is safe for concurrent use;
// the graph it was snapshotted from may keep changing during a request.
type Submitter struct {
	http    *fiberclient.Client
	baseURL string
	log     *slog.Logger

	mu      sync.Mutex
	loading bool
	result  *pipeline.Analysis
	notice  string
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Submitter) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(s *Submitter) {
		s.http.SetTimeout(d)
	}
}

// New returns a Submitter for the analyzer at baseURL.
func New(baseURL string, opts ...Option) *Submitter {
	s := &Submitter{
		http:    fiberclient.New(),
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit sends p to the analyzer and records the outcome.
//
// An empty pipeline is rejected before any request with ErrEmptyPipeline.
// Transport failures and non-2xx responses return ErrUnavailable. Both set the
// notice and leave the previous result untouched. There is no retry.
func (s *Submitter) Submit(ctx context.Context, p pipeline.Pipeline) (*pipeline.Analysis, error) {
	if len(p.Nodes) == 0 {
		s.mu.Lock()
		s.notice = NoticeEmpty
		s.mu.Unlock()
		return nil, pipeline.ErrEmptyPipeline
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrInFlight
	}
	s.loading = true
	s.notice = ""
	s.mu.Unlock()

	a, err := s.post(ctx, p)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.log.Error("pipeline submission failed", "error", err, "nodes", len(p.Nodes), "edges", len(p.Edges))
		s.notice = NoticeUnavailable
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	s.result = a
	return a, nil
}

func (s *Submitter) post(ctx context.Context, p pipeline.Pipeline) (*pipeline.Analysis, error) {
	body := struct {
		Nodes []*pipeline.Node `json:"nodes"`
		Edges []*pipeline.Edge `json:"edges"`
	}{Nodes: p.Nodes, Edges: p.Edges}
	if body.Edges == nil {
		body.Edges = []*pipeline.Edge{}
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetJSON(body).
		Post(s.baseURL + ParsePath)
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, fmt.Errorf("server error: status %d", code)
	}

	var a pipeline.Analysis
	if err := resp.JSON(&a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}

// Loading reports whether a submission is in flight.
func (s *Submitter) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Result returns the last successful analysis, nil if none or dismissed.
func (s *Submitter) Result() *pipeline.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Notice returns the last user-facing message, empty if none.
func (s *Submitter) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// Dismiss clears the shown result.
func (s *Submitter) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
}
