package pipeline

import (
	"context"
	"errors"
)

var (
	ErrEmptyPipeline    = errors.New("pipeline: pipeline has no nodes")
	ErrPipelineNotFound = errors.New("pipeline: pipeline not found")
	ErrNullElement      = errors.New("pipeline: null node or edge")
)

// Store defines the contract for persisting submitted pipelines and their analysis.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Pipelines
	SavePipeline(ctx context.Context, p *Pipeline, a Analysis) (string, error)
	GetPipeline(ctx context.Context, pipelineID string) (*Pipeline, error)
	GetAnalysis(ctx context.Context, pipelineID string) (*Analysis, error)
	DeletePipeline(ctx context.Context, pipelineID string) error
	ListPipelines(ctx context.Context) ([]Analysis, error)
}
