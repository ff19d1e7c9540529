package repository

import (
	"context"

	"FinSight/internal/domain/models"
)

// NoopSink discards query events. Used when no sink backend is configured.
type NoopSink struct{}

// NewNoopSink creates a sink that drops everything.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (NoopSink) Record(ctx context.Context, ev *models.QueryEvent) error { return nil }

func (NoopSink) Close() error { return nil }
