// Package services – Sequencer
//
// Integer identifiers are minted from named counters in the store. Allocate
// is the only way an id is handed out; Compensate walks a counter back after
// a failed insert. Compensation is best effort: when allocations interleave
// with a compensation, an id can be handed out twice. Callers decide per
// entity whether to compensate at all.
package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CounterRepo is the atomic increment-and-fetch the sequencer relies on.
// Implementations must create a missing counter at delta.
type CounterRepo interface {
	IncrementCounter(ctx context.Context, name string, delta int64) (int64, error)
}

var (
	seqAllocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sequence_allocations_total",
			Help: "Identifiers handed out, by sequence.",
		},
		[]string{"sequence"},
	)
	seqCompensations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sequence_compensations_total",
			Help: "Identifiers given back after a failed insert, by sequence.",
		},
		[]string{"sequence"},
	)
)

func init() {
	prometheus.MustRegister(seqAllocations, seqCompensations)
}

// Sequencer allocates per-entity identifiers. It holds no state of its own;
// every call is a single atomic store operation.
type Sequencer struct {
	Repo CounterRepo
}

// NewSequencer returns a Sequencer backed by r.
func NewSequencer(r CounterRepo) *Sequencer { return &Sequencer{Repo: r} }

// Allocate increments the named counter and returns the new value.
func (s *Sequencer) Allocate(ctx context.Context, name string) (int64, error) {
	ctx, span := otel.Tracer("services/Sequencer").Start(ctx, "Allocate",
		trace.WithAttributes(attribute.String("sequence", name)),
	)
	defer span.End()

	id, err := s.Repo.IncrementCounter(ctx, name, 1)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	seqAllocations.WithLabelValues(name).Inc()
	span.SetAttributes(attribute.Int64("sequence.value", id))
	return id, nil
}

// Compensate decrements the named counter and returns the new value.
func (s *Sequencer) Compensate(ctx context.Context, name string) (int64, error) {
	ctx, span := otel.Tracer("services/Sequencer").Start(ctx, "Compensate",
		trace.WithAttributes(attribute.String("sequence", name)),
	)
	defer span.End()

	v, err := s.Repo.IncrementCounter(ctx, name, -1)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	seqCompensations.WithLabelValues(name).Inc()
	return v, nil
}
