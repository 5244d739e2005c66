package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quakemetrics/gmpe-select/internal/domain"
)

// ErrMalformedEvent marks origin payloads that cannot be decoded or fail
// validation. These events can never succeed, so the pipeline commits past
// them instead of retrying.
var ErrMalformedEvent = errors.New("malformed origin event")

// Evaluator computes the weighted GMPE set for one origin.
type Evaluator interface {
	Select(ctx context.Context, origin domain.Origin) (domain.WeightedSet, domain.Provenance, error)
}

// AssignmentTransformer implements Transformer: it decodes an origin payload,
// evaluates it, and serializes the resulting assignment.
type AssignmentTransformer struct {
	evaluator Evaluator
	logger    *slog.Logger
}

// NewTransformer creates an AssignmentTransformer around an evaluator.
func NewTransformer(evaluator Evaluator, logger *slog.Logger) *AssignmentTransformer {
	return &AssignmentTransformer{evaluator: evaluator, logger: logger}
}

func (t *AssignmentTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	var origin domain.Origin
	if err := json.Unmarshal(raw.Value, &origin); err != nil {
		return domain.OutputEvent{}, fmt.Errorf("%w: decode: %v", ErrMalformedEvent, err)
	}
	if origin.ID == "" {
		origin.ID = string(raw.Key)
	}
	if err := origin.Validate(); err != nil {
		return domain.OutputEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	set, prov, err := t.evaluator.Select(ctx, origin)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("evaluate origin %s: %w", origin.ID, err)
	}

	assignment := domain.Assignment{
		EventID:    origin.ID,
		GMPEs:      set,
		Provenance: prov,
	}
	data, err := json.Marshal(assignment)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("serialize assignment: %w", err)
	}

	return domain.OutputEvent{
		Key:   []byte(origin.ID),
		Value: data,
		Headers: map[string]string{
			"event_id":     origin.ID,
			"evaluated_at": prov.EvaluatedAt.Format(time.RFC3339),
		},
	}, nil
}
