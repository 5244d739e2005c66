package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakemetrics/gmpe-select/internal/domain"
	"github.com/quakemetrics/gmpe-select/internal/observability"
	"github.com/quakemetrics/gmpe-select/internal/selection"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedExtractor returns one prepared batch per call, then cancels the
// run context so the loop exits.
type scriptedExtractor struct {
	batches [][]domain.RawEvent
	cancel  context.CancelFunc
}

func (s *scriptedExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	if len(s.batches) == 0 {
		s.cancel()
		return nil, ctx.Err()
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

type mapTransformer struct {
	errs map[string]error // keyed by raw key; absent means success
}

func (m *mapTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if err, ok := m.errs[string(raw.Key)]; ok {
		return domain.OutputEvent{}, err
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type captureLoader struct {
	loaded [][]domain.OutputEvent
	err    error
}

func (c *captureLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	if c.err != nil {
		return c.err
	}
	c.loaded = append(c.loaded, events)
	return nil
}

func rawEvent(key string, committed *[]string) domain.RawEvent {
	return domain.RawEvent{
		Key:   []byte(key),
		Value: []byte(`{}`),
		Topic: "earthquake-origins",
		Commit: func(context.Context) error {
			*committed = append(*committed, key)
			return nil
		},
	}
}

func runPipeline(t *testing.T, extractorBatches [][]domain.RawEvent, transformer Transformer, loader BatchLoader) *Pipeline {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor := &scriptedExtractor{batches: extractorBatches, cancel: cancel}
	p := New(extractor, transformer, loader, discardLogger(), observability.NewMetricsForTesting(), 16)
	require.NoError(t, p.Run(ctx))
	return p
}

func TestPipelineRun(t *testing.T) {
	t.Run("loads and commits a full batch", func(t *testing.T) {
		var committed []string
		batch := []domain.RawEvent{rawEvent("ev1", &committed), rawEvent("ev2", &committed)}
		loader := &captureLoader{}

		p := runPipeline(t, [][]domain.RawEvent{batch}, &mapTransformer{}, loader)

		require.Len(t, loader.loaded, 1)
		assert.Len(t, loader.loaded[0], 2)
		assert.Equal(t, []string{"ev1", "ev2"}, committed)
		assert.NoError(t, p.CheckReadiness(context.Background()))
	})

	t.Run("skips and commits malformed events", func(t *testing.T) {
		var committed []string
		batch := []domain.RawEvent{rawEvent("bad", &committed), rawEvent("good", &committed)}
		transformer := &mapTransformer{errs: map[string]error{
			"bad": fmt.Errorf("%w: no json", ErrMalformedEvent),
		}}
		loader := &captureLoader{}

		runPipeline(t, [][]domain.RawEvent{batch}, transformer, loader)

		require.Len(t, loader.loaded, 1)
		require.Len(t, loader.loaded[0], 1)
		assert.Equal(t, []byte("good"), loader.loaded[0][0].Key)
		// The bad event commits first (skip), the good one after the load.
		assert.Equal(t, []string{"bad", "good"}, committed)
	})

	t.Run("skips and commits evaluation errors", func(t *testing.T) {
		var committed []string
		batch := []domain.RawEvent{rawEvent("orphan", &committed)}
		transformer := &mapTransformer{errs: map[string]error{
			"orphan": fmt.Errorf("evaluate: %w", &selection.NoMatchingRegionError{Depth: 10}),
		}}
		loader := &captureLoader{}

		p := runPipeline(t, [][]domain.RawEvent{batch}, transformer, loader)

		assert.Empty(t, loader.loaded)
		assert.Equal(t, []string{"orphan"}, committed)
		// Nothing was produced, so the pipeline never became ready.
		assert.Error(t, p.CheckReadiness(context.Background()))
	})

	t.Run("infrastructure failure does not commit", func(t *testing.T) {
		var committed []string
		batch := []domain.RawEvent{rawEvent("ev1", &committed)}
		transformer := &mapTransformer{errs: map[string]error{
			"ev1": errors.New("classification service unreachable"),
		}}
		loader := &captureLoader{}

		runPipeline(t, [][]domain.RawEvent{batch}, transformer, loader)

		assert.Empty(t, loader.loaded)
		assert.Empty(t, committed)
	})

	t.Run("load failure does not commit", func(t *testing.T) {
		var committed []string
		batch := []domain.RawEvent{rawEvent("ev1", &committed)}
		loader := &captureLoader{err: errors.New("broker down")}

		runPipeline(t, [][]domain.RawEvent{batch}, &mapTransformer{}, loader)

		assert.Empty(t, committed)
	})
}

func TestCheckReadiness(t *testing.T) {
	p := New(nil, nil, nil, discardLogger(), observability.NewMetricsForTesting(), 1)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 400*time.Millisecond, nextBackoff(200*time.Millisecond, 5*time.Second))
	assert.Equal(t, 5*time.Second, nextBackoff(4*time.Second, 5*time.Second))
	assert.Equal(t, 5*time.Second, nextBackoff(5*time.Second, 5*time.Second))
}
