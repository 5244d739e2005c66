package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakemetrics/gmpe-select/internal/domain"
	"github.com/quakemetrics/gmpe-select/internal/selection"
)

type stubReadiness struct{ err error }

func (s stubReadiness) CheckReadiness(context.Context) error { return s.err }

type stubEvaluator struct {
	set  domain.WeightedSet
	prov domain.Provenance
	err  error
}

func (s stubEvaluator) Select(context.Context, domain.Origin) (domain.WeightedSet, domain.Provenance, error) {
	return s.set, s.prov, s.err
}

func testServer(ready ReadinessChecker, evaluator Evaluator) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", ready, evaluator, logger)
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		srv := testServer(stubReadiness{}, stubEvaluator{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("readyz ready", func(t *testing.T) {
		srv := testServer(stubReadiness{}, stubEvaluator{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz not ready", func(t *testing.T) {
		srv := testServer(stubReadiness{err: errors.New("no messages yet")}, stubEvaluator{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "no messages yet")
	})
}

func TestEvaluateEndpoint(t *testing.T) {
	validBody := `{"id":"us7000abcd","lat":38.3,"lon":142.4,"depth":29,"magnitude":9.0}`

	t.Run("returns the assignment", func(t *testing.T) {
		srv := testServer(stubReadiness{}, stubEvaluator{
			set: domain.WeightedSet{{GMPE: "subduction_interface_nshmp2014", Weight: 1}},
		})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(validBody)))

		require.Equal(t, http.StatusOK, rec.Code)
		var assignment domain.Assignment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assignment))
		assert.Equal(t, "us7000abcd", assignment.EventID)
		require.Len(t, assignment.GMPEs, 1)
		assert.Equal(t, "subduction_interface_nshmp2014", assignment.GMPEs[0].GMPE)
	})

	t.Run("invalid json", func(t *testing.T) {
		srv := testServer(stubReadiness{}, stubEvaluator{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader("{nope")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("out-of-range origin", func(t *testing.T) {
		srv := testServer(stubReadiness{}, stubEvaluator{})
		body := `{"id":"x","lat":95,"lon":0,"depth":10,"magnitude":5}`
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "latitude")
	})

	t.Run("evaluation error maps to 422", func(t *testing.T) {
		srv := testServer(stubReadiness{}, stubEvaluator{
			err: &selection.NoMatchingRegionError{Depth: 29},
		})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(validBody)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "no tectonic region")
	})

	t.Run("infrastructure error maps to 502", func(t *testing.T) {
		srv := testServer(stubReadiness{}, stubEvaluator{err: errors.New("strec unreachable")})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(validBody)))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		// Internal failure details stay out of the response body.
		assert.NotContains(t, rec.Body.String(), "strec unreachable")
	})

	t.Run("get is not allowed", func(t *testing.T) {
		srv := testServer(stubReadiness{}, stubEvaluator{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/evaluate", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
