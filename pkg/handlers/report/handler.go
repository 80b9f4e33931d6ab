package report

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tps-tools/metrics-atlas/pkg/adapters"
	"github.com/tps-tools/metrics-atlas/pkg/services/report"
)

// Snapshotter recomputes the current pipeline state for one request.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*report.Result, error)
	Currency() string
}

type Handler struct {
	pipeline Snapshotter
}

func NewHandler(pipeline Snapshotter) *Handler {
	return &Handler{pipeline: pipeline}
}

func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	result, err := h.pipeline.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to compute ledger")
		http.Error(w, "failed to compute ledger", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(adapters.MapExtractToApiLedger(result.Extract)); err != nil {
		logger.Error().Err(err).Msg("failed to encode ledger")
	}
}

func (h *Handler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	result, err := h.pipeline.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to compute kpis")
		http.Error(w, "failed to compute kpis", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(adapters.MapKPISetToApi(result.KPIs, h.pipeline.Currency())); err != nil {
		logger.Error().Err(err).Msg("failed to encode kpis")
	}
}

func (h *Handler) GetChannels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	result, err := h.pipeline.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to compute channels")
		http.Error(w, "failed to compute channels", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(adapters.MapRankingToApi(result.Ranking)); err != nil {
		logger.Error().Err(err).Msg("failed to encode channels")
	}
}

func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	result, err := h.pipeline.Snapshot(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to evaluate insights")
		http.Error(w, "failed to evaluate insights", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(adapters.MapInsightsToApi(result.Insights)); err != nil {
		logger.Error().Err(err).Msg("failed to encode insights")
	}
}
