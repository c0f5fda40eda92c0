package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	"FxScore/internal/services/features"
	pkgkafka "FxScore/pkg/kafka"
)

// Input event types accepted on the inputs topic.
const (
	EventVolatility      = "volatility"
	EventCrossAsset      = "cross_asset"
	EventCurrency        = "currency"
	EventCentralBankWeek = "central_bank_week"
	EventSnapshot        = "snapshot"
	EventMarketSeries    = "market_series"
	EventRecalculate     = "recalculate"
)

// InputEvent is one workspace update carried over Kafka. Only the field
// matching Type is read.
type InputEvent struct {
	Type            string                        `json:"type"`
	Volatility      *models.VolatilityObservation `json:"volatility,omitempty"`
	CrossAsset      *models.CrossAssetReturn      `json:"cross_asset,omitempty"`
	Currency        string                        `json:"currency,omitempty"`
	Patch           *models.CurrencyPatch         `json:"patch,omitempty"`
	CentralBankWeek *bool                         `json:"central_bank_week,omitempty"`
	Snapshot        *models.MarketSnapshot        `json:"snapshot,omitempty"`
	Series          *models.MarketSeries          `json:"series,omitempty"`
	SentAt          int64                         `json:"sent_at,omitempty"` // unix millis
}

// KafkaInputsHandler applies input events to the workspace.
type KafkaInputsHandler struct {
	topic   string
	ws      *Workspace
	metrics domrepo.Metrics
}

func NewKafkaInputsHandler(topic string, ws *Workspace, metrics domrepo.Metrics) *KafkaInputsHandler {
	return &KafkaInputsHandler{topic: topic, ws: ws, metrics: metrics}
}

func (h *KafkaInputsHandler) Topic() string { return h.topic }

func (h *KafkaInputsHandler) Handle(ctx context.Context, b []byte) error {
	var ev InputEvent
	if err := json.Unmarshal(b, &ev); err != nil {
		h.metrics.RecordError("inputs_unmarshal")
		return pkgkafka.Permanent(fmt.Errorf("decode input event: %w", err))
	}
	if ev.SentAt > 0 {
		h.metrics.RecordLatency("inputs_e2e", time.Since(time.UnixMilli(ev.SentAt)).Seconds())
	}

	err := h.apply(ctx, ev)
	if err != nil {
		h.metrics.RecordError("inputs_" + ev.Type)
		// bad data will not get better on retry
		if errors.Is(err, models.ErrInvalidInput) || errors.Is(err, ErrUnknownCurrency) {
			return pkgkafka.Permanent(err)
		}
		return err
	}
	return nil
}

func (h *KafkaInputsHandler) apply(ctx context.Context, ev InputEvent) error {
	var err error
	switch ev.Type {
	case EventVolatility:
		if ev.Volatility == nil {
			return missing(ev.Type)
		}
		_, err = h.ws.UpdateVolatility(ctx, *ev.Volatility)
	case EventCrossAsset:
		if ev.CrossAsset == nil {
			return missing(ev.Type)
		}
		_, err = h.ws.UpdateCrossAsset(ctx, *ev.CrossAsset)
	case EventCurrency:
		if ev.Patch == nil {
			return missing(ev.Type)
		}
		_, err = h.ws.UpdateCurrency(ctx, ev.Currency, *ev.Patch)
	case EventCentralBankWeek:
		if ev.CentralBankWeek == nil {
			return missing(ev.Type)
		}
		_, err = h.ws.SetCentralBankWeek(ctx, *ev.CentralBankWeek)
	case EventSnapshot:
		if ev.Snapshot == nil {
			return missing(ev.Type)
		}
		_, err = h.ws.Replace(ctx, *ev.Snapshot)
	case EventMarketSeries:
		if ev.Series == nil {
			return missing(ev.Type)
		}
		vol, cross, ferr := features.Market(*ev.Series)
		if ferr != nil {
			return ferr
		}
		_, err = h.ws.UpdateMarket(ctx, vol, cross)
	case EventRecalculate:
		_, err = h.ws.Recalculate(ctx)
	default:
		return fmt.Errorf("%w: unknown event type %q", models.ErrInvalidInput, ev.Type)
	}
	return err
}

func missing(eventType string) error {
	return fmt.Errorf("%w: %s event without payload", models.ErrInvalidInput, eventType)
}

var _ pkgkafka.MessageHandler = (*KafkaInputsHandler)(nil)
