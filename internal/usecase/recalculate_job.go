package usecase

import (
	"context"
	"errors"
	"fmt"

	"FxScore/internal/domain/models"
	applogger "FxScore/pkg/logger"
	"FxScore/pkg/queue"
)

// RecalculateJobType is the queue message type handled by RecalculateJob.
const RecalculateJobType = "workspace.recalculate"

// RecalculateRequest is the queued payload. Reason is only logged.
type RecalculateRequest struct {
	Reason string `json:"reason"`
}

// RecalculateJob rescores the workspace from a queued request.
type RecalculateJob struct {
	ws *Workspace
}

func NewRecalculateJob(ws *Workspace) *RecalculateJob {
	return &RecalculateJob{ws: ws}
}

func (j *RecalculateJob) Name() string { return "recalculate-workspace" }

func (j *RecalculateJob) Type() string { return RecalculateJobType }

func (j *RecalculateJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[RecalculateRequest](payload)
	if err != nil {
		return queue.Permanent(fmt.Errorf("recalculate job: %w", err))
	}
	res, err := j.ws.Recalculate(ctx)
	if errors.Is(err, models.ErrInvalidInput) {
		return queue.Permanent(fmt.Errorf("recalculate job (%s): %w", req.Reason, err))
	}
	if err != nil {
		return fmt.Errorf("recalculate job (%s): %w", req.Reason, err)
	}
	j.ws.l.Debug("queued recalculation done", applogger.String("reason", req.Reason), applogger.String("regime", string(res.Regime)))
	return nil
}

var _ queue.Job = (*RecalculateJob)(nil)
