package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
	"github.com/secmon-lab/riskreg/pkg/domain/model"
	"github.com/secmon-lab/riskreg/pkg/usecase"
	"github.com/secmon-lab/riskreg/pkg/utils/logging"
)

// ReportBuilder produces the report a digest is made from
type ReportBuilder interface {
	Build(ctx context.Context, req usecase.ExportRequest) (*model.Report, error)
}

// DigestWorker periodically posts the executive summary of the register
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Posting is best effort; a failed round is retried at the next tick
type DigestWorker struct {
	builder  ReportBuilder
	notifier interfaces.Notifier
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewDigestWorker creates a worker posting a digest every interval
func NewDigestWorker(builder ReportBuilder, notifier interfaces.Notifier, interval time.Duration) *DigestWorker {
	return &DigestWorker{
		builder:  builder,
		notifier: notifier,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background loop. The first digest is posted after one interval.
func (w *DigestWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("digest interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Digest worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *DigestWorker) Stop() {
	logging.Default().Info("Digest worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Digest worker stopped")
}

func (w *DigestWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Post(ctx); err != nil {
				logging.Default().Error("Digest post failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Digest worker context cancelled")
			return
		}
	}
}

// Post builds the current report and sends one digest
func (w *DigestWorker) Post(ctx context.Context) error {
	report, err := w.builder.Build(ctx, usecase.ExportRequest{})
	if err != nil {
		return goerr.Wrap(err, "failed to build report")
	}

	if err := w.notifier.Notify(ctx, FormatDigest(report)); err != nil {
		return goerr.Wrap(err, "failed to notify digest")
	}

	logging.Default().Info("Digest posted", "total", report.Summary.Total)
	return nil
}

// FormatDigest renders the summary of a report as Slack mrkdwn
func FormatDigest(report *model.Report) string {
	s := report.Summary
	var sb strings.Builder

	fmt.Fprintf(&sb, "*%s* (%s)\n", report.Title, report.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Total risks: %d\n", s.Total)
	fmt.Fprintf(&sb, "Control coverage: %d%%\n", s.Coverage)
	if s.Total > 0 {
		fmt.Fprintf(&sb, "Most severe: %q (residual %d)\n", s.MostSevereTitle, s.MostSevereScore)
	} else {
		sb.WriteString("Most severe: N/A\n")
	}
	fmt.Fprintf(&sb, "This month: %d new, %d high, %d mitigated\n",
		s.NewThisMonth, s.HighThisMonth, s.MitigatedThisMonth)

	if len(s.ByStatus) > 0 {
		parts := make([]string, 0, len(s.ByStatus))
		for _, c := range s.ByStatus {
			parts = append(parts, fmt.Sprintf("%s %d", c.Label, c.Count))
		}
		fmt.Fprintf(&sb, "By status: %s\n", strings.Join(parts, ", "))
	}

	return sb.String()
}
