package gojob

import (
	"context"
	"fmt"
	"strings"
	"time"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	JobIDJournalPrune      = "linkbridge.journal.prune"
	ScriptPathJournalPrune = "linkbridge.journal.prune"

	paramCutoff = "cutoff"
)

// JournalPruner deletes journal entries emitted before cutoff.
type JournalPruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

// RetryPolicy bounds how often a failed sweep is retried. Once MaxAttempts
// is reached a retry becomes dead_letter when DeadLetterOnMax is set and
// failed otherwise.
type RetryPolicy struct {
	MaxAttempts     int
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

// NormalizeAttempt clamps the delay and settles the disposition for a nack
// at attempt. An empty disposition means retry; terminal dispositions pass
// through unchanged.
func (p RetryPolicy) NormalizeAttempt(opts queue.NackOptions, attempt int) queue.NackOptions {
	out := opts
	out.Reason = strings.TrimSpace(out.Reason)
	if out.Delay < 0 {
		out.Delay = 0
	}
	if p.MaxDelay > 0 && out.Delay > p.MaxDelay {
		out.Delay = p.MaxDelay
	}
	if out.Disposition == "" {
		out.Disposition = queue.NackDispositionRetry
	}
	if out.Disposition != queue.NackDispositionRetry {
		return out
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		out.Disposition = queue.NackDispositionFailed
		if p.DeadLetterOnMax {
			out.Disposition = queue.NackDispositionDeadLetter
		}
		out.Delay = 0
	}
	return out
}

// PruneMessage builds the execution message for one retention sweep. Sweeps
// for the same cutoff hour share an idempotency key.
func PruneMessage(cutoff time.Time) *job.ExecutionMessage {
	cutoff = cutoff.UTC()
	return &job.ExecutionMessage{
		JobID:          JobIDJournalPrune,
		ScriptPath:     ScriptPathJournalPrune,
		Parameters:     map[string]any{paramCutoff: cutoff.Format(time.RFC3339Nano)},
		IdempotencyKey: JobIDJournalPrune + ":" + cutoff.Truncate(time.Hour).Format(time.RFC3339),
		DedupPolicy:    job.DedupPolicyDrop,
	}
}

// CutoffFromMessage reads the cutoff parameter written by PruneMessage.
func CutoffFromMessage(msg *job.ExecutionMessage) (time.Time, error) {
	if msg == nil {
		return time.Time{}, fmt.Errorf("gojob: execution message is required")
	}
	if strings.TrimSpace(msg.JobID) != JobIDJournalPrune {
		return time.Time{}, fmt.Errorf("gojob: unexpected job %q", msg.JobID)
	}
	raw, _ := msg.Parameters[paramCutoff].(string)
	cutoff, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("gojob: invalid cutoff %q: %w", raw, err)
	}
	return cutoff, nil
}

type PruneScheduler struct {
	enqueuer  queue.Enqueuer
	retention time.Duration
	now       func() time.Time
}

func NewPruneScheduler(enqueuer queue.Enqueuer, retention time.Duration) *PruneScheduler {
	return &PruneScheduler{
		enqueuer:  enqueuer,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *PruneScheduler) WithClock(now func() time.Time) *PruneScheduler {
	if s != nil && now != nil {
		s.now = now
	}
	return s
}

// Enqueue schedules a sweep of everything older than the retention window
// and returns the queue's receipt for it.
func (s *PruneScheduler) Enqueue(ctx context.Context) (queue.EnqueueReceipt, error) {
	if s == nil || s.enqueuer == nil {
		return queue.EnqueueReceipt{}, fmt.Errorf("gojob: enqueuer is not configured")
	}
	if s.retention <= 0 {
		return queue.EnqueueReceipt{}, fmt.Errorf("gojob: retention must be positive")
	}
	return s.enqueuer.Enqueue(ctx, PruneMessage(s.now().Add(-s.retention)))
}

type PruneWorker struct {
	dequeuer queue.Dequeuer
	pruner   JournalPruner
	policy   RetryPolicy
	logger   glog.Logger
}

func NewPruneWorker(dequeuer queue.Dequeuer, pruner JournalPruner, policy RetryPolicy, logger glog.Logger) *PruneWorker {
	return &PruneWorker{dequeuer: dequeuer, pruner: pruner, policy: policy, logger: glog.Ensure(logger)}
}

// ProcessNext dequeues one delivery and runs it as the first attempt.
func (w *PruneWorker) ProcessNext(ctx context.Context) (int, error) {
	if w == nil || w.dequeuer == nil {
		return 0, fmt.Errorf("gojob: dequeuer is not configured")
	}
	delivery, err := w.dequeuer.Dequeue(ctx)
	if err != nil {
		return 0, err
	}
	return w.Handle(ctx, delivery, 1)
}

// Handle prunes for delivery and acks it. Malformed messages are dead
// lettered; prune failures are nacked under the retry policy.
func (w *PruneWorker) Handle(ctx context.Context, delivery queue.Delivery, attempt int) (int, error) {
	if w == nil || w.pruner == nil {
		return 0, fmt.Errorf("gojob: pruner is not configured")
	}
	if delivery == nil {
		return 0, fmt.Errorf("gojob: delivery is required")
	}
	cutoff, err := CutoffFromMessage(delivery.Message())
	if err != nil {
		if nackErr := delivery.Nack(ctx, queue.NackOptions{
			Disposition: queue.NackDispositionDeadLetter,
			Reason:      err.Error(),
		}); nackErr != nil {
			return 0, nackErr
		}
		return 0, err
	}

	removed, err := w.pruner.Prune(ctx, cutoff)
	if err != nil {
		opts := w.policy.NormalizeAttempt(queue.NackOptions{
			Disposition: queue.NackDispositionRetry,
			Reason:      err.Error(),
		}, attempt)
		w.logger.Warn("journal prune failed", "attempt", attempt, "disposition", string(opts.Disposition), "error", err)
		if nackErr := delivery.Nack(ctx, opts); nackErr != nil {
			return 0, nackErr
		}
		return 0, err
	}
	w.logger.Info("journal pruned", "removed", removed, "cutoff", cutoff)
	return removed, delivery.Ack(ctx)
}

// LoggingHook reports worker lifecycle events for linkbridge jobs.
type LoggingHook struct {
	logger glog.Logger
}

func NewLoggingHook(logger glog.Logger) *LoggingHook {
	return &LoggingHook{logger: glog.Ensure(logger)}
}

func (h *LoggingHook) OnStart(_ context.Context, event worker.Event) {
	h.logger.Debug("linkbridge job started", eventFields(event)...)
}

func (h *LoggingHook) OnSuccess(_ context.Context, event worker.Event) {
	h.logger.Info("linkbridge job succeeded", append(eventFields(event), "duration", event.Duration)...)
}

func (h *LoggingHook) OnFailure(_ context.Context, event worker.Event) {
	h.logger.Error("linkbridge job failed", append(eventFields(event), "error", event.Err)...)
}

func (h *LoggingHook) OnRetry(_ context.Context, event worker.Event) {
	h.logger.Warn("linkbridge job retrying", append(eventFields(event), "delay", event.Delay, "error", event.Err)...)
}

func eventFields(event worker.Event) []any {
	message := event.Message
	if message == nil && event.Delivery != nil {
		message = event.Delivery.Message()
	}
	jobID := ""
	if message != nil {
		jobID = message.JobID
	}
	return []any{"job_id", jobID, "attempt", event.Attempt}
}

var _ worker.Hook = (*LoggingHook)(nil)
