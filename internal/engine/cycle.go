package engine

import (
	"context"
	"time"

	"github.com/mschirtzinger/gitsyncd/internal/vcs"
)

// CycleReport summarizes one full sync cycle. Upload and download are
// independent halves: either error field may be set while the other half
// succeeded.
type CycleReport struct {
	Started  time.Time
	Finished time.Time

	State RepositoryState

	Upload    UploadResult
	UploadErr error

	Download    DownloadResult
	DownloadErr error
}

// Failed reports whether any half of the cycle failed.
func (r *CycleReport) Failed() bool {
	return r.UploadErr != nil || r.DownloadErr != nil
}

// RunCycle performs one full sync cycle: lock acquisition, upload attempt,
// download attempt, lock release. The release is deferred and therefore
// unconditional on every exit path, including errors.
//
// ctx runs the cycle's operations; waitCtx additionally bounds the lock
// wait. While blocked on a foreign marker no critical section has been
// entered, so cancelling either context abandons the cycle immediately.
// This is what keeps a graceful shutdown from hanging behind lock
// contention: the lifecycle manager passes its graceful context as
// waitCtx while the operations keep running under the forced one.
//
// An upload failure does not prevent the download from running; each
// half's error lands in the report. Only lock acquisition failure (context
// cancelled, or lock.ErrTimeout when a max wait is configured) returns a
// non-nil error, because no critical section was entered.
func (e *Engine) RunCycle(ctx, waitCtx context.Context) (*CycleReport, error) {
	report := &CycleReport{Started: time.Now()}

	acquireCtx, cancelAcquire := context.WithCancel(waitCtx)
	defer cancelAcquire()
	stop := context.AfterFunc(ctx, cancelAcquire)
	defer stop()

	if err := e.lock.Acquire(acquireCtx); err != nil {
		return report, err
	}
	defer func() {
		if err := e.lock.Release(); err != nil {
			e.log.Error("releasing sync lock", "error", err)
		}
		report.Finished = time.Now()
	}()

	// The detector fetches here; the download half reuses the counts and
	// does not re-fetch. A fetch failure (typically the remote being
	// unreachable) skips only the download half.
	div, divErr := e.RemoteDivergence(ctx)
	if divErr == nil {
		report.State.Ahead = div.Ahead
		report.State.Behind = div.Behind
		report.State.DivergenceKnown = true
	} else {
		report.DownloadErr = divErr
		e.logCycleError("remote divergence check failed, skipping download", divErr)
	}

	report.Upload, report.UploadErr = e.Upload(ctx, report.State.Ahead)
	report.State.HasLocalChanges = report.Upload.Committed
	if report.UploadErr != nil {
		e.logCycleError("upload flow failed", report.UploadErr)
	}

	if report.State.DivergenceKnown {
		report.Download, report.DownloadErr = e.Download(ctx, report.State.Behind)
		if report.DownloadErr != nil {
			e.logCycleError("download flow failed", report.DownloadErr)
		}
	}

	return report, nil
}

// logCycleError logs a per-cycle failure at a severity matching its
// taxonomy: recoverable errors warn, errors needing a human are loud.
func (e *Engine) logCycleError(msg string, err error) {
	switch {
	case vcs.NeedsAttention(err):
		e.log.Error(msg+" (manual intervention required)", "error", err)
	case vcs.IsRecoverable(err):
		e.log.Warn(msg+" (will retry next cycle)", "error", err)
	default:
		e.log.Error(msg, "error", err)
	}
}
