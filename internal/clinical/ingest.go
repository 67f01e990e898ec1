package clinical

import (
	"context"
	"fmt"

	"github.com/AKakshat1729/AGI-119/internal/metrics"
)

type ingestJob struct {
	userID       string
	sessionID    string
	transcript   string
	messageCount int
}

// ProcessSessionAsync queues a session for background processing and
// returns immediately. It reports whether the job was accepted; a full
// queue or a closed engine drops the job.
func (e *Engine) ProcessSessionAsync(userID, sessionID, transcript string, messageCount int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		metrics.IngestDropped.WithLabelValues(metrics.DropClosed).Inc()
		e.log.Warn("ingest dropped, engine closed", "user_id", userID, "session_id", sessionID)
		return false
	}

	job := ingestJob{userID: userID, sessionID: sessionID, transcript: transcript, messageCount: messageCount}
	// Counted before the send so a fast worker never takes the gauge below zero.
	metrics.IngestQueueDepth.Inc()
	select {
	case e.queue <- job:
		return true
	default:
		metrics.IngestQueueDepth.Dec()
		metrics.IngestDropped.WithLabelValues(metrics.DropQueueFull).Inc()
		e.log.Warn("ingest dropped, queue full",
			"user_id", userID,
			"session_id", sessionID,
			"queue_size", cap(e.queue),
		)
		return false
	}
}

// Close stops accepting async jobs and waits for queued ones to finish.
// It is safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	e.wg.Wait()
}

func (e *Engine) worker() {
	defer e.wg.Done()
	for job := range e.queue {
		metrics.IngestQueueDepth.Dec()
		e.run(job)
	}
}

func (e *Engine) run(job ingestJob) {
	defer func() {
		if r := recover(); r != nil {
			metrics.IngestFailed.Inc()
			e.log.Error("ingest panicked",
				"user_id", job.userID,
				"session_id", job.sessionID,
				"panic", fmt.Sprint(r),
			)
		}
	}()

	if _, err := e.ProcessSession(context.Background(), job.userID, job.sessionID, job.transcript, job.messageCount); err != nil {
		metrics.IngestFailed.Inc()
		e.log.Error("ingest failed",
			"user_id", job.userID,
			"session_id", job.sessionID,
			"err", err,
		)
	}
}
