// Package broadcast batches a mass mailing into BCC-only sends.
//
// Recipients are partitioned into consecutive batches and dispatched
// strictly in order, one send per batch, with each batch's recipients
// hidden from one another. A failed batch is recorded and skipped; it
// never aborts the batches after it. The optional inter-batch delay is
// a rate-limiting courtesy to the mail transport.
package broadcast

import (
	"time"

	"github.com/google/uuid"
	"github.com/ucek-sih/internals-portal/internal/app/system/mailer"
	"go.uber.org/zap"
)

// Defaults applied by Dispatch when the job leaves them zero.
const (
	DefaultChunkSize = 50
)

// Sender is the transport a Dispatcher sends through. *mailer.Mailer
// implements it; tests substitute a stub.
type Sender interface {
	Send(e mailer.Email) error
}

// Job describes one broadcast. It exists only for the duration of the
// Dispatch call and is never persisted.
type Job struct {
	Recipients []string
	Subject    string
	TextBody   string
	HTMLBody   string // optional alternate body

	FromOverride string        // optional sender identity override
	ChunkSize    int           // recipients per batch; default 50, clamped to ≥1
	Delay        time.Duration // pause between batches; default 0
}

// Result is the aggregate outcome of one broadcast, returned to the
// caller and never persisted.
//
// The SMTP transport reports per-recipient failures only by failing the
// whole batch, so it cannot give an authoritative accept/reject split:
// a successful batch counts all its recipients as accepted, a failed
// batch counts none and increments FailedBatches.
type Result struct {
	TotalRecipients int      `json:"totalRecipients"`
	Batches         int      `json:"batches"`
	Accepted        int      `json:"accepted"`
	Rejected        int      `json:"rejected"`
	FailedBatches   int      `json:"failedBatches"`
	Errors          []string `json:"errors"`
}

// Dispatcher sends broadcasts through a shared Sender.
type Dispatcher struct {
	sender Sender
	log    *zap.Logger

	sleep func(time.Duration) // stubbed in tests
}

// New creates a Dispatcher bound to the given transport.
func New(sender Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		log:    logger,
		sleep:  time.Sleep,
	}
}

// Dispatch runs the job to completion and returns the aggregate result.
// An empty recipient list returns immediately without touching the
// transport. Per-batch errors are collected in the result, never
// returned as an error; dispatch has no mid-flight cancellation.
func (d *Dispatcher) Dispatch(job Job) Result {
	result := Result{
		TotalRecipients: len(job.Recipients),
		Errors:          []string{},
	}
	if len(job.Recipients) == 0 {
		return result
	}

	chunkSize := job.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < 1 {
		chunkSize = 1
	}

	batches := chunk(job.Recipients, chunkSize)
	result.Batches = len(batches)

	jobID := uuid.NewString()
	d.log.Info("broadcast started",
		zap.String("job_id", jobID),
		zap.Int("recipients", len(job.Recipients)),
		zap.Int("batches", len(batches)),
		zap.Int("chunk_size", chunkSize))

	for i, batch := range batches {
		err := d.sender.Send(mailer.Email{
			Bcc:      batch, // BCC only: recipients stay hidden from each other
			From:     job.FromOverride,
			Subject:  job.Subject,
			TextBody: job.TextBody,
			HTMLBody: job.HTMLBody,
		})
		if err != nil {
			result.FailedBatches++
			result.Errors = append(result.Errors, err.Error())
			d.log.Warn("broadcast batch failed",
				zap.String("job_id", jobID),
				zap.Int("batch", i),
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
		} else {
			result.Accepted += len(batch)
		}

		if job.Delay > 0 && i < len(batches)-1 {
			d.sleep(job.Delay)
		}
	}

	d.log.Info("broadcast finished",
		zap.String("job_id", jobID),
		zap.Int("accepted", result.Accepted),
		zap.Int("failed_batches", result.FailedBatches))
	return result
}

// chunk splits recipients into consecutive slices of at most size
// elements, preserving order.
func chunk(recipients []string, size int) [][]string {
	var out [][]string
	for i := 0; i < len(recipients); i += size {
		end := i + size
		if end > len(recipients) {
			end = len(recipients)
		}
		out = append(out, recipients[i:end])
	}
	return out
}
