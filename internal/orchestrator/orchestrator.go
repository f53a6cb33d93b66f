// Package orchestrator binds queue.Job messages to stage handler functions
// via a pull-consumer loop: fetch a batch, dispatch each message, Ack only after the
// handler's write commits, Nak transient failures for redelivery, Term
// poison pills so they are never retried.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/notify"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/queue"
)

// fetchBatchSize is how many messages a single pull Fetch asks for.
const fetchBatchSize = 10

// StageHandler processes one job for a given record. A *PermanentError
// return terminates the message instead of requeuing it.
type StageHandler func(ctx context.Context, job queue.Job) error

// PermanentError marks a job as unrecoverable: malformed record id, record
// not found, or a validation failure that retrying cannot fix.
type PermanentError struct {
	Reason string
}

func (e *PermanentError) Error() string { return "permanent: " + e.Reason }

// Orchestrator owns one durable pull subscription per registered stage.
type Orchestrator struct {
	q             *queue.Queue
	logger        *zap.Logger
	sink          notify.Sink
	durablePrefix string
	handlers      map[queue.Stage]StageHandler
}

// New builds an Orchestrator. durablePrefix namespaces the JetStream
// consumer durable names so multiple deployments can share one NATS
// account without colliding.
func New(q *queue.Queue, sink notify.Sink, logger *zap.Logger, durablePrefix string) *Orchestrator {
	return &Orchestrator{
		q:             q,
		logger:        logger,
		sink:          sink,
		durablePrefix: durablePrefix,
		handlers:      make(map[queue.Stage]StageHandler),
	}
}

// RegisterStage wires a handler for a stage. Call before Start.
func (o *Orchestrator) RegisterStage(stage queue.Stage, handler StageHandler) {
	o.handlers[stage] = handler
}

// Start launches one pull-consumer goroutine per registered stage and
// returns immediately; each goroutine stops when ctx is done.
func (o *Orchestrator) Start(ctx context.Context) error {
	for stage, handler := range o.handlers {
		durable := fmt.Sprintf("%s-%s", o.durablePrefix, stage)
		sub, err := o.q.PullSubscribe(stage, durable)
		if err != nil {
			return fmt.Errorf("orchestrator: subscribe %s: %w", stage, err)
		}
		o.logger.Info("orchestrator stage consumer started",
			zap.String("stage", string(stage)),
			zap.String("durable", durable),
		)
		go o.run(ctx, stage, sub, handler)
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, stage queue.Stage, sub *nats.Subscription, handler StageHandler) {
	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator stage consumer stopping", zap.String("stage", string(stage)))
			return
		default:
			msgs, err := sub.Fetch(fetchBatchSize, nats.Context(ctx))
			if err != nil {
				// nats.ErrTimeout on an empty queue is expected, not an error.
				continue
			}
			for _, msg := range msgs {
				o.dispatch(ctx, stage, msg, handler)
			}
		}
	}
}

func (o *Orchestrator) dispatch(ctx context.Context, stage queue.Stage, msg *nats.Msg, handler StageHandler) {
	job, err := queue.Decode(msg.Data)
	if err != nil {
		o.logger.Warn("terminating malformed job message", zap.Error(err))
		msg.Term()
		return
	}

	err = handler(ctx, job)
	if err == nil {
		msg.Ack()
		return
	}

	o.sink.JobFailed(ctx, string(stage), job.RecordID, err)

	var perm *PermanentError
	if errors.As(err, &perm) {
		o.logger.Warn("terminating permanently failed job",
			zap.String("stage", string(stage)),
			zap.String("record_id", job.RecordID),
			zap.Error(err),
		)
		msg.Term()
		return
	}

	o.logger.Error("nak job for redelivery",
		zap.String("stage", string(stage)),
		zap.String("record_id", job.RecordID),
		zap.Error(err),
	)
	msg.Nak()
}
