// Package queue implements the Task Queue & Chaining component (C13): it
// publishes per-record stage jobs onto a NATS JetStream stream and lets the
// orchestrator pull them back off with durable, competing-consumer
// semantics. Singleflight-per-key is achieved with JetStream's message
// deduplication window rather than an in-process lock, so chaining stays
// correct across multiple pipeline instances.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Stage identifies which pipeline stage a Job targets.
type Stage string

const (
	StageDownload Stage = "download"
	StageExtract  Stage = "extract"
	StageEnrich   Stage = "enrich"
)

// StreamPipeline is the durable JetStream stream all stage subjects live on.
const StreamPipeline = "PIPELINE_JOBS"

// streamSubjects is the wildcard set provisioned on StreamPipeline.
var streamSubjects = []string{"PIPELINE.>"}

// dedupWindow bounds how long JetStream remembers a Nats-Msg-Id for
// server-side deduplication. A job re-enqueued for the same (stage,
// record_id) within this window is dropped at publish time, which is what
// gives chaining its per-key singleflight property without a database lock.
const dedupWindow = 2 * time.Minute

// Job is the unit of work a stage consumer pulls off the queue.
type Job struct {
	Stage    Stage  `json:"stage"`
	RecordID string `json:"record_id"`
	Force    bool   `json:"force"`
}

// subject returns the JetStream subject a Job publishes/subscribes under.
func subject(stage Stage) string {
	return fmt.Sprintf("PIPELINE.%s", stage)
}

// msgID is the JetStream deduplication key for a job: same (stage,
// record_id) collapses to the same key regardless of how many times a
// stage tries to enqueue it inside the dedup window.
func msgID(j Job) string {
	return fmt.Sprintf("%s:%s", j.Stage, j.RecordID)
}

// Queue wraps a NATS connection and JetStream context.
type Queue struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	log  *zap.Logger
}

// Connect dials NATS, opens a JetStream context, and provisions the
// PIPELINE_JOBS stream if it does not already exist.
func Connect(url string, logger *zap.Logger) (*Queue, error) {
	nc, err := nats.Connect(url, nats.RetryOnFailedConnect(true), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("queue: connect: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("queue: jetstream context: %w", err)
	}

	q := &Queue{conn: nc, js: js, log: logger}
	if err := q.provision(); err != nil {
		nc.Close()
		return nil, err
	}
	logger.Info("queue connected", zap.String("url", url))
	return q, nil
}

// provision idempotently ensures PIPELINE_JOBS exists with the expected
// subjects, creating it on first run only.
func (q *Queue) provision() error {
	if _, err := q.js.StreamInfo(StreamPipeline); err == nil {
		return nil
	}
	_, err := q.js.AddStream(&nats.StreamConfig{
		Name:       StreamPipeline,
		Subjects:   streamSubjects,
		Storage:    nats.FileStorage,
		Retention:  nats.LimitsPolicy,
		Duplicates: dedupWindow,
	})
	if err != nil {
		return fmt.Errorf("queue: provision stream: %w", err)
	}
	return nil
}

// Close drains outstanding publishes and subscriptions before closing the
// connection, so in-flight jobs are not silently dropped.
func (q *Queue) Close() {
	if q.conn == nil {
		return
	}
	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
	}
}

// Enqueue publishes a job onto its stage subject. Enqueuing the same
// (stage, record_id) twice within dedupWindow is a no-op at the broker —
// the caller does not need to check for an existing job first.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job: %w", err)
	}
	msg := nats.NewMsg(subject(job.Stage))
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, msgID(job))

	_, err = q.js.PublishMsg(msg, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("queue: publish %s: %w", msgID(job), err)
	}
	return nil
}

// EnqueueNext chains a record from one stage into the next on success
//.
// The download → extract → enrich order is fixed; enriching has no
// successor so EnqueueNext is a no-op for it.
func (q *Queue) EnqueueNext(ctx context.Context, completed Stage, recordID string, force bool) error {
	next, ok := nextStage(completed)
	if !ok {
		return nil
	}
	return q.Enqueue(ctx, Job{Stage: next, RecordID: recordID, Force: force})
}

func nextStage(s Stage) (Stage, bool) {
	switch s {
	case StageDownload:
		return StageExtract, true
	case StageExtract:
		return StageEnrich, true
	default:
		return "", false
	}
}

// PullSubscribe opens a durable pull subscription bound to PIPELINE_JOBS for
// the given stage. durable identifies the consumer group so that multiple
// orchestrator replicas compete for jobs rather than each seeing every one.
func (q *Queue) PullSubscribe(stage Stage, durable string) (*nats.Subscription, error) {
	sub, err := q.js.PullSubscribe(
		subject(stage),
		durable,
		nats.BindStream(StreamPipeline),
		nats.AckExplicit(),
	)
	if err != nil {
		return nil, fmt.Errorf("queue: pull subscribe %s: %w", stage, err)
	}
	return sub, nil
}

// Decode unmarshals a raw job message payload.
func Decode(data []byte) (Job, error) {
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return Job{}, fmt.Errorf("queue: decode job: %w", err)
	}
	return j, nil
}
