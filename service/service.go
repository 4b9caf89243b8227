package service

import (
	"context"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nautilus-earnout/kpi-engine/attest"
	"github.com/nautilus-earnout/kpi-engine/document"
	"github.com/nautilus-earnout/kpi-engine/kpi"
)

// Service drains queued attestation requests: load the document set, build
// the attestation, submit the encoded record to the ledger. A failing
// request is logged and skipped so the rest of the batch keeps making
// progress.
type Service struct {
	cfg     Config
	logger  *zap.Logger
	builder *attest.Builder
	store   DocumentStore
	ledger  LedgerClient
	queue   *RequestQueue
}

// New wires a service from its collaborators. The aggregation policy knobs
// from cfg are threaded into the engine's aggregator.
func New(cfg Config, logger *zap.Logger, signer attest.Signer, store DocumentStore, ledger LedgerClient) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	aggregator := kpi.NewAggregator()
	aggregator.RevenueAccount = cfg.RevenueAccount
	aggregator.OverheadRate = cfg.overheadRate()

	builder := attest.NewBuilder(signer)
	builder.Aggregator = aggregator

	return &Service{
		cfg:     cfg,
		logger:  logger,
		builder: builder,
		store:   store,
		ledger:  ledger,
		queue:   NewRequestQueue(cfg.QueueCapacity),
	}
}

// Submit queues an attestation request for a document set. The second
// return is false when an identical request is already pending.
func (s *Service) Submit(documentSetID string, initial *apd.Decimal) (uuid.UUID, bool) {
	req := Request{
		ID:            uuid.New(),
		DocumentSetID: documentSetID,
		Initial:       initial,
		EnqueuedAt:    time.Now(),
	}
	if !s.queue.Enqueue(req) {
		return uuid.Nil, false
	}
	return req.ID, true
}

// QueueLen reports how many requests are waiting.
func (s *Service) QueueLen() int {
	return s.queue.Len()
}

// Drain processes up to DrainBatchLimit queued requests with bounded
// parallelism and returns how many completed. Overflow beyond the batch
// limit goes back on the queue for the next drain.
func (s *Service) Drain(ctx context.Context) int {
	requests := s.queue.DequeueAll()
	if len(requests) == 0 {
		return 0
	}

	if limit := s.cfg.DrainBatchLimit; len(requests) > limit {
		for _, overflow := range requests[limit:] {
			s.queue.Enqueue(overflow)
		}
		requests = requests[:limit]
	}

	var processed atomic.Int64
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.SignParallelism)

	for _, req := range requests {
		req := req
		group.Go(func() error {
			if err := s.process(ctx, req); err != nil {
				s.logger.Error("attestation request failed",
					zap.String("request_id", req.ID.String()),
					zap.String("document_set", req.DocumentSetID),
					zap.Error(err))
				return nil // keep the batch moving
			}
			processed.Add(1)
			return nil
		})
	}

	_ = group.Wait()
	return int(processed.Load())
}

func (s *Service) process(ctx context.Context, req Request) error {
	docs, err := s.store.LoadDocuments(ctx, req.DocumentSetID)
	if err != nil {
		return errors.Wrap(err, "load documents")
	}

	att, result, err := s.builder.Build(docs, req.Initial)
	if err != nil {
		return errors.Wrap(err, "build attestation")
	}

	record := att.Encode()
	if err := s.submit(ctx, record, att.KPIValueScaled, req.DocumentSetID); err != nil {
		return errors.Wrap(err, "submit attestation")
	}

	s.logSubmitted(req, att, docs, result)
	return nil
}

// submit pushes the record to the ledger, retrying with exponential backoff
// until SubmitMaxElapsed runs out or the context is cancelled. Retry policy
// lives here, on the calling side, because the engine itself never retries.
func (s *Service) submit(ctx context.Context, record []byte, scaled int64, documentSetID string) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = s.cfg.SubmitMaxElapsed

	operation := func() error {
		return s.ledger.SubmitAttestation(ctx, record, scaled, documentSetID)
	}
	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

func (s *Service) logSubmitted(req Request, att *attest.Attestation, docs []document.Document, result kpi.Result) {
	zeroed := lo.CountBy(result.Contributions, func(c kpi.Contribution) bool {
		return len(c.ZeroNotes) > 0
	})

	s.logger.Info("attestation submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("document_set", req.DocumentSetID),
		zap.Int64("kpi_value_scaled", att.KPIValueScaled),
		zap.String("input_hash", hex.EncodeToString(att.InputHash[:])),
		zap.Uint64("timestamp_ms", att.Timestamp),
		zap.Int("documents", len(docs)),
		zap.Int("zero_contributions", zeroed),
		zap.String("last_kind", result.LastKind.String()))
}

// VerifyParams exposes the service's freshness window as verification
// parameters for consumers that re-check attestations out of band.
func (s *Service) VerifyParams(expectedValue *apd.Decimal, expectedDocs []document.Document, now time.Time) attest.VerifyParams {
	return attest.VerifyParams{
		ExpectedValue:      expectedValue,
		ExpectedDocuments:  expectedDocs,
		Now:                now,
		MaxAge:             s.cfg.MaxAge,
		ClockSkewTolerance: s.cfg.ClockSkewTolerance,
	}
}
