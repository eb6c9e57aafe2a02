// Package worker provides async audit processing from the EventBus.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opensource-safety/kestrel/internal/advisor"
	"github.com/opensource-safety/kestrel/internal/domain"
	"github.com/opensource-safety/kestrel/internal/engine"
)

// Worker scores submitted audits asynchronously from the EventBus.
// The HTTP ingest path stays synchronous; the worker serves bus-driven
// ingestion such as offline sync batches.
type Worker struct {
	bus     domain.EventBus
	repo    domain.Repository
	cache   domain.Cache
	advisor *advisor.Advisor

	subscriptions []domain.Subscription
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

// Config holds worker configuration.
type Config struct {
	// TenantIDs is the list of tenants to process (empty = all via wildcard if supported)
	TenantIDs []string

	// WorkerCount is the number of concurrent workers per tenant
	WorkerCount int
}

// NewWorker creates a new async worker.
func NewWorker(bus domain.EventBus, repo domain.Repository, cache domain.Cache, adv *advisor.Advisor) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:     bus,
		repo:    repo,
		cache:   cache,
		advisor: adv,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins processing messages for the given tenants.
func (w *Worker) Start(cfg Config) error {
	if len(cfg.TenantIDs) == 0 {
		return w.startGlobalWorker()
	}

	for _, tenantID := range cfg.TenantIDs {
		if err := w.startTenantWorker(tenantID); err != nil {
			slog.Error("failed to start worker for tenant",
				"tenant_id", tenantID,
				"error", err,
			)
			continue
		}
	}

	slog.Info("workers started",
		"tenant_count", len(cfg.TenantIDs),
	)

	return nil
}

// startGlobalWorker starts a worker that processes all tenants (for testing/dev).
func (w *Worker) startGlobalWorker() error {
	// Subscribe using a special "global" tenant ID
	// In production, you'd want to subscribe with wildcards or JetStream
	sub, err := w.bus.Subscribe(w.ctx, "_global", domain.TopicAuditSubmitted, w.handleMessage)
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("global worker started")
	return nil
}

// startTenantWorker starts workers for a specific tenant.
func (w *Worker) startTenantWorker(tenantID string) error {
	sub, err := w.bus.Subscribe(w.ctx, tenantID, domain.TopicAuditSubmitted, func(ctx context.Context, msg *domain.Message) error {
		return w.processAudit(ctx, tenantID, msg)
	})
	if err != nil {
		return err
	}
	w.subscriptions = append(w.subscriptions, sub)

	slog.Info("tenant worker started",
		"tenant_id", tenantID,
		"topic", domain.TopicAuditSubmitted,
	)

	return nil
}

// handleMessage handles messages from global subscription.
func (w *Worker) handleMessage(ctx context.Context, msg *domain.Message) error {
	return w.processAudit(ctx, msg.TenantID, msg)
}

// AuditMessage is the message payload for audit processing.
type AuditMessage struct {
	AuditID   string           `json:"auditId"`
	TenantID  string           `json:"tenantId"`
	TraceID   string           `json:"traceId"`
	Auditor   string           `json:"auditor"`
	Location  string           `json:"location"`
	AuditDate string           `json:"auditDate"`
	Answers   domain.AnswerMap `json:"answers"`
}

// processAudit scores a submitted audit through the pipeline.
func (w *Worker) processAudit(ctx context.Context, tenantID string, msg *domain.Message) error {
	start := time.Now()

	// Parse message
	var auditMsg AuditMessage
	if err := json.Unmarshal(msg.Payload, &auditMsg); err != nil {
		slog.Error("failed to parse audit message",
			"message_id", msg.ID,
			"error", err,
		)
		return err
	}

	// Use message tenant if provided
	if auditMsg.TenantID != "" {
		tenantID = auditMsg.TenantID
	}

	traceID := auditMsg.TraceID
	if traceID == "" {
		traceID = msg.ID
	}

	auditID := auditMsg.AuditID
	if auditID == "" {
		auditID = uuid.New().String()
	}

	slog.Debug("processing audit",
		"audit_id", auditID,
		"tenant_id", tenantID,
		"trace_id", traceID,
	)

	// 1. Score the answer map
	scoringStart := time.Now()
	result := engine.Score(auditMsg.Answers)
	scoringMs := time.Since(scoringStart).Milliseconds()

	// 2. Run advisory rules against the result
	advisoryStart := time.Now()
	var notices []domain.AdvisoryNotice
	var rulesRun int
	if w.advisor != nil {
		notices, rulesRun = w.advisor.Evaluate(ctx, auditMsg.Answers, &result)
	}
	advisoryMs := time.Since(advisoryStart).Milliseconds()

	assessment := &domain.Assessment{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		AuditID:   auditID,
		Result:    result,
		Notices:   notices,
		Timestamp: time.Now().UTC(),
		Metadata: domain.AssessmentMetadata{
			TraceID:          traceID,
			ScoringMs:        scoringMs,
			AdvisoryMs:       advisoryMs,
			TotalMs:          time.Since(start).Milliseconds(),
			AdvisoryRulesRun: rulesRun,
			EngineVersion:    engine.Version,
		},
	}

	// 3. Save audit and assessment
	if w.repo != nil {
		audit := &domain.Audit{
			ID:        auditID,
			TenantID:  tenantID,
			Auditor:   auditMsg.Auditor,
			Location:  auditMsg.Location,
			AuditDate: auditMsg.AuditDate,
			Answers:   auditMsg.Answers,
			CreatedAt: time.Now().UTC(),
		}
		if err := w.repo.SaveAudit(ctx, tenantID, audit); err != nil {
			slog.Error("failed to save audit",
				"audit_id", auditID,
				"error", err,
			)
		}
		if err := w.repo.SaveAssessment(ctx, tenantID, assessment); err != nil {
			slog.Error("failed to save assessment",
				"audit_id", auditID,
				"error", err,
			)
		}
	}

	// 4. Cache the assessment by audit
	if w.cache != nil {
		if err := w.cache.SetAssessmentByAudit(ctx, tenantID, auditID, assessment, time.Hour); err != nil {
			slog.Warn("failed to cache assessment",
				"audit_id", auditID,
				"error", err,
			)
		}
	}

	// 5. Publish result to scored topic
	resultPayload, _ := json.Marshal(assessment)
	if err := w.bus.Publish(ctx, tenantID, domain.TopicAuditScored, resultPayload); err != nil {
		slog.Error("failed to publish scored event",
			"audit_id", auditID,
			"error", err,
		)
	}

	// 6. If the bathroom scored poorly, publish to alert topic
	if result.Level == domain.LevelAtRisk || result.Level == domain.LevelHighRisk {
		if err := w.bus.Publish(ctx, tenantID, domain.TopicAuditAlert, resultPayload); err != nil {
			slog.Error("failed to publish alert",
				"audit_id", auditID,
				"error", err,
			)
		}
	}

	slog.Info("audit processed",
		"audit_id", auditID,
		"tenant_id", tenantID,
		"level", result.Level,
		"score", result.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Stop gracefully stops all workers.
func (w *Worker) Stop() error {
	w.cancel()

	// Unsubscribe all
	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			slog.Error("failed to unsubscribe",
				"topic", sub.Topic(),
				"error", err,
			)
		}
	}
	w.subscriptions = nil

	w.wg.Wait()

	slog.Info("workers stopped")
	return nil
}

// Stats returns worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscriptionCount"`
	Topics            []string `json:"topics"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
	}
}
