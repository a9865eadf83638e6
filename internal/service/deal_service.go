package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/broker"
	"crm-service/internal/models"
	"crm-service/internal/redisclient"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Validation errors surfaced as 4xx at the transport boundary
var (
	ErrTitleRequired = errors.New("title is required")
	ErrDealLocked    = errors.New("deal is being progressed by another request")
)

const progressLockTTL = 5 * time.Second

// DealService handles the deal pipeline: CRUD, stage transitions and the
// derived pipeline summary
type DealService struct {
	store              *store.Store
	redis              *redisclient.Client
	eventPublisher     *broker.EventPublisher
	logger             *zap.Logger
	recentDealsLimit   int
	deadlineWindowDays int
}

// NewDealService creates a new deal service
func NewDealService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	recentDealsLimit int,
	deadlineWindowDays int,
) *DealService {
	return &DealService{
		store:              store,
		redis:              redis,
		eventPublisher:     eventPublisher,
		logger:             util.NamedLogger("deals"),
		recentDealsLimit:   recentDealsLimit,
		deadlineWindowDays: deadlineWindowDays,
	}
}

// DealRequest carries the mutable deal fields for create and update
type DealRequest struct {
	CustomerID  *int64     `json:"customer_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Value       float64    `json:"value"`
	Stage       string     `json:"stage"`
	Probability int        `json:"probability"`
	DeadLine    *time.Time `json:"dead_line"`
}

// applyDealDefaults validates the request and fills defaults for absent
// fields. Probability defaults to 0, not the canonical 10 for prospect:
// create and update bypass the transition engine.
func applyDealDefaults(req *DealRequest) (*models.Deal, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}

	deal := &models.Deal{
		CustomerID:  req.CustomerID,
		Title:       req.Title,
		Description: req.Description,
		Value:       req.Value,
		Stage:       req.Stage,
		Probability: req.Probability,
		DeadLine:    req.DeadLine,
	}
	if deal.Stage == "" {
		deal.Stage = models.StageProspect
	}
	if deal.Value < 0 {
		deal.Value = 0
	}
	return deal, nil
}

// ListDeals returns all deals, newest first
func (s *DealService) ListDeals(ctx context.Context) ([]models.Deal, error) {
	return s.store.GetDeals(ctx)
}

// GetDeal returns one deal with its customer display name
func (s *DealService) GetDeal(ctx context.Context, id int64) (*models.Deal, error) {
	return s.store.GetDealByID(ctx, id)
}

// CreateDeal inserts a deal and returns its id together with a fresh
// pipeline summary (nil when the recompute failed)
func (s *DealService) CreateDeal(ctx context.Context, req *DealRequest) (*models.Deal, *models.PipelineSummary, error) {
	ctx, span := util.StartSpan(ctx, "DealService.CreateDeal")
	defer span.End()

	deal, err := applyDealDefaults(req)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.CreateDeal(ctx, deal); err != nil {
		return nil, nil, fmt.Errorf("failed to create deal: %w", err)
	}

	util.DealsCreatedTotal.Inc()
	s.logger.Info("Deal created",
		zap.Int64("deal_id", deal.ID),
		zap.String("stage", deal.Stage))

	event := &models.DealCreatedEvent{
		BaseEvent:  newBaseEvent(models.EventTypeDealCreated),
		DealID:     deal.ID,
		CustomerID: deal.CustomerID,
		Title:      deal.Title,
		Value:      deal.Value,
		Stage:      deal.Stage,
	}
	if err := s.eventPublisher.PublishDealCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish DealCreated event", zap.Error(err))
	}

	return deal, s.recomputeSummary(ctx), nil
}

// UpdateDeal fully replaces the mutable fields of a deal
func (s *DealService) UpdateDeal(ctx context.Context, id int64, req *DealRequest) (*models.PipelineSummary, error) {
	ctx, span := util.StartSpan(ctx, "DealService.UpdateDeal")
	defer span.End()

	deal, err := applyDealDefaults(req)
	if err != nil {
		return nil, err
	}
	deal.ID = id

	if err := s.store.UpdateDeal(ctx, deal); err != nil {
		return nil, err
	}

	return s.recomputeSummary(ctx), nil
}

// DeleteDeal removes a deal. No cascade to other entities.
func (s *DealService) DeleteDeal(ctx context.Context, id int64) (*models.PipelineSummary, error) {
	ctx, span := util.StartSpan(ctx, "DealService.DeleteDeal")
	defer span.End()

	if err := s.store.DeleteDeal(ctx, id); err != nil {
		return nil, err
	}

	util.DealsDeletedTotal.Inc()

	event := &models.DealDeletedEvent{
		BaseEvent: newBaseEvent(models.EventTypeDealDeleted),
		DealID:    id,
	}
	if err := s.eventPublisher.PublishDealDeleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish DealDeleted event", zap.Error(err))
	}

	return s.recomputeSummary(ctx), nil
}

// ProgressResult is the outcome of one stage transition
type ProgressResult struct {
	Stage       string
	Probability int
	Summary     *models.PipelineSummary
}

// ProgressDeal walks the deal one stage forward or backward, deriving the
// canonical probability for the new stage. Stage and probability are
// persisted in a single update touching nothing else.
func (s *DealService) ProgressDeal(ctx context.Context, id int64, direction string) (*ProgressResult, error) {
	ctx, span := util.StartSpan(ctx, "DealService.ProgressDeal")
	defer span.End()

	if direction != DirectionForward && direction != DirectionBackward {
		return nil, ErrInvalidDirection
	}

	locked, lockErr := s.redis.AcquireDealLock(ctx, id, progressLockTTL)
	if lockErr != nil {
		// A Redis outage degrades to last-write-wins rather than blocking
		s.logger.Warn("Progress lock unavailable, proceeding unguarded",
			zap.Int64("deal_id", id),
			zap.Error(lockErr))
	} else if !locked {
		return nil, ErrDealLocked
	} else {
		defer s.releaseProgressLock(id)
	}

	deal, err := s.store.GetDealByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStage, newProbability, err := nextStage(deal.Stage, direction)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateDealStage(ctx, id, newStage, newProbability); err != nil {
		return nil, err
	}

	util.DealStageTransitionsTotal.WithLabelValues(direction, newStage).Inc()
	s.logger.Info("Deal progressed",
		zap.Int64("deal_id", id),
		zap.String("from", deal.Stage),
		zap.String("to", newStage),
		zap.Int("probability", newProbability))

	event := &models.DealStageChangedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeDealStageChanged),
		DealID:      id,
		CustomerID:  deal.CustomerID,
		Title:       deal.Title,
		FromStage:   deal.Stage,
		ToStage:     newStage,
		Probability: newProbability,
		Direction:   direction,
	}
	if err := s.eventPublisher.PublishDealStageChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish DealStageChanged event", zap.Error(err))
	}

	return &ProgressResult{
		Stage:       newStage,
		Probability: newProbability,
		Summary:     s.recomputeSummary(ctx),
	}, nil
}

func (s *DealService) releaseProgressLock(id int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.redis.ReleaseDealLock(ctx, id); err != nil {
		s.logger.Warn("Failed to release progress lock",
			zap.Int64("deal_id", id),
			zap.Error(err))
	}
}

// Summary returns the pipeline snapshot plus the recent deals feed
func (s *DealService) Summary(ctx context.Context) (*models.PipelineSummary, error) {
	ctx, span := util.StartSpan(ctx, "DealService.Summary")
	defer span.End()

	summary, err := s.buildSummary(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.store.GetRecentDeals(ctx, s.recentDealsLimit)
	if err != nil {
		return nil, err
	}
	summary.RecentDeals = recent

	return summary, nil
}

// StageBreakdown returns count and total value for every canonical stage,
// zero-filled and in canonical order
func (s *DealService) StageBreakdown(ctx context.Context) ([]models.StageStat, error) {
	stats, err := s.store.GetStageStats(ctx)
	if err != nil {
		return nil, err
	}
	return fillStageBreakdown(stats), nil
}

// DealsNearingDeadline returns non-terminal deals due within the configured
// reminder window
func (s *DealService) DealsNearingDeadline(ctx context.Context) ([]models.Deal, error) {
	return s.store.GetDealsNearingDeadline(ctx, s.deadlineWindowDays)
}

// recomputeSummary derives the pipeline snapshot after a mutation. Failures
// are logged and swallowed: the caller gets nil and the mutation that
// triggered the recompute still reports success.
func (s *DealService) recomputeSummary(ctx context.Context) *models.PipelineSummary {
	start := time.Now()
	defer func() {
		util.SummaryRecomputeLatency.Observe(time.Since(start).Seconds())
	}()

	summary, err := s.buildSummary(ctx)
	if err != nil {
		util.SummaryRecomputeFailures.Inc()
		s.logger.Error("Failed to recompute pipeline summary", zap.Error(err))
		return nil
	}
	return summary
}

func (s *DealService) buildSummary(ctx context.Context) (*models.PipelineSummary, error) {
	totalDeals, err := s.store.CountDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count deals: %w", err)
	}

	totalValue, err := s.store.SumDealValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum deal values: %w", err)
	}

	stats, err := s.store.GetStageStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage stats: %w", err)
	}

	return &models.PipelineSummary{
		TotalDeals:   totalDeals,
		TotalValue:   totalValue,
		DealsByStage: fillStageBreakdown(stats),
	}, nil
}

// fillStageBreakdown orders grouped stage rows canonically, inserting zero
// rows for stages without deals so all six stages always appear
func fillStageBreakdown(stats []models.StageStat) []models.StageStat {
	byStage := make(map[string]models.StageStat, len(stats))
	for _, stat := range stats {
		byStage[stat.Stage] = stat
	}

	out := make([]models.StageStat, 0, len(stageOrder))
	for _, stage := range stageOrder {
		if stat, ok := byStage[stage]; ok {
			out = append(out, stat)
		} else {
			out = append(out, models.StageStat{Stage: stage})
		}
	}
	return out
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
