package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/config"
	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/lock"
	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/planner"
	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/repository"
)

// historyLookbackWeeks bounds how far back assignment history is loaded
// for cooldown and idle-time checks. Must cover the idle cap of the soft
// score and any sane cooldown window.
const historyLookbackWeeks = 52

// ErrProgramBusy wraps a held program lock for callers of the use-case
// layer.
var ErrProgramBusy = errors.New("auto-assignment already running for this program")

// PlanningService wires the engine to its collaborators: the pq-backed
// repositories, the Redis program lock and the alert cache.
type PlanningService struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client

	roster    planner.RosterProvider
	catalog   planner.CatalogProvider
	weekPlans planner.WeekPlanProvider
	history   planner.HistoryProvider
	sink      planner.CommitSink

	programLock *lock.ProgramLock
	settings    planner.Settings
}

// NewPlanningService connects to PostgreSQL and Redis and assembles the
// repositories, lock and engine settings.
func NewPlanningService(cfg *config.Config, logger *zap.Logger) (*PlanningService, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	personRepo := repository.NewPersonRepository(db, logger)
	partTypeRepo := repository.NewPartTypeRepository(db, logger)
	weekPlanRepo := repository.NewWeekPlanRepository(db, logger)
	assignmentRepo := repository.NewAssignmentRepository(db, logger)

	return &PlanningService{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
		roster:      personRepo,
		catalog:     partTypeRepo,
		weekPlans:   weekPlanRepo,
		history:     assignmentRepo,
		sink:        assignmentRepo,
		programLock: lock.NewProgramLock(
			redisClient,
			cfg.Planner.LockKeyPrefix,
			time.Duration(cfg.Planner.LockTTLSeconds)*time.Second,
			logger,
		),
		settings: planner.Settings{
			CooldownWeeks:  cfg.Planner.CooldownWeeks,
			LookaheadWeeks: cfg.Planner.LookaheadWeeks,
		},
	}, nil
}

// Stop closes the database and Redis connections.
func (s *PlanningService) Stop() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
}

// Start runs the periodic validation scan until ctx is cancelled. Each
// tick validates the configured look-ahead window starting at the current
// week and refreshes the alert cache.
func (s *PlanningService) Start(ctx context.Context) error {
	interval := time.Duration(s.config.Planner.ScanIntervalSeconds) * time.Second
	if interval <= 0 {
		s.logger.Info("Validation scan disabled")
		<-ctx.Done()
		return nil
	}

	s.logger.Info("Validation scan started",
		zap.Duration("interval", interval),
	)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.scanOnce(ctx)
		}
	}
}

func (s *PlanningService) scanOnce(ctx context.Context) {
	fromKey := models.WeekKeyOf(time.Now())
	toKey, err := models.AddWeeks(fromKey, s.settings.LookaheadWeeks-1)
	if err != nil {
		s.logger.Error("Failed to compute scan window", zap.Error(err))
		return
	}

	alerts, err := s.ValidateProgram(ctx, fromKey, toKey)
	if err != nil {
		s.logger.Error("Validation scan failed",
			zap.String("from", fromKey),
			zap.String("to", toKey),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Validation scan finished",
		zap.String("from", fromKey),
		zap.String("to", toKey),
		zap.Int("alerts", len(alerts)),
	)
}

// WeekStatuses classifies the coverage of the given number of consecutive
// weeks starting at fromKey.
func (s *PlanningService) WeekStatuses(ctx context.Context, fromKey string, weeks int) ([]models.WeekCoverageStatus, error) {
	if _, err := models.ParseWeekKey(fromKey); err != nil {
		return nil, err
	}

	var statuses []models.WeekCoverageStatus
	for i := 0; i < weeks; i++ {
		key, err := models.AddWeeks(fromKey, i)
		if err != nil {
			return nil, err
		}
		snapshot, err := s.weekPlans.CoverageSnapshot(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to load coverage for %s: %w", key, err)
		}
		statuses = append(statuses, planner.ClassifyWeek(snapshot))
	}

	return statuses, nil
}

// Progress aggregates the planning progress over weeks consecutive weeks
// starting at fromKey.
func (s *PlanningService) Progress(ctx context.Context, fromKey string, weeks int) (models.PlanningProgress, error) {
	statuses, err := s.WeekStatuses(ctx, fromKey, weeks)
	if err != nil {
		return models.PlanningProgress{}, err
	}
	return planner.AggregateProgress(statuses), nil
}

// CoverageAlerts scans the configured look-ahead window starting at
// fromKey for coverage gaps.
func (s *PlanningService) CoverageAlerts(ctx context.Context, fromKey string) ([]models.PlanningAlert, error) {
	statuses, err := s.WeekStatuses(ctx, fromKey, s.settings.LookaheadWeeks)
	if err != nil {
		return nil, err
	}
	return planner.CoverageAlerts(statuses, s.settings.LookaheadWeeks), nil
}

// SuggestCandidates ranks the eligible candidates for one part of one week
// and returns at most limit of them (limit <= 0 returns the full ranking).
func (s *PlanningService) SuggestCandidates(ctx context.Context, partID, weekKey string, limit int) ([]planner.Candidate, error) {
	if partID == "" {
		return nil, fmt.Errorf("part_id is required")
	}

	plan, err := s.weekPlans.WeekPlan(ctx, weekKey)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, fmt.Errorf("week %s has no plan", weekKey)
	}

	var part *models.WeeklyPart
	for i := range plan.Parts {
		if plan.Parts[i].PartID == partID {
			part = &plan.Parts[i]
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("part not found in week %s: %s", weekKey, partID)
	}

	roster, err := s.roster.ActivePersons(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.PartTypes(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(ctx, weekKey, weekKey)
	if err != nil {
		return nil, err
	}

	evaluator := planner.NewEvaluator(catalog, s.settings)
	return evaluator.TopCandidates(*part, roster, history, limit), nil
}

// ValidateProgram replays the assignments of [fromKey, toKey] against the
// hard constraints and merges in the coverage alerts of the same window.
// The result is cached in Redis for the UI; a cache failure is logged and
// ignored.
func (s *PlanningService) ValidateProgram(ctx context.Context, fromKey, toKey string) ([]models.PlanningAlert, error) {
	weeks, err := models.WeeksBetween(fromKey, toKey)
	if err != nil {
		return nil, err
	}
	if weeks < 0 {
		return nil, fmt.Errorf("to week %s precedes from week %s", toKey, fromKey)
	}

	// History and parts are loaded back past the window start so cooldown
	// violations against earlier assignments are visible.
	lookbackKey, err := models.AddWeeks(fromKey, -historyLookbackWeeks)
	if err != nil {
		return nil, err
	}
	assignments, err := s.history.Assignments(ctx, lookbackKey, toKey)
	if err != nil {
		return nil, err
	}
	plans, err := s.weekPlans.WeekPlansInRange(ctx, lookbackKey, toKey)
	if err != nil {
		return nil, err
	}
	persons, err := s.roster.Persons(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.PartTypes(ctx)
	if err != nil {
		return nil, err
	}

	personsByID := make(map[string]models.Person, len(persons))
	for _, p := range persons {
		personsByID[p.PersonID] = p
	}
	partsByID := make(map[string]models.WeeklyPart)
	for _, plan := range plans {
		for _, part := range plan.Parts {
			partsByID[part.PartID] = part
		}
	}

	validator := planner.NewValidator(catalog, s.settings)
	var alerts []models.PlanningAlert
	for _, alert := range validator.Validate(assignments, personsByID, partsByID) {
		// Alerts about pre-window weeks belong to an earlier program.
		if len(alert.WeekKeys) > 0 && alert.WeekKeys[0] < fromKey {
			continue
		}
		alerts = append(alerts, alert)
	}

	statuses, err := s.WeekStatuses(ctx, fromKey, weeks+1)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, planner.CoverageAlerts(statuses, len(statuses))...)

	s.cacheAlerts(ctx, fromKey, alerts)
	return alerts, nil
}

// RunAutoAssignment fills the open slots of [fromKey, toKey]. The program
// lock serializes runs per program start week.
func (s *PlanningService) RunAutoAssignment(ctx context.Context, fromKey, toKey string) (planner.Report, error) {
	if _, err := models.ParseWeekKey(fromKey); err != nil {
		return planner.Report{}, err
	}
	if _, err := models.ParseWeekKey(toKey); err != nil {
		return planner.Report{}, err
	}

	token, err := s.programLock.Acquire(ctx, fromKey)
	if err != nil {
		if errors.Is(err, lock.ErrLockHeld) {
			return planner.Report{}, ErrProgramBusy
		}
		return planner.Report{}, err
	}
	defer func() {
		if err := s.programLock.Release(context.Background(), fromKey, token); err != nil {
			s.logger.Error("Failed to release program lock",
				zap.String("program", fromKey),
				zap.Error(err),
			)
		}
	}()

	plans, err := s.weekPlans.WeekPlansInRange(ctx, fromKey, toKey)
	if err != nil {
		return planner.Report{}, err
	}
	roster, err := s.roster.ActivePersons(ctx)
	if err != nil {
		return planner.Report{}, err
	}
	catalog, err := s.catalog.PartTypes(ctx)
	if err != nil {
		return planner.Report{}, err
	}
	history, err := s.loadHistory(ctx, fromKey, toKey)
	if err != nil {
		return planner.Report{}, err
	}

	orchestrator := planner.NewOrchestrator(
		planner.NewEvaluator(catalog, s.settings),
		s.sink,
		s.logger,
	)
	return orchestrator.Run(ctx, plans, roster, history), nil
}

// loadHistory builds the constraint-check index over the assignments from
// historyLookbackWeeks before fromKey through toKey.
func (s *PlanningService) loadHistory(ctx context.Context, fromKey, toKey string) (*planner.History, error) {
	lookbackKey, err := models.AddWeeks(fromKey, -historyLookbackWeeks)
	if err != nil {
		return nil, err
	}
	assignments, err := s.history.Assignments(ctx, lookbackKey, toKey)
	if err != nil {
		return nil, err
	}
	return planner.NewHistory(assignments), nil
}

// cacheAlerts stores the latest alert list for a program in Redis with a
// short TTL, mirroring what the validation scan last saw.
func (s *PlanningService) cacheAlerts(ctx context.Context, programKey string, alerts []models.PlanningAlert) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(alerts)
	if err != nil {
		s.logger.Error("Failed to marshal alerts", zap.Error(err))
		return
	}

	key := s.config.Planner.AlertKeyPrefix + programKey + ":alerts"
	ttl := time.Duration(s.config.Planner.AlertCacheTTLSeconds) * time.Second
	if err := s.redisClient.Set(ctx, key, payload, ttl).Err(); err != nil {
		s.logger.Error("Failed to cache alerts",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("Alerts cached",
		zap.String("key", key),
		zap.Int("count", len(alerts)),
	)
}
