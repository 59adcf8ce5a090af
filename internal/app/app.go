package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres"
	assignmentrepo "github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres/assignment"
	combinationrepo "github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres/combination"
	ledgerrepo "github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres/ledger"
	requestrepo "github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres/request"
	rosterrepo "github.com/heartmarshall/shiftbot-backend/internal/adapter/postgres/roster"
	"github.com/heartmarshall/shiftbot-backend/internal/config"
	"github.com/heartmarshall/shiftbot-backend/internal/domain"
	"github.com/heartmarshall/shiftbot-backend/internal/notify"
	approvalsvc "github.com/heartmarshall/shiftbot-backend/internal/service/approval"
	combinationsvc "github.com/heartmarshall/shiftbot-backend/internal/service/combination"
	rostersvc "github.com/heartmarshall/shiftbot-backend/internal/service/roster"
	schedulesvc "github.com/heartmarshall/shiftbot-backend/internal/service/schedule"
	sessionsvc "github.com/heartmarshall/shiftbot-backend/internal/service/session"
)

// App holds the wired service graph. The transport layer (a chat bot, a CLI)
// drives it through the service methods and the session engine.
type App struct {
	Cfg  *config.Config
	Log  *slog.Logger
	Pool *pgxpool.Pool

	Roster      *rostersvc.Service
	Schedule    *schedulesvc.Service
	Combination *combinationsvc.Service
	Approval    *approvalsvc.Service
	Sessions    *sessionsvc.Engine
}

// New connects to the database, applies migrations, and wires every service.
// sender may be nil; notifications then go to the log.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, sender notify.Sender) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if sender == nil {
		sender = notify.NewLogSender(logger)
	}

	txManager := postgres.NewTxManager(pool)
	members := rosterrepo.New(pool)
	assignments := assignmentrepo.New(pool)
	entries := ledgerrepo.New(pool)
	requests := requestrepo.New(pool)
	overrides := combinationrepo.New(pool)

	roster := rostersvc.NewService(logger, members)

	var notifier schedulesvc.Notifier
	if cfg.Bot.NotifyChanges {
		notifier = notify.NewFanout(logger, sender)
	}
	schedule := schedulesvc.NewService(logger, assignments, entries, roster, txManager, notifier, cfg.Bot.AdminIDs, cfg.Bot.UndoWindow)

	return &App{
		Cfg:         cfg,
		Log:         logger,
		Pool:        pool,
		Roster:      roster,
		Schedule:    schedule,
		Combination: combinationsvc.NewService(logger, overrides, roster),
		Approval:    approvalsvc.NewService(logger, requests, roster, schedule),
		Sessions:    sessionsvc.NewEngine(logger, schedule, roster),
	}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	a.Pool.Close()
}

// RecentChanges returns the ledger tail using the configured window and limit.
func (a *App) RecentChanges(ctx context.Context) ([]domain.ChangeEntry, error) {
	since := time.Now().Add(-a.Cfg.Bot.ChangesWindow)
	return a.Schedule.RecentChanges(ctx, since, a.Cfg.Bot.ChangesLimit)
}

// PendingRequests returns the review queue using the configured limit.
func (a *App) PendingRequests(ctx context.Context) ([]domain.ChangeRequest, error) {
	return a.Approval.Pending(ctx, a.Cfg.Bot.PendingLimit)
}

// Run is the process entry point: it wires the application and blocks until
// the context is cancelled, sweeping idle sessions in the background.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Int("admins", len(cfg.Bot.AdminIDs)),
	)

	a, err := New(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	go a.sweepIdleSessions(ctx)

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func (a *App) sweepIdleSessions(ctx context.Context) {
	ticker := time.NewTicker(a.Cfg.Bot.SessionMaxIdle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sessions.PurgeIdle(a.Cfg.Bot.SessionMaxIdle)
		}
	}
}
