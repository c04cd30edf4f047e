// Package app wires configuration, storage and transports into runnable
// processes.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sould/property-match/internal/api"
	"github.com/sould/property-match/internal/api/handler"
	"github.com/sould/property-match/internal/api/metrics"
	"github.com/sould/property-match/internal/core/service"
	mongorepo "github.com/sould/property-match/internal/infrastructure/db/mongo"
	redisstore "github.com/sould/property-match/internal/infrastructure/db/redis"
	"github.com/sould/property-match/internal/infrastructure/jobs"
	"github.com/sould/property-match/internal/infrastructure/notify"
	"github.com/sould/property-match/internal/pkg/config"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepLockName   = "sweep"
)

// App holds the open connections of one process.
type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *mongo.Client
	db     *mongo.Database
	redis  *goredis.Client
	sender notify.Sender
}

// Open connects to MongoDB, to Redis when configured, and builds the
// notification sender.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, log: log, client: client, db: db}

	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.redis = rdb
	}

	sender, err := notify.New(notifyConfig(cfg), log.With().Str("component", "notify").Logger())
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.sender = sender

	log.Info().
		Str("database", cfg.Mongo.Database).
		Bool("redis", a.redis != nil).
		Str("mail_driver", cfg.Mail.Driver).
		Msg("dependencies connected")
	return a, nil
}

func notifyConfig(cfg *config.Config) notify.Config {
	return notify.Config{
		Driver: cfg.Mail.Driver,
		From:   cfg.Mail.From,
		SMTP: notify.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			User:     cfg.Mail.SMTPUser,
			Password: cfg.Mail.SMTPPassword,
		},
		AMQP: notify.AMQPConfig{URL: cfg.Mail.AMQPURL, Queue: cfg.Mail.AMQPQueue},
	}
}

// Close releases every connection. It is safe on a partially opened App.
func (a *App) Close(ctx context.Context) {
	if a.sender != nil {
		if err := a.sender.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close notifier")
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close redis")
		}
	}
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			a.log.Warn().Err(err).Msg("disconnect mongo")
		}
	}
}

type services struct {
	auth        *service.AuthService
	users       *service.UserService
	filters     *service.FilterService
	properties  *service.PropertyService
	invitations *service.InvitationService
	comments    *service.CommentService
	sweep       *service.SweepService
}

func (a *App) services() services {
	users := mongorepo.NewUserRepository(a.db)
	filters := mongorepo.NewFilterRepository(a.db)
	properties := mongorepo.NewPropertyRepository(a.db)
	selections := mongorepo.NewSelectionRepository(a.db)
	comments := mongorepo.NewCommentRepository(a.db)
	invitations := mongorepo.NewInvitationRepository(a.db)

	gate := service.NewAccessGate(invitations)
	named := func(name string) zerolog.Logger {
		return a.log.With().Str("component", name).Logger()
	}

	return services{
		auth: service.NewAuthService(users, invitations, a.sender, service.AuthConfig{
			JWTSecret:       a.cfg.JWTSecret,
			TokenTTL:        a.cfg.TokenTTL,
			VerificationTTL: a.cfg.VerificationTTL,
			Host:            a.cfg.Host,
		}, named("auth")),
		users:       service.NewUserService(users, named("users")),
		filters:     service.NewFilterService(filters, named("filters")),
		properties:  service.NewPropertyService(properties, selections, filters, gate, named("properties")),
		invitations: service.NewInvitationService(invitations, users, a.sender, named("invitations")),
		comments:    service.NewCommentService(comments, users, gate, named("comments")),
		sweep:       service.NewSweepService(properties, selections, comments, a.cfg.Sweep.Retention, named("sweep")),
	}
}

// EnsureIndexes creates the collection indexes.
func (a *App) EnsureIndexes(ctx context.Context) error {
	return mongorepo.EnsureIndexes(ctx, a.db)
}

// scheduler builds the sweep scheduler. The Redis lock keeps replicas from
// sweeping concurrently.
func (a *App) scheduler(sweep *service.SweepService) *jobs.Scheduler {
	var locker jobs.Locker
	if a.redis != nil {
		locker = redisstore.NewLock(a.redis, sweepLockName, a.cfg.Sweep.Interval)
	}
	s := jobs.NewScheduler(sweep, locker, a.cfg.Sweep.Interval, a.log.With().Str("component", "sweep").Logger())
	s.OnRun(observeSweep)
	return s
}

func observeSweep(res service.SweepResult, outcome string) {
	metrics.SweepRunsTotal.WithLabelValues(outcome).Inc()
	if outcome != jobs.OutcomeOK {
		return
	}
	metrics.SweepPurgedTotal.WithLabelValues("properties").Add(float64(res.Properties))
	metrics.SweepPurgedTotal.WithLabelValues("comments").Add(float64(res.Comments))
	metrics.SweepPurgedTotal.WithLabelValues("selections").Add(float64(res.Selections))
}

// SweepOnce runs a single sweep. It reports false when the run was skipped
// or failed; the scheduler logs the reason.
func (a *App) SweepOnce(ctx context.Context) bool {
	return a.scheduler(a.services().sweep).RunOnce(ctx)
}

// Serve runs the HTTP API and the sweep scheduler until ctx is cancelled,
// then drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	svc := a.services()

	deps := api.Deps{
		Auth:        svc.auth,
		Users:       svc.users,
		Filters:     svc.filters,
		Properties:  svc.properties,
		Invitations: svc.invitations,
		Comments:    svc.comments,
		JWTSecret:   a.cfg.JWTSecret,
		Logger:      a.log.With().Str("component", "http").Logger(),
		Health: map[string]handler.Pinger{
			"mongo": func(ctx context.Context) error { return a.client.Ping(ctx, readpref.Primary()) },
		},
	}
	if a.redis != nil {
		deps.Health["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
		if a.cfg.RateLimit.Enabled {
			deps.Limiter = redisstore.NewRateLimiter(a.redis, a.cfg.RateLimit.Requests, a.cfg.RateLimit.Window)
		}
	} else if a.cfg.RateLimit.Enabled {
		a.log.Warn().Msg("rate limiting needs REDIS_ADDR; disabled")
	}

	e := api.NewRouter(deps)

	a.scheduler(svc.sweep).Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.Port
		a.log.Info().Str("addr", addr).Str("env", a.cfg.Env).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}
