package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"reinocalc/api"
	"reinocalc/internal/app"
	"reinocalc/internal/debounce"
	"reinocalc/internal/feetable"
	"reinocalc/internal/logger"
	"reinocalc/internal/metrics"
	"reinocalc/internal/readiness"
	"reinocalc/internal/repository"
	"reinocalc/internal/service"
	"reinocalc/internal/stepgate"
	"reinocalc/internal/util"
	"reinocalc/pkg/typebot"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const dbProbeGrace = 5 * time.Second

func CloseDependencies(handler *api.ApiHandler) {
	if handler.Db == nil {
		return
	}
	err := handler.Db.Close()
	if err != nil {
		handler.Log.Errorw("failed to close db", "error", err)
	}
}

func InitializeDependencies(ctx context.Context) (*api.ApiHandler, *util.Settings, error) {
	log := logger.New()

	settings, err := util.LoadSettings()
	if err != nil {
		return nil, nil, err
	}

	secrets, err := util.LoadSecrets()
	if err != nil {
		// the calculator itself needs no credentials; storage and
		// notifications degrade below
		log.Warnw("running without secrets", "error", err)
		secrets = &util.Secrets{}
	}

	fees, err := feetable.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load fee tables: %w", err)
	}
	steps, err := stepgate.LoadSteps()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load steps: %w", err)
	}
	m, err := metrics.New(settings.MetricsNamespace)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	// calculator sessions do not need the database; submissions wait for
	// the probe up to its budget
	dbConn := openDb(log, secrets.Db)
	submissionRepository := repository.NewDeferredSubmissionRepository(
		time.Duration(settings.DbProbeAttempts)*settings.DbProbeInterval + dbProbeGrace,
	)
	go resolveSubmissionStore(ctx, log, dbConn, settings, submissionRepository)

	var emailService service.EmailService
	if secrets.SES.IsConfigured() {
		emailRepository, err := repository.NewEmailRepository(ctx, secrets.SES.Region, secrets.SES.FromEmail)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create email repository: %w", err)
		}
		emailService = service.NewEmailService(emailRepository, log)
	} else {
		log.Warn("ses is not configured, lead notifications are disabled")
	}

	typebotRepository := repository.NewTypebotRepository(
		typebot.NewClient(secrets.Typebot.ApiHost, secrets.Typebot.PublicID),
	)

	sessionService := service.NewSessionService(app.Dependencies{
		Fees:             fees,
		Steps:            steps,
		Metrics:          m,
		Clock:            debounce.RealClock,
		InputWindow:      settings.InputDebounce,
		ValidationWindow: settings.ValidationWindow,
		Log:              log,
	}, settings.SessionTTL)

	submissionService := service.NewSubmissionService(
		submissionRepository,
		typebotRepository,
		emailService,
		secrets.SES.NotifyEmail,
		m.SubmissionsTotal,
		log,
	)

	apiHandler := &api.ApiHandler{
		Db:                dbConn,
		Fees:              fees,
		SessionService:    sessionService,
		SubmissionService: submissionService,
		Metrics:           m,
		Log:               log,
		JwtDecodeToken:    secrets.Jwt,
		RequireAuth:       settings.RequireAuth,
		TypebotEnabled:    settings.TypebotEnabled,
	}

	return apiHandler, settings, nil
}

func openDb(log *zap.SugaredLogger, dbSecrets util.DbSecrets) *sql.DB {
	if !dbSecrets.IsConfigured() {
		log.Warn("db is not configured, submissions will be kept in memory")
		return nil
	}
	dbConn, err := sql.Open("postgres", dbSecrets.ToConnectionStr())
	if err != nil {
		log.Errorw("failed to open db, submissions will be kept in memory", "error", err)
		return nil
	}
	return dbConn
}

// resolveSubmissionStore settles on postgres when the database answers
// within the probe budget, and on the in-memory store otherwise.
func resolveSubmissionStore(ctx context.Context, log *zap.SugaredLogger, dbConn *sql.DB, settings *util.Settings, deferred *repository.DeferredSubmissionRepository) {
	if dbConn == nil {
		deferred.Resolve(repository.NewMemorySubmissionRepository(log))
		return
	}

	err := readiness.Probe(ctx, log, "postgres", dbConn.PingContext, settings.DbProbeAttempts, settings.DbProbeInterval)
	if err != nil {
		log.Errorw("db unavailable, submissions will be kept in memory", "error", err)
		deferred.Resolve(repository.NewMemorySubmissionRepository(log))
		return
	}

	deferred.Resolve(repository.NewSubmissionRepository(dbConn))
}
