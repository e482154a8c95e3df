package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chartwell-health/chartwell/internal/config"
	v1 "github.com/chartwell-health/chartwell/internal/handler/v1"
	"github.com/chartwell-health/chartwell/internal/notifier"
	reportengine "github.com/chartwell-health/chartwell/internal/report"
	"github.com/chartwell-health/chartwell/internal/repository/postgres"
	"github.com/chartwell-health/chartwell/internal/service"
	"github.com/chartwell-health/chartwell/pkg/auth"
	"github.com/chartwell-health/chartwell/pkg/database"
	"github.com/chartwell-health/chartwell/pkg/logger"
	"github.com/chartwell-health/chartwell/pkg/metrics"
	"github.com/chartwell-health/chartwell/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var tracerShutdown func(context.Context) error
	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			return err
		}
		tracerShutdown = tp.Shutdown
		log.Info("tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	collector := metrics.NewCollector("chartwell")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	labRepo := postgres.NewLabRepository(db)
	imagingRepo := postgres.NewImagingRepository(db)
	schedulingRepo := postgres.NewSchedulingRepository(db)
	billingRepo := postgres.NewBillingRepository(db)
	careplanRepo := postgres.NewCarePlanRepository(db)
	coordinationRepo := postgres.NewCoordinationRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	contactRepo := postgres.NewContactRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, log, cfg.Audit.BufferSize, cfg.Audit.DrainTimeout)
	engine := reportengine.NewEngine(postgres.NewReportStore(db), log)

	svcs := v1.Services{
		Auth:         service.NewAuthService(userRepo, jwtManager, cfg.Auth, auditSvc, collector, log),
		Users:        service.NewUserService(userRepo, cfg.Auth, auditSvc, log),
		Patients:     service.NewPatientService(patientRepo, auditSvc, collector, log),
		Prescription: service.NewPrescriptionService(prescriptionRepo, auditSvc, collector, log),
		Lab:          service.NewLabService(labRepo, auditSvc, collector, log),
		Imaging:      service.NewImagingService(imagingRepo, auditSvc, log),
		Scheduling:   service.NewSchedulingService(schedulingRepo, auditSvc, collector, log),
		Billing:      service.NewBillingService(billingRepo, auditSvc, log),
		CarePlan:     service.NewCarePlanService(careplanRepo, auditSvc, log),
		Coordination: service.NewCoordinationService(coordinationRepo, auditSvc, collector, log),
		Reports:      service.NewReportService(reportRepo, engine, auditSvc, collector, log),
		Contact:      service.NewContactService(contactRepo, notifier.NewLogNotifier(log), log),
		Dashboard:    service.NewDashboardService(patientRepo, schedulingRepo, coordinationRepo, log),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	v1.NewRouter(svcs, jwtManager, collector, log).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	// Drain buffered audit entries before the process exits.
	auditSvc.Shutdown()

	if tracerShutdown != nil {
		if err := tracerShutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}

	log.Info("server stopped")
	return nil
}
