package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"caseflow/internal/api/handler"
	"caseflow/internal/config"
	"caseflow/internal/core/postgres/repository"
	"caseflow/internal/dispatcher"
	"caseflow/internal/domain"
	"caseflow/internal/engine"
	"caseflow/internal/infrastructure/llm"
	infraredis "caseflow/internal/infrastructure/redis"
	"caseflow/internal/logging"
	"caseflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config: ", err)
	}

	logger, err := logging.New(cfg.Development)
	if err != nil {
		log.Fatal("build logger: ", err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("connect to postgres", zap.Error(err))
	}
	if err := migrate(db); err != nil {
		logger.Fatal("migrate schema", zap.Error(err))
	}

	redisClient, err := infraredis.NewClient(cfg.RedisAddr)
	if err != nil {
		logger.Fatal("connect to redis", zap.Error(err))
	}

	templateRepo := repository.NewTemplateRepository(db)
	executionRepo := repository.NewExecutionRepository(db)
	stepRepo := repository.NewStepRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	artifactRepo := repository.NewArtifactRepository(db)
	caseRepo := repository.NewCaseRepository(db)

	runQueue := infraredis.NewRunQueue(redisClient)
	eventBus := infraredis.NewEventBus(redisClient)
	generator := llm.NewClient(cfg.LLMGatewayURL, cfg.LLMTimeout)

	orchestrator := engine.NewOrchestrator(
		executionRepo, stepRepo,
		analysisRepo, analysisRepo,
		generator, artifactRepo, caseRepo,
		eventBus, eventBus,
		logger,
	)

	scheduler := dispatcher.NewQueueScheduler(runQueue)
	worker := dispatcher.NewWorker(runQueue, orchestrator, cfg.DispatchDelay, logger)

	workflowSvc := service.NewWorkflowService(templateRepo, executionRepo, stepRepo, scheduler, logger)
	workflowHandler := handler.NewWorkflowHandler(workflowSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker.StartPool(ctx, cfg.WorkerConcurrency)

	router := gin.Default()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api := router.Group("/api/v1", handler.TenantMiddleware())
	workflowHandler.Register(api)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: router}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("serve http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.WorkflowTemplate{},
		&domain.StepDefinition{},
		&domain.WorkflowExecution{},
		&domain.StepExecution{},
		&domain.DocumentAnalysis{},
		&domain.ActionItem{},
		&domain.TimelineEvent{},
		&domain.DraftSession{},
		&domain.ResearchSession{},
		&domain.CaseAssignee{},
	)
}
