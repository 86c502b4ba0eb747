package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/linguo/internal/auth"
	"github.com/abhisek/linguo/internal/lessoncache"
	"github.com/abhisek/linguo/internal/lessons"
	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/maintenance"
	"github.com/abhisek/linguo/internal/observability"
	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/progress"
	"github.com/abhisek/linguo/internal/server"
	httpH "github.com/abhisek/linguo/internal/server/handlers"
	httpMW "github.com/abhisek/linguo/internal/server/middleware"
	"github.com/abhisek/linguo/internal/speech"
	"github.com/abhisek/linguo/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LINGUO_HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.HTTP.Addr = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownOTel := observability.InitOTel(ctx, log, cfg.Telemetry)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := llm.NewClientFromConfig(ctx, cfg.LLM, st.EventRepo(), log)
	if err != nil {
		return fmt.Errorf("llm client: %w", err)
	}

	var cacheOpts []lessoncache.Option
	if cfg.Redis.Addr != "" {
		rdb, err := lessoncache.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		cacheOpts = append(cacheOpts, lessoncache.WithLocker(lessoncache.NewRedisLocker(rdb, cfg.Redis.LockTTL)))
		log.Info("redis lesson lock enabled", "addr", cfg.Redis.Addr)
	}

	synth := lessons.NewSynthesizer(client, lessons.DefaultConfig(), log)
	cache := lessoncache.New(st, synth, log, cacheOpts...)
	progressSvc := progress.NewService(st, cache, log)

	sched := maintenance.New(st.EventRepo(), cfg.Maintenance, log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	srv := server.NewServer(cfg.HTTP.Addr, server.RouterConfig{
		Log:             log,
		ServiceName:     cfg.Telemetry.ServiceName,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)),
		LessonHandler:   httpH.NewLessonHandler(log, cache),
		ProgressHandler: httpH.NewProgressHandler(log, progressSvc),
		TutorHandler:    httpH.NewTutorHandler(log, tutor.New(client, log)),
		SpeechHandler:   httpH.NewSpeechHandler(log, speech.New(cfg.Speech, log)),
		HealthHandler:   httpH.NewHealthHandler(st),
	})
	return srv.Run(ctx)
}
