package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/trialapi/config"
	"github.com/padraicbc/trialapi/db"
	"github.com/padraicbc/trialapi/handlers"
	"github.com/padraicbc/trialapi/importer"
	"github.com/padraicbc/trialapi/judges"
	applog "github.com/padraicbc/trialapi/logger"
	"github.com/padraicbc/trialapi/metrics"
	mw "github.com/padraicbc/trialapi/middleware"
	"github.com/padraicbc/trialapi/registry"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug, "trialapi")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("timezone", zap.Error(err))
	}
	roster, err := judges.Load(cfg.JudgeRosterFile)
	if err != nil {
		logger.Fatal("load judge roster", zap.Error(err))
	}
	logger.Info("judge roster loaded", zap.Int("judges", roster.Len()), zap.String("file", cfg.JudgeRosterFile))

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	users := db.NewUsers(bdb)
	im := importer.New(
		db.NewTrialStore(bdb),
		registry.New(bdb, cfg.RegistryCacheTTL),
		roster,
		importer.WithLogger(logger.Named("importer")),
		importer.WithMetrics(metrics.New(prometheus.DefaultRegisterer)),
		importer.WithLocation(loc),
	)
	h := handlers.New(users, im, cfg.JWTKey(), cfg.UploadLimit(), logger)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.ErrorHandler(logger)
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(fmt.Sprintf("%dM", cfg.UploadLimit()>>20+1)))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.POST("/api/signin", h.Signin)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Protected – bearer JWT plus administrator role
	admin := e.Group("/api/admin", mw.JWT(cfg.JWTKey()), mw.RequireAdmin(users, cfg.IsAdmin))
	admin.POST("/trials/preview", h.Preview)
	admin.POST("/trials/import", h.Import)
	admin.POST("/password-hash", h.PasswordHash)

	if cfg.Debug || len(cfg.TLSDomains) == 0 {
		logger.Info("starting server", zap.Bool("debug", cfg.Debug), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != http.ErrServerClosed {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	logger.Info("starting tls server", zap.Strings("domains", cfg.TLSDomains))
	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
