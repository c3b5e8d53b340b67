// Package server exposes the collection engine over HTTP: cron and
// admin triggers, the delinquency report and the invoice endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vallegroup/valle360/internal/collection"
	collectiondomain "github.com/vallegroup/valle360/internal/collection/domain"
	"github.com/vallegroup/valle360/internal/config"
	"github.com/vallegroup/valle360/internal/dispatch"
	"github.com/vallegroup/valle360/internal/invoice"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
	"github.com/vallegroup/valle360/internal/legal"
	"github.com/vallegroup/valle360/internal/notification"
	"github.com/vallegroup/valle360/internal/scheduler"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	invoice.Module,
	collection.Module,
	dispatch.Module,
	legal.Module,
	notification.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	db            *gorm.DB
	invoiceSvc    invoicedomain.Service
	collectionSvc collectiondomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	DB            *gorm.DB
	InvoiceSvc    invoicedomain.Service
	CollectionSvc collectiondomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log,
		db:            p.DB,
		invoiceSvc:    p.InvoiceSvc,
		collectionSvc: p.CollectionSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	cron := s.engine.Group("/internal/cron", s.CronAuthRequired())
	cron.POST("/collection", s.RunCollection)

	api := s.engine.Group("/api")

	admin := api.Group("/admin")
	admin.POST("/collection/run", s.RunCollectionManual)
	admin.GET("/collection/report", s.GetDelinquencyReport)

	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.POST("/invoices/:id/pay", s.MarkInvoicePaid)
}
