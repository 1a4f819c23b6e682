package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/silkysystems/credit-engine/internal/billing"
	"github.com/silkysystems/credit-engine/internal/config"
	"github.com/silkysystems/credit-engine/internal/customer"
	customerdomain "github.com/silkysystems/credit-engine/internal/customer/domain"
	"github.com/silkysystems/credit-engine/internal/dashboard"
	dashboarddomain "github.com/silkysystems/credit-engine/internal/dashboard/domain"
	"github.com/silkysystems/credit-engine/internal/features"
	"github.com/silkysystems/credit-engine/internal/llm"
	"github.com/silkysystems/credit-engine/internal/observability"
	"github.com/silkysystems/credit-engine/internal/snapshot"
	"github.com/silkysystems/credit-engine/internal/usage"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	observability.Module,
	fx.Provide(NewEngine),
	customer.Module,
	usage.Module,
	billing.Module,
	snapshot.Module,
	features.Module,
	llm.Module,
	dashboard.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	customerSvc  customerdomain.Service
	dashboardSvc dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	CustomerSvc  customerdomain.Service
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		customerSvc:  p.CustomerSvc,
		dashboardSvc: p.DashboardSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	api.GET("/customers", s.ListCustomers)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.GET("/credit-dashboard/:customer_id", s.GetCreditDashboard)
}
