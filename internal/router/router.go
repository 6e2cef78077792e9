package router

import (
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/config"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/handler"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/infra"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/middleware"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/model"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/repository"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/service"
	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// New wires repositories, services and handlers into a configured Gin engine.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, cb *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registerRepo := repository.NewRegisterRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	closingRepo := repository.NewClosingRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)
	productRepo := repository.NewProductRepository(db)

	cacheTTL := time.Duration(cfg.SummaryCacheTTLSeconds) * time.Second
	registerSvc := service.NewRegisterService(registerRepo, saleRepo, closingRepo, dispatcher, rdb, cacheTTL)
	closingSvc := service.NewClosingService(closingRepo, operatorRepo)
	saleSvc := service.NewSaleService(saleRepo, registerRepo, productRepo)
	authSvc := service.NewAuthService(operatorRepo, cfg)

	registers := handler.NewRegisterHandler(registerSvc)
	closings := handler.NewClosingHandler(closingSvc)
	sales := handler.NewSaleHandler(saleSvc)
	auth := handler.NewAuthHandler(authSvc)
	health := handler.NewHealthHandler(db, rdb, cb)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.ErrorHandler(),
		middleware.RateLimiter(1000, time.Minute),
	)

	r.GET("/health", health.Health)

	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", middleware.LoginRateLimiter(), auth.Login)
			authGroup.POST("/refresh", auth.Refresh)
		}

		secured := v1.Group("")
		secured.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			reg := secured.Group("/registers")
			{
				reg.POST("", registers.Open)
				reg.GET("/open", registers.ListOpen)
				reg.GET("/open/:name", registers.FindOpen)
				reg.POST("/:id/close", registers.Close)
				reg.GET("/:id/summary", registers.Summary)
			}

			cls := secured.Group("/closings")
			{
				cls.GET("", closings.List)
				cls.PATCH("/:id/notes", middleware.RequireRole(model.RoleManager, model.RoleOwner), closings.UpdateNotes)
				cls.DELETE("/:id", middleware.RequireRole(model.RoleOwner), closings.Delete)
			}

			sl := secured.Group("/sales")
			{
				sl.POST("", sales.Record)
				sl.GET("", sales.List)
				sl.DELETE("/:id", middleware.RequireRole(model.RoleManager, model.RoleOwner), sales.Void)
			}

			ops := secured.Group("/operators")
			ops.Use(middleware.RequireRole(model.RoleOwner))
			{
				ops.POST("", auth.CreateOperator)
				ops.GET("", auth.ListOperators)
			}
		}
	}

	return r
}
