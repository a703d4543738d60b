package app

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"parcel/internal/handler"
	"parcel/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	UserHandler    *handler.UserHandler
	ParcelHandler  *handler.ParcelHandler
	PaymentHandler *handler.PaymentHandler
	RiderHandler   *handler.RiderHandler
	Logger         *zap.Logger
	NewRelicApp    *newrelic.Application
	AllowedOrigins []string
	StoreDriver    string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	if err := handler.RegisterValidations(); err != nil {
		return nil, err
	}

	router := gin.New()

	// Global middleware.
	router.Use(ginzap.Ginzap(deps.Logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(deps.Logger, true))
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.NewRelicErrors(deps.StoreDriver))
	}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Parcel delivery server is running")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := router.Group("/users")
	{
		users.POST("", deps.UserHandler.Create)
		users.GET("/search", deps.UserHandler.Search)
		users.GET("/:email/role", deps.UserHandler.GetRole)
		users.PATCH("/:id/role", deps.UserHandler.UpdateRole)
	}

	parcels := router.Group("/parcels")
	{
		parcels.GET("", deps.ParcelHandler.List)
		parcels.GET("/:id", deps.ParcelHandler.Get)
		parcels.POST("", deps.ParcelHandler.Create)
		parcels.DELETE("/:id", deps.ParcelHandler.Delete)
	}

	router.POST("/create-payment-intent", deps.PaymentHandler.CreateIntent)
	payments := router.Group("/payments")
	{
		payments.POST("", deps.PaymentHandler.Record)
		payments.GET("", deps.PaymentHandler.List)
	}

	riders := router.Group("/riders")
	{
		riders.POST("", deps.RiderHandler.Submit)
		riders.GET("", deps.RiderHandler.List)
		riders.GET("/pending", deps.RiderHandler.ListPending)
		riders.GET("/approved", deps.RiderHandler.ListApproved)
		riders.PATCH("/:id", deps.RiderHandler.SetStatus)
		riders.PATCH("/suspend/:id", deps.RiderHandler.Suspend)
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
