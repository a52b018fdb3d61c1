package router

import (
	"net/http"

	"github.com/addressbook/backend/internal/infrastructure/config"
	"github.com/addressbook/backend/internal/infrastructure/logger"
	"github.com/addressbook/backend/internal/infrastructure/telemetry"
	"github.com/addressbook/backend/internal/interfaces/http/dto"
	"github.com/addressbook/backend/internal/interfaces/http/handler"
	"github.com/addressbook/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineConfig holds everything needed to build the HTTP engine
type EngineConfig struct {
	Logger        *zap.Logger
	HTTP          config.HTTPConfig
	Security      middleware.SecurityConfig
	Tracing       middleware.TracingConfig
	MeterProvider *telemetry.MeterProvider

	AddressBook *handler.AddressBookHandler
	System      *handler.SystemHandler
}

// NewEngine builds the gin engine with the middleware stack and all routes.
//
// Middleware order:
//  1. RequestID - generate or propagate the request ID
//  2. Tracing - server span, request attributes, error status
//  3. HTTPMetrics - request count, latency and sizes
//  4. Logger - request logging and request-scoped logger
//  5. Recovery - turn panics into the 500 envelope
//  6. Security headers, CORS and body size limit
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: cfg.MeterProvider,
		Logger:        log,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure(cfg.Security))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, http.StatusText(http.StatusNotFound)))
	})

	if cfg.System != nil {
		engine.GET("/health", cfg.System.Health)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	if cfg.AddressBook != nil {
		r.Register(AddressBookRoutes(cfg.AddressBook, cfg.HTTP.MaxBodySize))
	}
	if cfg.System != nil {
		r.Register(SystemRoutes(cfg.System))
	}
	r.Setup()

	return engine
}

// AddressBookRoutes returns the address book route group. Request bodies are
// capped at maxBodySize bytes; zero disables the cap.
func AddressBookRoutes(h *handler.AddressBookHandler, maxBodySize int64) *RouteGroup {
	books := NewRouteGroup("/address-book").Use(middleware.BodyLimit(maxBodySize))
	books.POST("", h.Create).
		POST("/", h.Create).
		GET("/customers", h.ListDistinctCustomers)

	book := books.Group("/:" + handler.ParamAddressBookID)
	book.GET("", h.Get).
		POST("/customer", h.AddCustomer).
		DELETE("/customer/:"+handler.ParamCustomerID, h.RemoveCustomer).
		GET("/customers", h.ListCustomers)

	return books
}

// SystemRoutes returns the system information route group
func SystemRoutes(h *handler.SystemHandler) *RouteGroup {
	system := NewRouteGroup("/system")
	system.GET("/info", h.GetSystemInfo)
	return system
}
