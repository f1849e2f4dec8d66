package http

import (
	"fmt"
	"net/http"

	_ "assetsync/internal/adapters/in/http/docs"
	"assetsync/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /orders/active)
	GetActiveOrders(ctx echo.Context) error
	// (GET /orders/{id})
	GetOrder(ctx echo.Context, id int64) error
	// (POST /orders/{id}/take)
	TakeOrder(ctx echo.Context, id int64) error
	// (POST /orders/{id}/complete)
	CompleteOrder(ctx echo.Context, id int64) error
	// (POST /orders/{id}/cancel)
	CancelOrder(ctx echo.Context, id int64) error
	// (POST /orders/{id}/status)
	AdvanceOrderStatus(ctx echo.Context, id int64) error
	// (GET /containers)
	GetContainers(ctx echo.Context) error
	// (POST /containers/{id}/location)
	ReportLocation(ctx echo.Context, id int64) error
	// (GET /containers/{id}/trail)
	GetTrail(ctx echo.Context, id int64) error
	// (POST /locations/batch)
	BatchReportLocations(ctx echo.Context) error
	// (GET /feed)
	StreamFeed(ctx echo.Context, params StreamFeedParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindID(ctx echo.Context) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

func (w *ServerInterfaceWrapper) GetActiveOrders(ctx echo.Context) error {
	return w.Handler.GetActiveOrders(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) TakeOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.TakeOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) CompleteOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CompleteOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.CancelOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) AdvanceOrderStatus(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.AdvanceOrderStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) GetContainers(ctx echo.Context) error {
	return w.Handler.GetContainers(ctx)
}

func (w *ServerInterfaceWrapper) ReportLocation(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ReportLocation(ctx, id)
}

func (w *ServerInterfaceWrapper) GetTrail(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetTrail(ctx, id)
}

func (w *ServerInterfaceWrapper) BatchReportLocations(ctx echo.Context) error {
	return w.Handler.BatchReportLocations(ctx)
}

func (w *ServerInterfaceWrapper) StreamFeed(ctx echo.Context) error {
	var params StreamFeedParams
	err := runtime.BindQueryParameter("form", true, false, "scope", ctx.QueryParams(), &params.Scope)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter scope: %s", err))
	}
	return w.Handler.StreamFeed(ctx, params)
}

// RegisterHandlersWithBaseURL adds each server route to the router under baseURL.
func RegisterHandlersWithBaseURL(router *echo.Echo, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/orders/active", wrapper.GetActiveOrders)
	router.GET(baseURL+"/orders/:id", wrapper.GetOrder)
	router.POST(baseURL+"/orders/:id/take", wrapper.TakeOrder)
	router.POST(baseURL+"/orders/:id/complete", wrapper.CompleteOrder)
	router.POST(baseURL+"/orders/:id/cancel", wrapper.CancelOrder)
	router.POST(baseURL+"/orders/:id/status", wrapper.AdvanceOrderStatus)
	router.GET(baseURL+"/containers", wrapper.GetContainers)
	router.POST(baseURL+"/containers/:id/location", wrapper.ReportLocation)
	router.GET(baseURL+"/containers/:id/trail", wrapper.GetTrail)
	router.POST(baseURL+"/locations/batch", wrapper.BatchReportLocations)
	router.GET(baseURL+"/feed", wrapper.StreamFeed)
}

// NewEcho builds the echo instance serving the API, health, metrics and docs.
func NewEcho(server *Server, gatherer prometheus.Gatherer, logger *zap.Logger) *echo.Echo {
	logger = logger.With(zap.String("component", "http"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		TargetHeader: RequestIDHeader,
		Generator:    func() string { return kernel.NewUUID().String() },
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Debug("request", fields...)
			return nil
		},
	}))

	e.GET("/health", server.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	RegisterHandlersWithBaseURL(e, server, "/api/v1")
	return e
}
