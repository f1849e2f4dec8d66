package http

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"assetsync/internal/core/application/changefeed"
	"assetsync/internal/core/application/tracking"
	"assetsync/internal/core/application/usecases/queries"
	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/core/domain/model/location"
	"assetsync/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const DefaultFeedHeartbeat = 15 * time.Second

// AssignmentEngine is the write side for orders.
type AssignmentEngine interface {
	TakeOrder(ctx context.Context, orderID, operatorID, vehicleID kernel.ID) (*order.Order, error)
	CompleteOrder(ctx context.Context, orderID kernel.ID) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID kernel.ID) (*order.Order, error)
	AdvanceStatus(ctx context.Context, orderID kernel.ID, status order.Status) (*order.Order, error)
}

// LocationTracker accepts GPS samples.
type LocationTracker interface {
	ReportLocation(ctx context.Context, containerID kernel.ID, lat, lng float64, at time.Time) (tracking.Result, error)
	BatchReport(ctx context.Context, reports []tracking.Report) tracking.BatchResult
	Trail(containerID kernel.ID) ([]location.Sample, error)
}

// ChangeFeed opens scoped subscriptions.
type ChangeFeed interface {
	Subscribe(ctx context.Context, scope change.Scope) (*changefeed.Subscription, error)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	engine  AssignmentEngine
	tracker LocationTracker
	feed    ChangeFeed

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
	getContainersHandler   queries.GetContainersQueryHandler

	heartbeat time.Duration

	checksMu sync.RWMutex
	checks   map[string]HealthCheck
}

// NewServer creates a new HTTP server with the required use cases and query handlers.
func NewServer(
	engine AssignmentEngine,
	tracker LocationTracker,
	feed ChangeFeed,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getContainersHandler queries.GetContainersQueryHandler,
	heartbeat time.Duration,
) *Server {
	if heartbeat <= 0 {
		heartbeat = DefaultFeedHeartbeat
	}
	return &Server{
		engine:                 engine,
		tracker:                tracker,
		feed:                   feed,
		getOrderHandler:        getOrderHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
		getContainersHandler:   getContainersHandler,
		heartbeat:              heartbeat,
		checks:                 make(map[string]HealthCheck),
	}
}

// AddHealthCheck registers a dependency probe reported by GET /health.
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checksMu.Lock()
	defer s.checksMu.Unlock()
	s.checks[name] = check
}

// TakeOrder handles POST /api/v1/orders/{id}/take.
//
//	@Summary	Take a pending order
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"Order ID"
//	@Param		body	body		TakeOrderRequest	true	"Operator and vehicle"
//	@Success	200		{object}	change.OrderSnapshot
//	@Failure	409		{object}	Error
//	@Router		/orders/{id}/take [post]
func (s *Server) TakeOrder(ctx echo.Context, id int64) error {
	var req TakeOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	o, err := s.engine.TakeOrder(ctx.Request().Context(), kernel.ID(id), kernel.ID(req.OperatorID), kernel.ID(req.VehicleID))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, change.SnapshotOrder(o))
}

// CompleteOrder handles POST /api/v1/orders/{id}/complete.
func (s *Server) CompleteOrder(ctx echo.Context, id int64) error {
	o, err := s.engine.CompleteOrder(ctx.Request().Context(), kernel.ID(id))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, change.SnapshotOrder(o))
}

// CancelOrder handles POST /api/v1/orders/{id}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, id int64) error {
	o, err := s.engine.CancelOrder(ctx.Request().Context(), kernel.ID(id))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, change.SnapshotOrder(o))
}

// AdvanceOrderStatus handles POST /api/v1/orders/{id}/status.
func (s *Server) AdvanceOrderStatus(ctx echo.Context, id int64) error {
	var req AdvanceStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	o, err := s.engine.AdvanceStatus(ctx.Request().Context(), kernel.ID(id), status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, change.SnapshotOrder(o))
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id int64) error {
	query, err := queries.NewGetOrderQuery(kernel.ID(id))
	if err != nil {
		return err
	}

	snapshot, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

// GetActiveOrders handles GET /api/v1/orders/active. Clients use it to
// re-fetch state after reconnecting to the feed.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, orders)
}

// GetContainers handles GET /api/v1/containers.
func (s *Server) GetContainers(ctx echo.Context) error {
	containers, err := s.getContainersHandler.Handle(ctx.Request().Context(), queries.NewGetContainersQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, containers)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	s.checksMu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make(map[string]HealthCheck, len(s.checks))
	for name, check := range s.checks {
		checks[name] = check
	}
	s.checksMu.RUnlock()

	probeCtx, cancel := context.WithTimeout(ctx.Request().Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "Healthy"}
	code := http.StatusOK
	for _, name := range names {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(names))
		}
		if err := checks[name](probeCtx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "Unhealthy"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	return ctx.JSON(code, resp)
}
