package http

import (
	"net/http"

	"assetsync/internal/core/application/tracking"
	"assetsync/internal/core/domain/model/change"
	"assetsync/internal/core/domain/model/kernel"
	"assetsync/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ReportLocation handles POST /api/v1/containers/{id}/location.
//
//	@Summary	Report a GPS sample for a container
//	@Tags		locations
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Container ID"
//	@Param		body	body		LocationReport	true	"Sample"
//	@Success	202		{object}	tracking.Result
//	@Failure	400		{object}	Error
//	@Failure	404		{object}	Error
//	@Router		/containers/{id}/location [post]
func (s *Server) ReportLocation(ctx echo.Context, id int64) error {
	var req LocationReport
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	result, err := s.tracker.ReportLocation(ctx.Request().Context(), kernel.ID(id), req.Lat, req.Lng, req.Timestamp)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusAccepted, result)
}

// BatchReportLocations handles POST /api/v1/locations/batch. Each report is
// applied independently; failures are listed by index.
func (s *Server) BatchReportLocations(ctx echo.Context) error {
	var req []LocationReport
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	reports := make([]tracking.Report, len(req))
	for i, r := range req {
		reports[i] = tracking.Report{
			ContainerID: kernel.ID(r.ContainerID),
			Lat:         r.Lat,
			Lng:         r.Lng,
			Timestamp:   r.Timestamp,
		}
	}

	result := s.tracker.BatchReport(ctx.Request().Context(), reports)

	response := BatchResponse{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Errors:    make([]BatchError, 0, len(result.Errors)),
	}
	for i := range reports {
		err, ok := result.Errors[i]
		if !ok {
			continue
		}
		_, body := errorBody(err)
		response.Errors = append(response.Errors, BatchError{
			Index:   i,
			Kind:    errs.Classify(err).String(),
			Message: body.Message,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetTrail handles GET /api/v1/containers/{id}/trail.
func (s *Server) GetTrail(ctx echo.Context, id int64) error {
	samples, err := s.tracker.Trail(kernel.ID(id))
	if err != nil {
		return err
	}

	response := make([]change.LocationSnapshot, len(samples))
	for i, sample := range samples {
		response[i] = change.SnapshotSample(sample)
	}
	return ctx.JSON(http.StatusOK, response)
}
