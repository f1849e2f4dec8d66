package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"assetsync/internal/core/domain/model/change"

	"github.com/labstack/echo/v4"
)

// StreamFeed handles GET /api/v1/feed as a Server-Sent Events stream.
//
// The first frame is a ": subscribed" comment written once the subscription is
// registered. Events are framed with the router sequence as id and the event
// kind as event name. A comment heartbeat keeps idle connections open.
//
//	@Summary	Subscribe to the change feed
//	@Tags		feed
//	@Produce	text/event-stream
//	@Param		scope	query	string	false	"all, order:{id} or container:{id}"
//	@Success	200
//	@Failure	400	{object}	Error
//	@Failure	404	{object}	Error
//	@Router		/feed [get]
func (s *Server) StreamFeed(ctx echo.Context, params StreamFeedParams) error {
	scope := change.All()
	if params.Scope != nil {
		parsed, err := change.ParseScope(*params.Scope)
		if err != nil {
			return err
		}
		scope = parsed
	}

	reqCtx := ctx.Request().Context()
	sub, err := s.feed.Subscribe(reqCtx, scope)
	if err != nil {
		return err
	}
	defer sub.Cancel()

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	if _, err = fmt.Fprintf(res, ": subscribed %s\n\n", scope); err != nil {
		return nil
	}
	res.Flush()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case <-ticker.C:
			if _, err = fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case e, ok := <-sub.Events():
			if !ok {
				return nil
			}
			data, marshalErr := json.Marshal(e)
			if marshalErr != nil {
				return marshalErr
			}
			if _, err = fmt.Fprintf(res, "id: %d\nevent: %s\ndata: %s\n\n", e.Sequence, e.Kind, data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
