package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	lserrors "github.com/DeBrosOfficial/logstream/pkg/errors"
	"github.com/DeBrosOfficial/logstream/pkg/logging"
	"github.com/DeBrosOfficial/logstream/pkg/metrics"
	"github.com/DeBrosOfficial/logstream/pkg/stream"
)

// streamHandler serves the log as Server-Sent Events. The session lives as
// long as the request context: client disconnect or server shutdown ends it.
func (g *Gateway) streamHandler(w http.ResponseWriter, r *http.Request) {
	if !canFlush(w) {
		lserrors.WriteHTTPError(w, lserrors.ErrStreamingUnsupported, middleware.GetReqID(r.Context()))
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Accel-Buffering", "no")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		g.logger.ComponentWarn(logging.ComponentGateway, "Failed to flush stream headers", zap.Error(err))
		return
	}

	session := g.newSession()
	defer g.metrics.SessionStarted(metrics.TransportSSE)()

	g.logger.ComponentInfo(logging.ComponentGateway, "Stream client connected",
		zap.String("session_id", session.ID()),
		zap.String("remote", r.RemoteAddr),
	)

	var buf []byte
	emit := func(f stream.Frame) error {
		buf = f.AppendSSE(buf[:0])
		if _, err := w.Write(buf); err != nil {
			return err
		}
		if err := rc.Flush(); err != nil {
			return err
		}
		g.metrics.FrameSent(metrics.TransportSSE, f.Kind.String())
		return nil
	}

	if err := session.Run(r.Context(), emit); err != nil {
		g.metrics.StreamError(lserrors.GetErrorCode(err))
	}
}
