package gateway

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	lserrors "github.com/DeBrosOfficial/logstream/pkg/errors"
	"github.com/DeBrosOfficial/logstream/pkg/logging"
	"github.com/DeBrosOfficial/logstream/pkg/metrics"
	"github.com/DeBrosOfficial/logstream/pkg/stream"
)

// websocketHandler runs a stream session over a WebSocket connection.
func (g *Gateway) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		g.logger.ComponentWarn(logging.ComponentGateway, "WebSocket upgrade failed", zap.Error(err))
		return
	}

	session := g.newSession()
	client := newWSClient(conn, session.ID(), g.clock, g.logger)
	defer g.metrics.SessionStarted(metrics.TransportWebSocket)()

	g.logger.ComponentInfo(logging.ComponentGateway, "WebSocket client connected",
		zap.String("session_id", session.ID()),
		zap.String("remote", r.RemoteAddr),
	)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		client.readLoop(cancel)
	}()

	emit := func(f stream.Frame) error {
		if err := client.send(f); err != nil {
			return err
		}
		g.metrics.FrameSent(metrics.TransportWebSocket, f.Kind.String())
		return nil
	}

	runErr := session.Run(ctx, emit)

	code, text := websocket.CloseNormalClosure, ""
	if runErr != nil {
		g.metrics.StreamError(lserrors.GetErrorCode(runErr))
		code, text = websocket.CloseInternalServerErr, closeText(runErr)
	} else if r.Context().Err() != nil {
		code, text = websocket.CloseGoingAway, "server shutting down"
	}
	_ = client.close(code, text)
	<-readerDone
}

// closeText is the close-frame reason sent after a failed session.
func closeText(err error) string {
	switch {
	case lserrors.IsOpen(err):
		return "log file unavailable"
	case lserrors.IsRead(err):
		return "log read error"
	default:
		return "stream error"
	}
}
