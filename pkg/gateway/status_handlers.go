package gateway

import (
	_ "embed"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	lserrors "github.com/DeBrosOfficial/logstream/pkg/errors"
	"github.com/DeBrosOfficial/logstream/pkg/httputil"
	"github.com/DeBrosOfficial/logstream/pkg/logging"
)

//go:embed static/index.html
var indexHTML []byte

// healthResponse is the JSON structure used by healthHandler
type healthResponse struct {
	Status        string  `json:"status"`
	LogFileExists bool    `json:"log_file_exists"`
	LogFilePath   string  `json:"log_file_path"`
	Timestamp     float64 `json:"timestamp"` // seconds since epoch
}

type unhealthyResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (g *Gateway) indexHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteHTML(w, http.StatusOK, indexHTML)
}

// healthHandler reports whether the log file exists. It answers 500 only when
// the check itself fails.
func (g *Gateway) healthHandler(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			g.unhealthy(w, lserrors.NewInternalError("health check panicked", fmt.Errorf("%v", rec)).
				WithOperation("health"))
		}
	}()

	exists, err := g.checkExists()
	if err != nil {
		g.unhealthy(w, err)
		return
	}

	now := g.clock.Now()
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		LogFileExists: exists,
		LogFilePath:   g.source.Path(),
		Timestamp:     float64(now.UnixNano()) / 1e9,
	})
}

func (g *Gateway) checkExists() (bool, error) {
	if g.existsFunc != nil {
		return g.existsFunc()
	}
	return g.source.Exists()
}

func (g *Gateway) unhealthy(w http.ResponseWriter, err error) {
	g.logger.ComponentError(logging.ComponentGateway, "Health check failed", zap.Error(err))
	httputil.WriteJSON(w, http.StatusInternalServerError, unhealthyResponse{
		Status: "unhealthy",
		Error:  err.Error(),
	})
}
