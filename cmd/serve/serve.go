// Package serve runs the HTTP extraction API
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/trs-records/cmd/root"
	"fjacquet/trs-records/internal/api"
	"fjacquet/trs-records/internal/container"

	"github.com/spf13/cobra"
)

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction API over HTTP",
	Long: `Serve the extraction API over HTTP.

Routes:
  GET  /api/health   liveness probe
  POST /api/extract  multipart form with a "file" upload or a "text" field

Example:
  trs-records serve --addr :8080`,
	Run: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")
}

func serveFunc(cmd *cobra.Command, args []string) {
	appContainer := root.GetContainer()
	if appContainer == nil {
		root.Log.Fatal("Container not initialized")
		return
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, appContainer, addr); err != nil {
		root.Log.WithError(err).Fatal("HTTP server failed")
	}
}

// Run serves the API on listenAddr, or server.addr when empty, until ctx is done.
func Run(ctx context.Context, c *container.Container, listenAddr string) error {
	if listenAddr == "" {
		listenAddr = c.GetConfig().Server.Addr
	}
	return api.Serve(ctx, c.NewAPIApp(), listenAddr, c.GetLogger())
}
