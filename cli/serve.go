// CLAUDE:SUMMARY Serve commands — HTTP JSON API server and MCP server over stdio.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/web"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		srv := &http.Server{
			Addr:              flagServeAddr,
			Handler:           web.New(eng, slog.Default()).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("http server starting", "addr", flagServeAddr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-cmd.Context().Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "fileparser",
			Version: "1.0.0",
		}, nil)
		eng.RegisterMCP(srv)

		slog.Info("mcp server starting", "transport", "stdio")
		return srv.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, mcpCmd)
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", ":8080", "Listen address")
}
