package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"labtrack/internal/mcp"
)

var serveTransport string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the administration tools over MCP",
	Long: `Expose the store operations as MCP tools, either over stdio (for a
local agent host) or over streamable HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		server := mcp.NewServer(mcp.Config{
			Persons:  a.persons,
			Projects: a.projects,
			Results:  a.results,
			Logger:   a.logger,
		})

		switch serveTransport {
		case "stdio":
			return runStdioMode(a.logger, server)
		case "http":
			return runHTTPMode(a.logger, server, a.cfg.Server.Host, a.cfg.Server.Port)
		default:
			return fmt.Errorf("unknown transport %q (want stdio or http)", serveTransport)
		}
	},
}

func runStdioMode(logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or the context is canceled.
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

func runHTTPMode(logger *slog.Logger, server *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	return httpServer.Shutdown(ctx)
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "transport mode: stdio or http")
}
