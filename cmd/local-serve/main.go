// Command local-serve serves a local directory tree over HTTP for browsing
// and download.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kainlite/local-serve/internal/config"
	"github.com/kainlite/local-serve/internal/resolve"
	"github.com/kainlite/local-serve/internal/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serveCommand struct {
	configFile string
	dir        string
	host       string
	port       int
}

func newRootCommand() *cobra.Command {
	return (&serveCommand{}).command()
}

func (c *serveCommand) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "local-serve",
		Short:         "Serve a directory over HTTP",
		Long:          "local-serve exposes a directory tree for browsing and download. Directories are shown as HTML listings and files are sent as attachments.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&c.configFile, "config", "c", "", "Config file (.toml, .yaml or .yml)")
	flags.StringVarP(&c.dir, "dir", "d", config.DefaultDir, "Directory to serve files from")
	flags.StringVar(&c.host, "host", config.DefaultHost, "Address to bind to")
	flags.IntVarP(&c.port, "port", "p", config.DefaultPort, "Port to listen on")
	return cmd
}

// load builds the effective configuration: defaults, then the config file,
// then the environment, then any flags set explicitly.
func (c *serveCommand) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if c.configFile != "" {
		if err := cfg.LoadFile(c.configFile); err != nil {
			return cfg, err
		}
	}
	if err := config.LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.FromEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = c.dir
	}
	if flags.Changed("host") {
		cfg.Host = c.host
	}
	if flags.Changed("port") {
		cfg.Port = c.port
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *serveCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := c.load(cmd)
	if err != nil {
		return err
	}

	handler := server.AccessLog(nil, server.New(resolve.NewRoot(cfg.Dir)))
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	green := color.New(color.FgGreen, color.Bold)
	green.Printf("🚀 File server starting on http://%s\n", cfg.Addr())
	fmt.Printf("📂 Serving files from: %s\n", cfg.Dir)
	fmt.Println("Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
