package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/foomo/seolint"
	"github.com/foomo/seolint/config"
	"github.com/foomo/seolint/example"
	"github.com/foomo/seolint/htmlschema"
	"github.com/foomo/seolint/logging"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	var addr, schedule string
	var withExample bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Lint the configured targets on a schedule and serve the reports",
		Long: `Lint the configured service targets on a schedule.

The server exposes
  /lint      lint a document, GET ?url= or POST the html
  /reports   reports of the latest results
  /metrics   prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, rules, errConf := loadConfig(cmd, config.DefaultRulesKey)
			if errConf != nil {
				return errConf
			}
			if cmd.Flags().Changed("addr") {
				conf.Service.Addr = addr
			}
			if cmd.Flags().Changed("schedule") {
				conf.Service.Schedule = schedule
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if withExample {
				exampleURL, errExample := serveExample(ctx)
				if errExample != nil {
					return errExample
				}
				conf.Service.Targets = append(conf.Service.Targets,
					exampleURL+"/",
					exampleURL+"/broken.html",
					exampleURL+"/private/index.html",
				)
			}
			return serve(ctx, conf, rules)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "address to listen on")
	cmd.Flags().StringVar(&schedule, "schedule", config.DefaultSchedule, "cron schedule of lint runs")
	cmd.Flags().BoolVar(&withExample, "example", false, "serve the example pages and lint them")
	return cmd
}

func serve(ctx context.Context, conf *config.Config, rules htmlschema.Config) error {
	logger := logging.Default()
	linter, errLinter := newLinter(conf, rules, os.Stdout, seolint.WithMetrics(seolint.NewMetrics()))
	if errLinter != nil {
		return errLinter
	}
	s, errService := seolint.NewService(linter, conf.Service.Targets, conf.Service.Schedule)
	if errService != nil {
		return errService
	}
	defer s.Stop()

	server := &http.Server{
		Addr:              conf.Service.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	chanErr := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.FieldAddr, conf.Service.Addr)
		chanErr <- server.ListenAndServe()
	}()
	if errStart := s.Start(ctx); errStart != nil {
		return errStart
	}
	select {
	case errServe := <-chanErr:
		return fmt.Errorf("server failed: %w", errServe)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	errShutdown := server.Shutdown(shutdownCtx)
	if errShutdown != nil && !errors.Is(errShutdown, http.ErrServerClosed) {
		return errShutdown
	}
	return nil
}

// serveExample serves the example pages on a random local port until ctx
// is done
func serveExample(ctx context.Context) (string, error) {
	listener, errListen := net.Listen("tcp", "127.0.0.1:0")
	if errListen != nil {
		return "", fmt.Errorf("failed to listen for the example server: %w", errListen)
	}
	server := &http.Server{
		Handler:           example.NewServer(example.Root()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		errServe := server.Serve(listener)
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			logging.Default().Error("example server failed", logging.FieldError, errServe)
		}
	}()
	go func() {
		<-ctx.Done()
		server.Close()
	}()
	exampleURL := "http://" + listener.Addr().String()
	logging.Default().Info("serving example pages", logging.FieldURL, exampleURL)
	return exampleURL, nil
}
