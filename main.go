package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cancerrisk/config"
	"cancerrisk/db"
	qhttp "cancerrisk/http"
	"cancerrisk/logging"
	"cancerrisk/ml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cancerrisk",
	Short: "Cancer risk prediction web service",
	Long: `Serves a patient attribute form, derives BMI and age buckets, and
runs the trained classifier to render a diagnosis label.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the artifacts and start the HTTP server",
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and artifacts, then exit",
	RunE:  runCheck,
}

func init() {
	defaultPath := os.Getenv(config.EnvPrefix + "CONFIG")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to config.yaml")
	rootCmd.AddCommand(serveCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log, cfg.Server.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// 2. Load artifacts; any failure is fatal
	artifacts, err := ml.LoadArtifacts(cfg.ArtifactPaths())
	if err != nil {
		logger.Fatal("Failed to load artifacts", zap.Error(err))
	}
	if missing := artifacts.UnknownBuckets(); len(missing) > 0 {
		logger.Warn("Encoders do not cover every bucket; unseen buckets encode as the first class",
			zap.Strings("buckets", missing))
	}
	predictor, err := ml.NewPredictor(artifacts)
	if err != nil {
		logger.Fatal("Invalid artifacts", zap.Error(err))
	}
	logger.Info("Artifacts loaded",
		zap.String("model_type", artifacts.ModelType),
		zap.String("model_path", cfg.Model.ModelPath))

	// 3. Optional audit log
	var audit qhttp.AuditStore
	if cfg.Audit.Enabled {
		store, err := db.Open(cfg.Audit.Path)
		if err != nil {
			logger.Fatal("Failed to open audit database", zap.Error(err))
		}
		defer store.Close()
		audit = store
		logger.Info("Audit log enabled", zap.String("path", cfg.Audit.Path))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	templates, err := qhttp.NewTemplates(cfg.Server.TemplatesDir, logger)
	if err != nil {
		logger.Fatal("Failed to load templates", zap.Error(err))
	}
	if cfg.Server.Debug {
		if err := templates.Watch(ctx); err != nil {
			logger.Warn("Template reload disabled", zap.Error(err))
		}
	}
	defer templates.Close()

	// 4. Start HTTP server
	handlers := qhttp.NewHandlers(predictor, cfg.Features, templates, audit, logger)
	server := qhttp.NewServer(serverConfig(cfg), handlers, logger)
	logger.Info("Prediction form available", zap.String("url", "http://"+server.Addr()+"/"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 5. Graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down...")
		if err := server.Stop(); err != nil {
			logger.Error("Server forced to shutdown", zap.Error(err))
		}
	}

	logger.Info("Exiting")
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	artifacts, err := ml.LoadArtifacts(cfg.ArtifactPaths())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model:       %s (%s)\n", cfg.Model.ModelPath, artifacts.ModelType)
	fmt.Fprintf(out, "features:    %s\n", strings.Join(cfg.Features.Ordered(), ", "))
	fmt.Fprintf(out, "bmi classes: %s\n", strings.Join(artifacts.BMIEncoder.Classes, ", "))
	fmt.Fprintf(out, "age classes: %s\n", strings.Join(artifacts.AgeEncoder.Classes, ", "))
	if missing := artifacts.UnknownBuckets(); len(missing) > 0 {
		fmt.Fprintf(out, "warning:     encoders missing %s\n", strings.Join(missing, ", "))
	}
	fmt.Fprintf(out, "listen:      %s\n", cfg.Addr())
	return nil
}

// serverConfig overlays the loaded settings on the server defaults.
func serverConfig(cfg *config.Config) qhttp.ServerConfig {
	sc := qhttp.DefaultServerConfig()
	if cfg.Server.Host != "" {
		sc.Host = cfg.Server.Host
	}
	if cfg.Server.Port != 0 {
		sc.Port = cfg.Server.Port
	}
	if cfg.Server.Timeout != 0 {
		sc.Timeout = cfg.Server.Timeout
	}
	if cfg.Server.MaxBodyBytes != 0 {
		sc.MaxBodyBytes = cfg.Server.MaxBodyBytes
	}
	return sc
}
