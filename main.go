// Command toolcheck runs the toolkit verification service: template and
// toolkit management plus photo-based check-in over a REST API.
package main

import (
	"flag"
	"fmt"
	"os"

	"toolcheck/internal/analyze"
	"toolcheck/internal/annotate"
	"toolcheck/internal/config"
	"toolcheck/internal/handlers"
	"toolcheck/internal/logger"
	"toolcheck/internal/marker"
	"toolcheck/internal/server"
	"toolcheck/internal/store"
	"toolcheck/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	listenAddr := flag.String("listen", "", "override the configured listen address")
	flag.Parse()

	if err := run(*configPath, *listenAddr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, listenAddr string) error {
	settings := config.DefaultSettings()
	if configPath != "" {
		var err error
		if settings, err = config.LoadSettings(configPath); err != nil {
			return err
		}
	}
	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}
	if err := settings.EnsureDirs(); err != nil {
		return err
	}

	log, err := logger.New(settings.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	log.Info("starting toolcheck", "version", version.Version, "commit", version.GitCommit)

	st, err := store.Open(settings.DatabasePath(), log)
	if err != nil {
		return err
	}
	defer st.Close()
	media := store.NewMedia(settings.MediaDir)

	renderer, err := annotate.NewRenderer(settings.FontPath)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	pipeline := analyze.NewPipeline(marker.NewDetector(), renderer, config.DefaultDetectionParams(), log)
	defer pipeline.Close()

	router := server.NewRouter(server.RouterConfig{
		TemplateHandler:  handlers.NewTemplateHandler(log, st, media, pipeline),
		ToolkitHandler:   handlers.NewToolkitHandler(log, st, media, pipeline),
		DashboardHandler: handlers.NewDashboardHandler(log, st),
	})

	return server.Serve(router, settings.ListenAddr, log)
}
