package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/touka-aoi/daytime-server/config"
	"github.com/touka-aoi/daytime-server/server"
	"github.com/touka-aoi/daytime-server/transport/daytime"
)

func main() {
	// Parse flags
	var (
		configFile = flag.String("config", "", "Path to an ini config file")
		host       = flag.String("host", "0.0.0.0", "Host to listen on")
		port       = flag.Int("port", 8080, "Port to listen on")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			slog.Error("Failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	// 明示されたフラグだけ設定ファイルより優先する
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Server.Host = *host
		case "port":
			cfg.Server.Port = *port
		case "debug":
			if *debug {
				cfg.Log.Level = "debug"
			}
		}
	})

	// Setup logging
	logLevel, err := cfg.Log.SlogLevel()
	if err != nil {
		slog.Error("Invalid log level", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	networkServer := server.NewNetworkServer(server.NetworkServerConfig{
		Protocol: "tcp",
		Address:  cfg.Server.Host,
		Port:     cfg.Server.Port,
		Backlog:  cfg.Server.Backlog,
		Interval: cfg.Server.Interval,
	}, daytime.NewDaytimeApp())

	if err := networkServer.Listen(ctx); err != nil {
		os.Exit(1)
	}

	slog.Info("Server is listening", "port", networkServer.Endpoint().Port())

	if err := networkServer.Serve(ctx); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
