package main

import (
	"flag"
	"fmt"
	"os"

	"FxScore/internal/di"
	"FxScore/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	check := flag.Bool("check", false, "load and validate the config, print what is enabled, then exit")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fxscore: %v\n", err)
		os.Exit(2)
	}
	if *check {
		fmt.Printf("config ok: env=%s cache=%s queue=%t kafka=%t clickhouse=%t websocket=%t rate_limit=%t\n",
			cfg.Environment, cfg.Cache.Backend, cfg.Queue.Enabled, cfg.Kafka.Enabled,
			cfg.ClickHouse.Enabled, cfg.WebSocket.Enabled, cfg.RateLimit.Enabled)
		return
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fxscore: wire app: %v\n", err)
		os.Exit(1)
	}

	// blocks until SIGINT or SIGTERM
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fxscore: %v\n", err)
		os.Exit(1)
	}
}
