package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/you/neuraread/internal/client"
	"github.com/you/neuraread/internal/client/cli"
	"github.com/you/neuraread/internal/client/store"
	"github.com/you/neuraread/internal/logging"
)

func main() {
	base := flag.String("api", envOr("NEURAREAD_API", "http://localhost:8000/api/v1"), "API base URL")
	level := flag.String("log-level", "warning", "log level")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := logging.New(os.Stderr, "neuraread-admin", *level)
	d := client.NewDispatcher(client.NewAPI(*base), store.New(), log)
	cli.NewApp(d, os.Stdin, os.Stdout).Run(ctx)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
