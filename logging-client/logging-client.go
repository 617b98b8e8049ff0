package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	unitedlogs "github.com/mrexodia/united-logs-go"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	args, err := ParseArgs(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging-client: %v\n", err)
		return 2
	}

	logger := zap.NewNop()
	if args.Verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "logging-client: %v\n", err)
			return 2
		}
	}
	defer logger.Sync()

	cfg, err := args.clientConfig(unitedlogs.LoadConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging-client: %v\n", err)
		return 2
	}

	client, err := unitedlogs.New(cfg, unitedlogs.WithLogger(unitedlogs.NewZapLogger(logger)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging-client: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result := client.Send(ctx, args.Level, args.Message, args.Category, args.Params)
	if !result.Success {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "%s %s: failed: %v\n", args.Level, client.Endpoint(), result.Err)
		} else {
			fmt.Fprintf(os.Stderr, "%s %s: not accepted\n", args.Level, client.Endpoint())
		}
		return 1
	}

	fmt.Printf("%s -> %s/%s [%s]\n", result.EventID, client.Endpoint(), args.Level, cfg.Environment)
	return 0
}
