package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"honeybee/attendance-engine/cmd/daily"
	"honeybee/attendance-engine/cmd/monthly"
	"honeybee/attendance-engine/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(daily.Cmd)
	root.Cmd.AddCommand(monthly.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
