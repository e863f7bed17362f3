package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/olehkaliuzhnyi/xch-keygen/internal/config"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/engine"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/entropy"
	"github.com/olehkaliuzhnyi/xch-keygen/internal/input"
)

var version = "dev"

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "xchkeys"
	app.Usage = "Generate a Chia wallet and derive its receive addresses"
	app.Flags = flags
	app.Action = generateAction

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func generateAction(ctx *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if err := applyFlags(ctx, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	rng, err := entropy.FromOS()
	if err != nil {
		return err
	}

	var phrases input.Source = input.None{}
	if !cfg.ObserverMode() {
		phrases = input.Choose(cfg.PhraseFile, cfg.Prompt, os.Stdin)
	}

	report, err := engine.New(cfg, rng, phrases, engine.NewDispatcher(cfg)).Run(ctx.Context)
	if err != nil {
		return err
	}

	noColor := ctx.Bool(noColorFlag.Name) || color.NoColor
	return engine.NewPrinter(noColor).Print(os.Stdout, report)
}

func fatal(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "[xchkeys] %v\n", err)
	os.Exit(1)
}
