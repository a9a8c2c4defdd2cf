package main

import (
	"context"
	"errors"
	"github.com/Geniuskaa/race_results/internal/config"
	"github.com/Geniuskaa/race_results/pkg/server"
	"github.com/Geniuskaa/race_results/pkg/watch"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"net"
)

var errNoInput = errors.New("no input file, pass it as an argument, with --in or INPUT_FILE")

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert a race results file once",
	Example: `  resultfmt convert 2019_d2_boys.txt 2019_d2_boys_events.txt
  resultfmt convert --layout pdf --strict results.txt
  resultfmt convert --header-rows 1 --xlsx-out results_export.xlsx results.xlsx`,
	Args: cobra.MaximumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindPositional(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		return runConvert(cmd.Context(), a)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [input] [output]",
	Short: "Convert a race results file and again on every change",
	Args:  cobra.MaximumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindPositional(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if a.conf.Parse.Input == "" {
			return errNoInput
		}
		a.watchConfig()

		w := watch.New(a.logger, a.conf.Parse.Input, watch.DEFAULT_DEBOUNCE, func(ctx context.Context) error {
			return runConvert(ctx, a)
		})
		a.logger.Info("Watching results", zap.String("input", a.conf.Parse.Input))
		return w.Run(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversions over HTTP",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, serveFlags)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		opts, err := a.options()
		if err != nil {
			return err
		}
		a.watchConfig()

		application := server.NewServer(cmd.Context(), a.logger, chi.NewRouter(), a.conv, opts)
		application.Init(a.atom, a.reg)

		return application.Start(net.JoinHostPort(a.conf.App.Host, a.conf.App.Port))
	},
}

func init() {
	addParseFlags(convertCmd.Flags())
	addParseFlags(watchCmd.Flags())

	fs := serveCmd.Flags()
	fs.String("host", "", "listen host")
	fs.String("port", "", "listen port (default 8080)")
	fs.String("layout", "", "default input layout: text or pdf")
	fs.Bool("strict", false, "reject short lines by default")
	fs.String("race", "", "race name used when storing results")
}

func bindPositional(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, parseFlags); err != nil {
		return err
	}
	if len(args) > 0 {
		v.Set(config.INPUT_FILE, args[0])
	}
	if len(args) > 1 {
		v.Set(config.OUTPUT_FILE, args[1])
	}
	return nil
}

func runConvert(ctx context.Context, a *app) error {
	if a.conf.Parse.Input == "" {
		return errNoInput
	}

	opts, err := a.options()
	if err != nil {
		return err
	}

	summary, err := a.conv.ConvertFile(ctx, a.conf.Parse.Input, a.conf.Parse.Output, opts)
	if err != nil {
		return err
	}

	if summary.Upload != nil {
		a.logger.Info("Results uploaded", zap.String("race", opts.Race),
			zap.Int("added", summary.Upload.CountOfAddedParts),
			zap.Int("failed", summary.Upload.CountOfFailedRows))
	}
	return nil
}
