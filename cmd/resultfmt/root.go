package main

import (
	"fmt"
	"github.com/Geniuskaa/race_results/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "resultfmt",
	Short: "Reformat race result text into pipe-delimited records",
	Long: `resultfmt turns fixed-width race result lines

  place bib last first grade school... avg time score

into pipe-delimited records

  place|bib|last|first|grade|school|time|score

which the race timer tools read as events and rosters.`,
	SilenceUsage: true,
}

// flag name -> config key
var persistentFlags = map[string]string{
	"config":    config.CONFIG_FILE,
	"log-level": config.LOG_LEVEL,
	"log-file":  config.LOG_FILE,
}

var parseFlags = map[string]string{
	"in":          config.INPUT_FILE,
	"out":         config.OUTPUT_FILE,
	"xlsx-out":    config.XLSX_FILE,
	"layout":      config.LAYOUT,
	"strict":      config.PARSE_STRICT,
	"echo":        config.ECHO,
	"race":        config.RACE_NAME,
	"sheet":       config.SHEET_NAME,
	"header-rows": config.HEADER_ROWS,
}

var serveFlags = map[string]string{
	"host":   config.APP_HOST,
	"port":   config.APP_PORT,
	"layout": config.LAYOUT,
	"strict": config.PARSE_STRICT,
	"race":   config.RACE_NAME,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to a .env config file (default ./configs/.env when present)")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-file", "", "JSON log file")

	rootCmd.AddCommand(convertCmd, watchCmd, serveCmd)
}

// addParseFlags registers the flags shared by convert and watch. Defaults live in the config package.
func addParseFlags(fs *pflag.FlagSet) {
	fs.String("in", "", "race results input file (.txt or .xlsx)")
	fs.String("out", "", "pipe-delimited output file")
	fs.String("xlsx-out", "", "also export the records into this .xlsx file")
	fs.String("layout", "", "input layout: text or pdf")
	fs.Bool("strict", false, "reject lines that are too short instead of emitting fewer fields")
	fs.Bool("echo", true, "print every output line to stdout")
	fs.String("race", "", "race name used when storing results")
	fs.String("sheet", "", "sheet to read from an .xlsx input (default first sheet)")
	fs.Int("header-rows", 0, "rows to skip at the top of an .xlsx input")
}

// bindFlags binds the flags of the command that runs, several commands share config keys.
func bindFlags(cmd *cobra.Command, names map[string]string) error {
	for name, key := range persistentFlags {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("v.BindPFlag failed: %s: %w", name, err)
		}
	}
	for name, key := range names {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("v.BindPFlag failed: %s: %w", name, err)
		}
	}
	return nil
}
