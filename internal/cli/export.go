package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/repodump/internal/config"
	"github.com/dshills/repodump/internal/export"
	"github.com/dshills/repodump/internal/logging"
	"github.com/dshills/repodump/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagCommits    int
	flagIgnore     []string
	flagStdout     bool
	flagFormat     string
	flagOut        string
	flagQuiet      bool
	flagRedact     bool
	flagLogLevel   string
	flagConfigPath string
)

func init() {
	f := rootCmd.Flags()
	f.IntVarP(&flagCommits, "commits", "c", export.DefaultCommits, "Number of recent commits to include")
	f.StringArrayVarP(&flagIgnore, "ignore", "i", nil, "Additional ignore globs (comma-separated, repeatable)")
	f.BoolVarP(&flagStdout, "stdout", "s", false, "Write the document to stdout (the default)")
	f.StringVarP(&flagFormat, "format", "f", "", "Output format (text, markdown, json)")
	f.StringVarP(&flagOut, "out", "o", "", "Output file path (default: stdout)")
	f.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress the summary line on stderr")
	f.BoolVar(&flagRedact, "redact", false, "Scrub secrets from exported content")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&flagConfigPath, "config", "", "Config file path")
}

// buildOverrides collects the flags the user set explicitly.
func buildOverrides(cmd *cobra.Command) map[string]string {
	m := make(map[string]string)
	flags := cmd.Flags()
	if flags.Changed("commits") {
		m["commits"] = strconv.Itoa(flagCommits)
	}
	var ignore []string
	for _, v := range flagIgnore {
		ignore = append(ignore, splitComma(v)...)
	}
	if len(ignore) > 0 {
		m["ignore"] = strings.Join(ignore, ",")
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	if flags.Changed("redact") {
		m["redact"] = strconv.FormatBool(flagRedact)
	}
	return m
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func exportOptions(cfg config.Config, scopes []string) export.Options {
	return export.Options{
		Scopes:  scopes,
		Commits: cfg.Commits,
		Ignore:  cfg.Ignore,
		Render: export.RenderOptions{
			Redact:      cfg.Privacy.RedactSecrets,
			RedactPaths: cfg.Privacy.RedactPaths,
		},
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	if flagStdout && flagOut != "" {
		return fmt.Errorf("--stdout and --out are mutually exclusive")
	}
	cfg, err := config.Load(flagConfigPath, buildOverrides(cmd))
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	closeLog, err := logging.Configure(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil
	}
	defer closeLog()

	doc, err := export.Run(exportOptions(cfg, args))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil
	}

	var buf bytes.Buffer
	if err := output.WriteDocument(&buf, doc, cfg.Format); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		return nil
	}

	if !flagQuiet {
		lines, size := doc.Totals()
		fmt.Fprintf(stderr, "Exporting %d lines (%d bytes)\n", lines, size)
	}

	if flagOut != "" {
		if err := os.WriteFile(flagOut, buf.Bytes(), 0o644); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	}
	if _, err := buf.WriteTo(cmd.OutOrStdout()); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
	}
	return nil
}
