// Command coursedump launches the Bitrix course scraper scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/apex/log"
	coursedump "github.com/bitrixtools/coursedump"
	"github.com/bitrixtools/coursedump/internal/launcher"
	"github.com/bitrixtools/coursedump/internal/log/handlers/cli"
	"github.com/bitrixtools/coursedump/internal/must"
	"github.com/bitrixtools/coursedump/internal/pyexec"
	"github.com/spf13/cobra"
)

func main() {
	log.SetHandler(cli.Default)

	root := newRootCommand()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCommand creates the root command with its flags and subcommands.
func newRootCommand() *cobra.Command {
	verbose := false
	config := launcher.NewConfig()
	root := &cobra.Command{
		Use:   "coursedump [limit]",
		Short: "Downloads Bitrix Framework learning courses",
		Long: `Coursedump is a front-end for the Python scraper scripts living in
the scripts/ directory. It checks that the scripts and a Python 3
interpreter are available, then runs the course parser as a child
process, passing through its output.

A single numeric argument is shorthand for --limit:

  coursedump 5`,
		Version: coursedump.Version,
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			scrapeMain(cmd, args, config)
		},
	}
	flags := root.Flags()
	flags.StringVarP(&config.URL, "url", "u", launcher.DefaultURL, "course page to scrape")
	flags.StringVarP(&config.Output, "output", "o", launcher.DefaultOutput, "directory where to save pages")
	flags.Int64VarP(&config.Limit, "limit", "l", 0, "maximum number of pages to download (0 means no limit)")
	flags.Float64VarP(&config.Timeout, "timeout", "t", launcher.DefaultTimeout, "delay between requests in seconds")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	}
	root.AddCommand(checkconnSubcommand())
	root.AddCommand(coursemapSubcommand())
	root.AddCommand(versionSubcommand())
	return root
}

// scrapeMain implements the root command: it runs the course parser
// with the effective configuration.
func scrapeMain(cmd *cobra.Command, args []string, config *launcher.Config) {
	if len(args) == 1 {
		limit, err := positionalLimit(cmd, args[0])
		if err != nil {
			log.WithError(err).Fatal("usage error")
		}
		config.Limit = limit
	}
	if err := validateLimit(config.Limit); err != nil {
		log.WithError(err).Fatal("usage error")
	}

	lx := launcher.New(config, log.Log)
	lx.Banner = configBanner
	outdir, err := lx.Run(cmd.Context())
	if err != nil {
		log.WithFields(log.Fields{
			"type":  "section_title",
			"title": "SCRAPE FAILED",
		}).Info("")
		log.WithError(err).Fatal("scraping failed")
	}

	log.WithFields(log.Fields{
		"type":  "section_title",
		"title": "SCRAPE COMPLETE",
	}).Info("")
	log.Infof("files saved in: %s", outdir)
}

// validateLimit rejects a negative page limit, which would otherwise
// silently behave as no limit at all.
func validateLimit(limit int64) error {
	if limit < 0 {
		return fmt.Errorf("limit must be a non-negative integer, got %d", limit)
	}
	return nil
}

// positionalLimit parses the positional limit shorthand, which is
// only valid when no scraper flag was set alongside it.
func positionalLimit(cmd *cobra.Command, arg string) (int64, error) {
	for _, name := range []string{"url", "output", "limit", "timeout"} {
		if cmd.Flags().Changed(name) {
			return 0, fmt.Errorf("positional limit cannot be combined with --%s", name)
		}
	}
	limit, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("not an unsigned integer: %s", arg)
	}
	return limit, nil
}

// configBanner logs the effective configuration right before we
// start the child process.
func configBanner(config *launcher.Config, interp *pyexec.Interpreter) {
	log.WithFields(log.Fields{
		"type":    "table",
		"url":     config.URL,
		"output":  config.Output,
		"limit":   config.LimitString(),
		"timeout": launcher.FormatTimeout(config.Timeout),
		"python":  fmt.Sprintf("%s (%s)", interp.Path, interp.Version),
		"started": time.Now().Format("2006-01-02 15:04:05"),
	}).Info("configuration")
}

// versionSubcommand returns the subcommand showing the version.
func versionSubcommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			must.Fprintf(os.Stdout, "%s\n", coursedump.Version)
		},
	}
}

// checkconnSubcommand returns the subcommand probing the course site.
func checkconnSubcommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checkconn",
		Short: "Checks that the course site is reachable",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			lx := launcher.New(launcher.NewConfig(), log.Log)
			if err := lx.RunScript(cmd.Context(), launcher.CheckConnScript); err != nil {
				log.WithError(err).Fatal("connection check failed")
			}
		},
	}
}

// coursemapSubcommand returns the subcommand regenerating the
// COURSES_MAP.md index from previously scraped courses.
func coursemapSubcommand() *cobra.Command {
	return &cobra.Command{
		Use:   "coursemap",
		Short: "Regenerates the course map from scraped data",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			lx := launcher.New(launcher.NewConfig(), log.Log)
			if err := lx.RunScript(cmd.Context(), launcher.CourseMapScript); err != nil {
				log.WithError(err).Fatal("course map generation failed")
			}
		},
	}
}
