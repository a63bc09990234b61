package main

import (
	"flag"
	"fmt"
	"github.com/Leantar/holdon/agent"
	"github.com/Leantar/holdon/modules/config"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	configPath = flag.String("config", "", "Specify a path to load the config from")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	progname := filepath.Base(os.Args[0])
	flag.Usage = func() {
		printUsage(flag.CommandLine.Output(), progname)
	}

	// Parse command line arguments
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	conf := agent.DefaultConfig()
	if *configPath != "" {
		err := config.FromYamlFile(*configPath, &conf)
		if err != nil {
			_ = setupLogging(agent.DefaultConfig(), os.Stderr)
			log.Fatal().Caller().Err(err).Msg("failed to read config")
		}
	}
	if *debug {
		conf.LogLevel = "debug"
	}

	err := setupLogging(conf, os.Stderr)
	if err != nil {
		log.Fatal().Caller().Err(err).Msg("invalid logging config")
	}

	a := agent.New(conf, os.Stdout, os.Stderr)

	_, err = a.Run(flag.Args())
	if err != nil {
		log.Fatal().Caller().Err(err).Msg("failed to start watching")
	}
}

func printUsage(w io.Writer, progname string) {
	fmt.Fprintf(w, "usage:\n    %s <file1> [<file2>.. <fileN>]\n", progname)
	flag.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(w, "  -%s\t%s\n", f.Name, f.Usage)
	})
}

// setupLogging points the global logger at w. Levels above warn are refused so that
// rejected candidates are always reported.
func setupLogging(conf agent.Config, w io.Writer) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if conf.LogFormat == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: !isTerminal(w)}
		log.Logger = zerolog.New(cw).With().Timestamp().Logger()
	}

	if conf.LogFormat != "json" && conf.LogFormat != "console" && conf.LogFormat != "" {
		return fmt.Errorf("unknown log format %q", conf.LogFormat)
	}

	if conf.LogLevel == "" {
		return nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(conf.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return fmt.Errorf("unknown log level %q", conf.LogLevel)
	}
	if level > zerolog.WarnLevel {
		return fmt.Errorf("log level %q would hide warnings, use warn or lower", conf.LogLevel)
	}
	zerolog.SetGlobalLevel(level)

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
