package agent

import (
	"fmt"
	"github.com/Leantar/holdon/models"
	"github.com/Leantar/holdon/modules/watcher"
	"github.com/rs/zerolog/log"
	"io"
)

type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Describe  bool   `yaml:"describe"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "console",
	}
}

type State int

const (
	StateInitializing State = iota
	StateWaiting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateWaiting:
		return "WAITING"
	case StateDone:
		return "DONE"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of one run. Name is empty when nothing fired.
type Result struct {
	Name    string
	Watched int
}

type Agent struct {
	conf   Config
	out    io.Writer
	errOut io.Writer
	state  State
	open   func(capacity int) (*watcher.WatchList, error)
}

// New returns an agent that writes the fired file name to out. Diagnostics that must
// survive any log level go to errOut.
func New(config Config, out, errOut io.Writer) *Agent {
	return &Agent{
		conf:   config,
		out:    out,
		errOut: errOut,
		open:   watcher.New,
	}
}

func (a *Agent) State() State {
	return a.state
}

// Run registers every candidate path and blocks until the first watched file fires.
// Run fails only when the notification session cannot be opened or stdout is broken.
func (a *Agent) Run(paths []string) (res Result, err error) {
	if a.state != StateInitializing {
		return Result{}, fmt.Errorf("agent already ran, state %s", a.state)
	}

	wl, err := a.open(len(paths))
	if err != nil {
		a.state = StateDone
		return Result{}, err
	}
	defer func() {
		if cerr := wl.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("failed to close watch list")
		}
		a.state = StateDone
	}()

	res.Watched = wl.RegisterAll(paths)
	if res.Watched == 0 {
		_, _ = fmt.Fprintln(a.errOut, "nothing to watch on...")
		return res, nil
	}

	a.state = StateWaiting
	log.Debug().Int("watched", res.Watched).Int("candidates", len(paths)).Msg("waiting for first event")

	res.Name = wl.WaitForFirstEvent()

	_, err = fmt.Fprintln(a.out, res.Name)
	if err != nil {
		return res, fmt.Errorf("failed to write result: %w", err)
	}

	// The name goes out before the fired file is hashed.
	if a.conf.Describe && res.Name != "" && res.Name != watcher.NoMatch {
		a.describe(res.Name)
	}

	return res, nil
}

func (a *Agent) describe(name string) {
	state, err := models.Describe(name)
	if err != nil {
		log.Info().Str("path", name).Err(err).Msg("fired file is gone")
		return
	}

	log.Info().
		Str("path", state.Path).
		Str("blake3", state.Digest).
		Int64("size", state.Size).
		Int64("modified", state.Modified).
		Uint32("uid", state.Uid).
		Uint32("gid", state.Gid).
		Str("mode", fmt.Sprintf("%#o", state.Mode)).
		Msg("fired file")
}
