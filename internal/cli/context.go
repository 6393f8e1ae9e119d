package cli

import (
	"io"

	"go.uber.org/zap"

	"github.com/jaa/vinstall/internal/logging"
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type GlobalOptions struct {
	ConfigPath string
	JSON       bool
	Quiet      bool
	Verbose    bool
	NoColor    bool
	NoInput    bool
	DryRun     bool
}

type AppContext struct {
	Build BuildInfo
	IO    IOStreams
	Opts  GlobalOptions

	logger *zap.Logger
}

// Logger returns the diagnostic logger, built on first use from the global
// flags.
func (app *AppContext) Logger() *zap.Logger {
	if app.logger == nil {
		app.logger = logging.New(app.IO.ErrOut, logging.Options{
			Verbose: app.Opts.Verbose,
			Quiet:   app.Opts.Quiet,
			JSON:    app.Opts.JSON,
		})
	}
	return app.logger
}
