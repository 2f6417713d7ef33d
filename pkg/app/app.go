package app

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/birdayz/smuggle/pkg/carrier"
	"github.com/birdayz/smuggle/pkg/config"
)

// App holds all shared mutable state for the CLI. It is created once per
// invocation and threaded into every command package.
type App struct {
	// I/O
	OutWriter    io.Writer
	ErrWriter    io.Writer
	InReader     io.Reader
	ColorableOut io.Writer

	// Config state
	Cfg         config.Config
	CfgFile     string
	CarrierFlag string
	Verbose     bool

	Log     *zap.SugaredLogger
	JSONFmt *prettyjson.Formatter

	// Display
	NoHeaderFlag bool

	// Root command reference (for completion generation)
	Root *cobra.Command
}

// New creates an App with sane defaults.
func New() *App {
	return &App{
		OutWriter:    os.Stdout,
		ErrWriter:    os.Stderr,
		InReader:     os.Stdin,
		ColorableOut: colorable.NewColorableStdout(),
		Log:          zap.NewNop().Sugar(),
		JSONFmt:      prettyjson.NewFormatter(),
	}
}

// InitConfig reads the config file and sets up logging.
// Called by PersistentPreRunE on the root command.
func (a *App) InitConfig() error {
	log, err := newLogger(a.Verbose)
	if err != nil {
		return err
	}
	a.Log = log

	a.Cfg, err = config.ReadConfig(a.CfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.Log.Debugw("config loaded", "path", a.Cfg.Path(), "carrier", a.Cfg.Carrier, "mode", a.Cfg.Mode)

	a.JSONFmt.DisabledColor = !IsTerminal(a.OutWriter)
	return nil
}

// ResolveCarrier returns the carrier from --carrier, the config, or the default.
func (a *App) ResolveCarrier() (carrier.Carrier, error) {
	c, err := carrier.Resolve(a.CarrierFlag, a.Cfg.Carrier)
	if err != nil {
		return carrier.Carrier{}, fmt.Errorf("invalid carrier: %w", err)
	}
	a.Log.Debugw("carrier resolved", "carrier", c.Value, "name", c.Name, "kind", c.Kind)
	return c, nil
}

// OutputFormat returns the configured default output format.
func (a *App) OutputFormat() (OutputFormat, error) {
	format := OutputFormatDefault
	if a.Cfg.Output == "" {
		return format, nil
	}
	if err := format.Set(a.Cfg.Output); err != nil {
		return OutputFormatDefault, fmt.Errorf("invalid output in config: %w", err)
	}
	return format, nil
}

// AddCarrierFlag installs --carrier on cmd.
func (a *App) AddCarrierFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.CarrierFlag, "carrier", "c", "", "Carrier character or catalog name (default from config, else 😀)")
	if err := cmd.RegisterFlagCompletionFunc("carrier", a.ValidCarrierArgs); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
}

// AddNoHeadersFlag installs --no-headers on cmd.
func (a *App) AddNoHeadersFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&a.NoHeaderFlag, "no-headers", false, "Hide table headers")
}

// ValidCarrierArgs provides shell completion for carrier names.
func (a *App) ValidCarrierArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	all := carrier.All()
	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

const (
	TabwriterMinWidth = 6
	TabwriterWidth    = 4
	TabwriterPadding  = 3
	TabwriterPadChar  = ' '
	TabwriterFlags    = 0
)

// NewTabWriter creates a standard tabwriter for CLI output.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, TabwriterMinWidth, TabwriterWidth, TabwriterPadding, TabwriterPadChar, TabwriterFlags)
}
