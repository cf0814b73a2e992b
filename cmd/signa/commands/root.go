package commands

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"signa/internal/app"
	"signa/internal/domain"
	"signa/internal/logger"
	"signa/internal/output"
)

var version = "dev"

// cli is the state shared by the subcommands of one invocation.
type cli struct {
	in     *bufio.Reader
	tty    int
	out    io.Writer
	errOut io.Writer

	cfgFile   string
	verbose   bool
	colorMode string

	cfg     *app.Config
	log     *zap.Logger
	printer *output.Printer
	router  *app.Router
	wire    *app.Wire
}

// Execute runs the CLI against the process streams and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	c := &cli{in: bufio.NewReader(in), tty: -1, out: out, errOut: errOut}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.tty = int(f.Fd())
	}
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	c.close()
	if err == nil {
		return output.ExitSuccess
	}

	cliErr := output.FromError(err)
	p := c.printer
	if p == nil {
		p = output.NewPrinterTo(out, errOut, false)
	}
	p.FormatError(cliErr)
	return cliErr.ExitCode
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "signa",
		Short: "Administration client for the Signa sign registry",
		Long: `signa talks to the Signa REST backend: log in, register signs with a
three-step wizard, and manage signs and users.

Example usage:
  signa login -u ana              # Log in and store the session
  signa register-sign             # Create a sign interactively
  signa signs list                # List registered signs
  signa signs delete 12           # Delete a sign`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default is .signa.yaml)")
	pf.String("home", "", "config dir (default ~/.signa)")
	pf.String("api-url", "", "backend base URL (default http://localhost:5000/api)")
	pf.Duration("timeout", 0, "HTTP request timeout (default 15s)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&c.colorMode, "color", "auto", "color output: auto, always, never")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.registerSignCmd(),
		c.signsCmd(),
		c.usersCmd(),
		c.configCmd(),
	)
	return root
}

// init loads configuration and builds the dependency graph.
func (c *cli) init(cmd *cobra.Command) error {
	mode, err := output.ParseColorMode(c.colorMode)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError, Err: err}
	}

	c.cfg, err = app.Load(c.cfgFile, cmd.Flags())
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "check .signa.yaml and SIGNA_* environment variables",
			ExitCode:   output.ExitConfigError,
			Err:        err,
		}
	}
	if c.verbose {
		c.cfg.Logging.Level = "debug"
	}

	c.log, err = logger.New(c.cfg.Logging.Level, c.cfg.Logging.Format)
	if err != nil {
		return err
	}
	c.printer = output.NewPrinterTo(c.out, c.errOut, output.ResolveColors(mode, c.cfg.Output.Colors))
	c.log.Debug("configuration loaded",
		zap.String("api_url", c.cfg.APIURL),
		zap.String("home", c.cfg.Home),
		zap.String("config_file", c.cfg.ConfigFile),
	)

	if cmd.Name() == "config" {
		return nil
	}

	c.router = app.NewRouter(c.log.Named("router"))
	c.router.Handle(domain.RouteLogin, func() {
		c.printer.Info("Session closed. Run 'signa login' to sign in again.")
	})
	c.router.Handle(domain.RouteRegisterSign, func() {
		c.printer.Info("Run 'signa register-sign' to register a sign.")
	})
	c.wire, err = app.NewWire(cmd.Context(), c.cfg, c.log, c.router)
	return err
}

func (c *cli) close() {
	if c.wire != nil {
		c.wire.Close()
		c.wire = nil
	}
}

// requireSession fails fast with the session guard's error.
func (c *cli) requireSession() error {
	return c.wire.Session.Require()
}

var errInputClosed = errors.New("input closed")
