package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"signa/internal/output"
)

func (c *cli) configCmd() *cobra.Command {
	var showPath, asJSON bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		Long: `Display the resolved signa configuration.

Examples:
  signa config                # Show all config
  signa config --path         # Show config file path
  signa config --json         # Output as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if showPath {
				if cfg.ConfigFile == "" {
					c.printer.Info("No config file found (using defaults)")
				} else {
					c.printer.Info("Config file: %s", cfg.ConfigFile)
				}
				return nil
			}
			if asJSON {
				return writeJSON(c.out, cfg)
			}

			passphrase := "(not set)"
			if cfg.Passphrase != "" {
				passphrase = "(set)"
			}

			c.printer.Header("Current Configuration")
			tbl := output.NewTable(c.out, []string{"KEY", "VALUE"})
			tbl.AddRow("api_url", cfg.APIURL)
			tbl.AddRow("home", cfg.Home)
			tbl.AddRow("timeout", cfg.Timeout.String())
			tbl.AddRow("passphrase", passphrase)
			tbl.AddRow("redirect_delay", cfg.RedirectDelay.String())
			tbl.AddRow("logging.level", cfg.Logging.Level)
			tbl.AddRow("logging.format", cfg.Logging.Format)
			tbl.AddRow("output.colors", fmt.Sprintf("%v", cfg.Output.Colors))
			return tbl.Render()
		},
	}
	cmd.Flags().BoolVar(&showPath, "path", false, "show config file path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
