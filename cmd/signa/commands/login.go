package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"signa/internal/domain"
)

func (c *cli) loginCmd() *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long: `Authenticate against the backend and keep the access token and profile
in the home directory until logout.

Examples:
  signa login -u ana
  echo "$PASSWORD" | signa login -u ana --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.prompter()
			var err error
			if username == "" {
				if username, err = p.line("Username", ""); err != nil {
					return err
				}
			}

			var password string
			if passwordStdin {
				b, err := io.ReadAll(c.in)
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = strings.TrimRight(string(b), "\r\n")
			} else if password, err = p.secret("Password"); err != nil {
				return err
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			res, err := c.wire.API.Login(cmd.Context(), domain.Credentials{Username: username, Password: password})
			if err != nil {
				return err
			}
			if err := c.wire.Session.Login(res.AccessToken, res.User); err != nil {
				return fmt.Errorf("storing session: %w", err)
			}

			c.printer.Success("Logged in as %s", c.printer.Bold(res.User.DisplayName()))
			if res.Message != "" {
				c.printer.Print("  %s", res.Message)
			}
			c.router.Navigate(domain.RouteRegisterSign)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.wire.Session.Logout(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			profile, _ := c.wire.Session.Profile()

			c.printer.Header(profile.DisplayName())
			c.printer.Field("ID", profile.ID.String())
			c.printer.Field("Username", profile.Username)
			c.printer.Field("Email", profile.Email)
			if exp, ok := c.wire.Session.ExpiresAt(); ok {
				c.printer.Field("Expires", exp.Local().Format("2006-01-02 15:04:05"))
			}
			where := c.wire.Storage.Path()
			if c.wire.Storage.Sealed() {
				where += " (sealed)"
			}
			c.printer.Field("Stored", where)
			return nil
		},
	}
}
