package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"signa/internal/domain"
	"signa/internal/output"
)

func (c *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List, show, create, edit and delete users",
	}
	cmd.AddCommand(c.usersListCmd(), c.usersShowCmd(), c.usersCreateCmd(), c.usersEditCmd(), c.usersDeleteCmd())
	return cmd
}

func (c *cli) usersListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.wire.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(c.out, list)
			}
			c.printer.Header("Users")
			tbl := output.NewTable(c.out, []string{"ID", "USERNAME", "NAME", "EMAIL"})
			for _, u := range list {
				tbl.AddRow(u.ID.String(), u.Username, u.Name+" "+u.Surname, u.Email)
			}
			return tbl.Render()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (c *cli) usersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			u, err := c.wire.Users.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			c.printer.Header(fmt.Sprintf("#%s %s %s", u.ID, u.Name, u.Surname))
			c.printer.Field("Username", u.Username)
			c.printer.Field("Email", u.Email)
			return nil
		},
	}
}

func (c *cli) usersCreateCmd() *cobra.Command {
	var d domain.UserDraft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Example: `  signa users create --name Ana --surname Ruiz --email ana@example.com --address "Main 1"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.wire.Users.Create(cmd.Context(), d)
			if err != nil {
				return err
			}
			c.printer.Success("User %s created", d.Email)
			if res.Message != "" {
				c.printer.Print("  %s", res.Message)
			}
			if res.Note != "" {
				c.printer.Print("  %s", res.Note)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&d.Name, "name", "", "first name")
	fl.StringVar(&d.Surname, "surname", "", "surname")
	fl.StringVar(&d.Email, "email", "", "email address")
	fl.StringVar(&d.Address, "address", "", "postal address")
	return cmd
}

func (c *cli) usersEditCmd() *cobra.Command {
	var f struct{ name, surname, email, address, password string }
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			patch := domain.UserPatch{
				Name:     changed(fl, "name", f.name),
				Surname:  changed(fl, "surname", f.surname),
				Email:    changed(fl, "email", f.email),
				Address:  changed(fl, "address", f.address),
				Password: changed(fl, "password", f.password),
			}
			if _, err := c.wire.Users.Update(cmd.Context(), id, patch); err != nil {
				return err
			}
			c.printer.Success("User #%s updated", id)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "new first name")
	fl.StringVar(&f.surname, "surname", "", "new surname")
	fl.StringVar(&f.email, "email", "", "new email address")
	fl.StringVar(&f.address, "address", "", "new postal address")
	fl.StringVar(&f.password, "password", "", "new password")
	return cmd
}

func (c *cli) usersDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := c.prompter().confirm(fmt.Sprintf("Delete user #%s?", id))
				if err != nil {
					return err
				}
				if !ok {
					c.printer.Info("Cancelled.")
					return nil
				}
			}
			if err := c.wire.Users.Delete(cmd.Context(), id); err != nil {
				return err
			}
			c.printer.Success("User #%s deleted", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

// changed returns &v when the flag was given on the command line.
func changed(fl *pflag.FlagSet, name, v string) *string {
	if !fl.Changed(name) {
		return nil
	}
	return &v
}

func parseUserID(s string) (domain.UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, &output.CLIError{
			Summary:  fmt.Sprintf("invalid user id %q", s),
			ExitCode: output.ExitUsageError,
		}
	}
	return domain.UserID(n), nil
}
