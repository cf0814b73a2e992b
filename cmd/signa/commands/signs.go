package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"signa/internal/domain"
	"signa/internal/output"
	"signa/internal/services/signs"
)

func (c *cli) signsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signs",
		Short: "List, show, edit and delete signs",
	}
	cmd.AddCommand(c.signsListCmd(), c.signsShowCmd(), c.signsEditCmd(), c.signsDeleteCmd())
	return cmd
}

func (c *cli) signsListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered signs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.renderSignList(cmd.Context(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

// renderSignList is the signs listing view.
func (c *cli) renderSignList(ctx context.Context, asJSON bool) error {
	records, err := c.wire.Signs.Refresh(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(c.out, records)
	}

	c.printer.Header("Signs")
	if len(records) == 0 {
		c.printer.Info("No signs registered yet. Run 'signa register-sign' to add one.")
		return nil
	}
	tbl := output.NewTable(c.out, []string{"ID", "SIGN", "STATUS", "OWNER", "EMAIL", "ADDRESS"})
	for _, r := range records {
		tbl.AddRow(
			r.Sign.ID.String(),
			r.Sign.SignName,
			c.printer.StatusBadge(r.Sign.Status),
			r.User.Name+" "+r.User.Surname,
			r.User.Email,
			r.User.Address,
		)
	}
	return tbl.Render()
}

func (c *cli) signsShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>...",
		Short: "Show one or more signs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseSignIDs(args)
			if err != nil {
				return err
			}
			results, err := c.wire.Signs.GetMany(cmd.Context(), ids)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(c.out, results)
			}
			for _, r := range results {
				c.printer.Header(fmt.Sprintf("#%s %s", r.Sign.ID, r.Sign.SignName))
				c.printer.Field("Status", c.printer.StatusBadge(r.Sign.Status))
				c.printer.Field("Owner", r.User.Name+" "+r.User.Surname)
				c.printer.Field("Email", r.User.Email)
				c.printer.Field("Address", r.User.Address)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func (c *cli) signsEditCmd() *cobra.Command {
	var f struct{ signName, name, surname, email, address string }
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a sign and its owner",
		Long: `Send the given fields to the backend. Fields equal to the current values
are left out of the request; when nothing differs no request is made.

Example:
  signa signs edit 12 --sign-name "Acme Corp" --email new@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseSignIDs(args)
			if err != nil {
				return err
			}
			if _, err := c.wire.Signs.Refresh(cmd.Context()); err != nil {
				return err
			}

			flags := cmd.Flags()
			_, err = c.wire.Signs.Edit(cmd.Context(), ids[0], func(d *domain.SignDraft) {
				if flags.Changed("sign-name") {
					d.SignName = f.signName
				}
				if flags.Changed("name") {
					d.Name = f.name
				}
				if flags.Changed("surname") {
					d.Surname = f.surname
				}
				if flags.Changed("email") {
					d.Email = f.email
				}
				if flags.Changed("address") {
					d.Address = f.address
				}
			})
			switch {
			case errors.Is(err, signs.ErrNoChanges):
				c.printer.Info("%s", c.wire.Signs.Message())
				return nil
			case err != nil:
				return err
			}
			c.printer.Success("%s", c.wire.Signs.Message())
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.signName, "sign-name", "", "new sign name")
	fl.StringVar(&f.name, "name", "", "new owner name")
	fl.StringVar(&f.surname, "surname", "", "new owner surname")
	fl.StringVar(&f.email, "email", "", "new owner email")
	fl.StringVar(&f.address, "address", "", "new owner address")
	return cmd
}

func (c *cli) signsDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a sign",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseSignIDs(args)
			if err != nil {
				return err
			}
			id := ids[0]
			if _, err := c.wire.Signs.Refresh(cmd.Context()); err != nil {
				return err
			}
			rec, ok := c.wire.Signs.Find(id)
			if !ok {
				return fmt.Errorf("sign %s: %w", id, signs.ErrNotListed)
			}

			if !yes {
				ok, err := c.prompter().confirm(fmt.Sprintf("Delete sign %q (#%s)?", rec.Sign.SignName, id))
				if err != nil {
					return err
				}
				if !ok {
					c.printer.Info("Cancelled.")
					return nil
				}
			}

			if err := c.wire.Signs.Delete(cmd.Context(), id); err != nil {
				return err
			}
			c.printer.Success("%s", c.wire.Signs.Message())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func parseSignIDs(args []string) ([]domain.SignID, error) {
	ids := make([]domain.SignID, len(args))
	for i, a := range args {
		n, err := strconv.ParseInt(a, 10, 64)
		if err != nil || n <= 0 {
			return nil, &output.CLIError{
				Summary:  fmt.Sprintf("invalid sign id %q", a),
				ExitCode: output.ExitUsageError,
			}
		}
		ids[i] = domain.SignID(n)
	}
	return ids, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
