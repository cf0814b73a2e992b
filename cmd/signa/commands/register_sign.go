package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"signa/internal/domain"
	"signa/internal/wizard"
)

// backWord moves the wizard one step back when typed at a field prompt.
const backWord = ":back"

var fieldLabels = map[wizard.Field]string{
	wizard.FieldSignName: "Sign name",
	wizard.FieldName:     "Name",
	wizard.FieldSurname:  "Surname",
	wizard.FieldEmail:    "Email",
	wizard.FieldAddress:  "Address",
}

var errAborted = errors.New("sign registration aborted")

func (c *cli) registerSignCmd() *cobra.Command {
	var (
		prefill = make(map[wizard.Field]*string)
		yes     bool
	)
	cmd := &cobra.Command{
		Use:   "register-sign",
		Short: "Create a sign with the three-step wizard",
		Long: `Walk through brand name, owner information and review, then submit the
new sign. Flags prefill fields; with --yes every step whose fields are
filled is accepted without prompting and the review is submitted directly.

Type :back at any prompt to return to the previous step.

Examples:
  signa register-sign
  signa register-sign --sign-name Acme --name Ana --surname Ruiz \
    --email ana@example.com --address "Main 1" --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}

			flow := c.wire.NewFlow()
			defer flow.Close()
			for f, v := range prefill {
				if *v != "" {
					if err := flow.Set(f, *v); err != nil {
						return err
					}
				}
			}

			ctx := cmd.Context()
			c.router.Handle(domain.RouteSigns, func() {
				if err := c.renderSignList(ctx, false); err != nil {
					c.printer.Error("%v", err)
				}
			})

			res, err := c.runWizard(ctx, flow, yes)
			if err != nil {
				return err
			}

			c.printer.Success("%s: %s (#%s)", flow.Message(), c.printer.Bold(res.Sign.SignName), res.Sign.ID)
			if res.UserCreated != nil && *res.UserCreated {
				c.printer.Info("A new owner account was created for %s.", res.User.Email)
			}
			if res.Note != "" {
				c.printer.Print("  %s", res.Note)
			}

			if task := flow.Redirect(); task != nil {
				select {
				case <-task.Done():
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		},
	}

	for _, f := range []wizard.Field{wizard.FieldSignName, wizard.FieldName, wizard.FieldSurname, wizard.FieldEmail, wizard.FieldAddress} {
		prefill[f] = new(string)
		name := strings.ReplaceAll(string(f), "_", "-")
		cmd.Flags().StringVar(prefill[f], name, "", strings.ToLower(fieldLabels[f])+" to prefill")
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept filled steps and submit without prompting")
	return cmd
}

// runWizard drives flow until a submission succeeds.
func (c *cli) runWizard(ctx context.Context, flow *wizard.Flow, yes bool) (domain.SignResult, error) {
	p := c.prompter()
	for {
		step := flow.Step()
		info := wizard.Steps()[step-1]
		c.printer.Header(fmt.Sprintf("Step %d/3: %s", step, info.Title))
		c.printer.Print("%s", info.Description)

		if step != wizard.StepReview {
			if !(yes && flow.CanAdvance()) {
				back, err := c.collect(p, flow, step)
				if err != nil {
					return domain.SignResult{}, err
				}
				if back {
					flow.Back()
					continue
				}
			}
			if err := flow.Next(); err != nil {
				var inc *wizard.IncompleteError
				if errors.As(err, &inc) {
					c.printer.Warning("Please fill in: %s", labels(inc.Missing))
					continue
				}
				return domain.SignResult{}, err
			}
			continue
		}

		c.printReview(flow.Draft())
		if !yes {
			choice, err := p.choose("Submit this sign?", "submit", "back", "quit")
			if err != nil {
				return domain.SignResult{}, err
			}
			switch choice {
			case "back":
				flow.Back()
				continue
			case "quit":
				return domain.SignResult{}, errAborted
			}
		}

		res, err := flow.Submit(ctx)
		if err == nil {
			return res, nil
		}
		if yes {
			return domain.SignResult{}, err
		}
		c.printer.Error("%s", flow.Error())
	}
}

// collect prompts for the fields of step. It reports true when the user
// asked to go back.
func (c *cli) collect(p *prompter, flow *wizard.Flow, step wizard.Step) (bool, error) {
	for _, f := range wizard.FieldsOf(step) {
		v, err := p.line(fieldLabels[f], flow.Value(f))
		if err != nil {
			return false, err
		}
		if v == backWord {
			if step == wizard.StepBrandName {
				c.printer.Warning("Already at the first step.")
				return c.collect(p, flow, step)
			}
			return true, nil
		}
		if err := flow.Set(f, v); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (c *cli) printReview(d domain.SignDraft) {
	c.printer.Field("Sign", d.SignName)
	c.printer.Field("Name", d.Name)
	c.printer.Field("Surname", d.Surname)
	c.printer.Field("Email", d.Email)
	c.printer.Field("Address", d.Address)
}

func labels(fields []wizard.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = fieldLabels[f]
	}
	return strings.Join(names, ", ")
}
