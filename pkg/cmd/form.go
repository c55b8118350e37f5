package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/navarrastar/review-register/pkg/models"
	"github.com/navarrastar/review-register/pkg/validation"
)

func newFormCmd(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Edit the draft registration form",
	}
	cmd.AddCommand(newFormSetCmd(out, errOut))
	cmd.AddCommand(newFormShowCmd(out, errOut))
	cmd.AddCommand(newFormClearCmd(out, errOut))
	return cmd
}

func newFormSetCmd(out, errOut io.Writer) *cobra.Command {
	var flags formFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set fields on the draft form",
		Long:  `Stores the given fields in the draft file. Fields not given keep their current value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.changed(cmd) {
				return fmt.Errorf("no fields given")
			}

			a, err := newApp(cmd.Context(), out, errOut)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			if _, err := a.draft().Update(flags.form); err != nil {
				return err
			}
			return showDraft(a, out)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newFormShowCmd(out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the draft form and its validation state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), out, errOut)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			return showDraft(a, out)
		},
	}
}

func newFormClearCmd(out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the draft form",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), out, errOut)
			if err != nil {
				return err
			}
			defer a.close(cmd.Context())

			if err := a.draft().Save(models.RegistrationForm{}); err != nil {
				return err
			}
			fmt.Fprintln(out, "Draft cleared")
			return nil
		},
	}
}

func showDraft(a *app, out io.Writer) error {
	repo := a.draft()
	form, err := repo.Load()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding draft: %w", err)
	}
	fmt.Fprintf(out, "Draft (%s)\n", repo.Path())
	fmt.Fprintln(out, string(data))

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	var verrs validation.ValidationErrors
	switch err := validation.Default().ValidateForm(form); {
	case err == nil:
		fmt.Fprintln(out, green("Ready to submit"))
	case errors.As(err, &verrs):
		for _, e := range verrs {
			fmt.Fprintf(out, "%s %s\n", yellow("invalid:"), e.Field)
		}
	default:
		return err
	}
	return nil
}
