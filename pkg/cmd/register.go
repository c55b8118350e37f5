package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/navarrastar/review-register/pkg/controller"
	"github.com/navarrastar/review-register/pkg/storage"
)

func newRegisterCmd(out, errOut io.Writer) *cobra.Command {
	var (
		flags       formFlags
		countryCode bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Validate and submit a registration",
		Long: `Validates the registration form and POSTs it to /register.

The form comes from the flags when any are given, otherwise from the draft file.
The draft is cleared after the server accepts it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, out, errOut)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			prefix := a.cfg.CountryCodePrefix
			if cmd.Flags().Changed("country-code") {
				prefix = countryCode
			}

			var repo controller.FormRepository
			if flags.changed(cmd) {
				repo = storage.NewMemoryRepository(flags.form)
			} else {
				draft := a.draft()
				// surface an unreadable draft instead of submitting an empty form
				if _, err := draft.Load(); err != nil {
					return err
				}
				repo = draft
			}

			ctr := a.controller(repo, prefix)
			results, err := ctr.Click(ctx, controller.RegisterPage, controller.SubmitButton)
			if err != nil {
				return err
			}
			if err := wait(ctx, results); err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&countryCode, "country-code", true, "Send the phone number with the +1 country code")

	return cmd
}
