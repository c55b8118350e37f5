package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/navarrastar/review-register/pkg/models"
	"github.com/navarrastar/review-register/pkg/services"
)

var version = "0.1.0"

// NewRootCmd builds the review-register command tree.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "review-register",
		Short: "Validate and submit customer registrations",
		Long: `review-register validates a customer registration form and submits it to
the review campaign backend, and can start the review campaign.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.AddCommand(newFormCmd(out, errOut))
	rootCmd.AddCommand(newRegisterCmd(out, errOut))
	rootCmd.AddCommand(newCampaignCmd(out, errOut))

	return rootCmd
}

// formFlags binds the four form fields to flags
type formFlags struct {
	form models.RegistrationForm
}

func (f *formFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.form.FirstName, "first-name", "", "First name (1-32 characters)")
	cmd.Flags().StringVar(&f.form.LastName, "last-name", "", "Last name (1-32 characters)")
	cmd.Flags().StringVar(&f.form.PhoneNumber, "phone", "", "10 digit US phone number, no separators")
	cmd.Flags().StringVar(&f.form.Email, "email", "", "Email address")
}

func (f *formFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"first-name", "last-name", "phone", "email"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// wait blocks until the request finishes or ctx is done.
func wait(ctx context.Context, results <-chan services.Result) error {
	select {
	case r, ok := <-results:
		if !ok {
			return fmt.Errorf("request ended without a result")
		}
		return r.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
