package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/navarrastar/review-register/pkg/controller"
	"github.com/navarrastar/review-register/pkg/models"
	"github.com/navarrastar/review-register/pkg/storage"
)

func newCampaignCmd(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Control the review campaign",
	}
	cmd.AddCommand(newCampaignStartCmd(out, errOut))
	return cmd
}

func newCampaignStartCmd(out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the review campaign",
		Long:  `POSTs to /campaign-start and waits for the server to answer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, out, errOut)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			// the control panel has no form fields
			ctr := a.controller(storage.NewMemoryRepository(models.RegistrationForm{}), a.cfg.CountryCodePrefix)
			results, err := ctr.Click(ctx, controller.ControlPanelPage, controller.StartCampaignButton)
			if err != nil {
				return err
			}
			if err := wait(ctx, results); err != nil {
				return fmt.Errorf("campaign start failed: %w", err)
			}
			return nil
		},
	}
}
