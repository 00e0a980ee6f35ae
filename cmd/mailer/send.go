package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mainmatter/contact-mailer/app"
	"github.com/mainmatter/contact-mailer/internal/email"
)

type sendOptions struct {
	name    string
	email   string
	message string
	service string
	company string
}

func newSendCmd() *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Deliver a single contact submission using the environment configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := app.New()
			if err != nil {
				return err
			}
			defer application.Close()

			outcome := application.ContactService.Submit(cmd.Context(), opts.submission(cmd))
			return reportOutcome(cmd, outcome)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "submitter name")
	cmd.Flags().StringVar(&opts.email, "email", "", "submitter email (reply-to)")
	cmd.Flags().StringVar(&opts.message, "message", "", "message body")
	cmd.Flags().StringVar(&opts.service, "service", "", "requested service")
	cmd.Flags().StringVar(&opts.company, "company", "", "submitter company")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// submission leaves service and company unset unless their flags were given.
func (o *sendOptions) submission(cmd *cobra.Command) email.Submission {
	sub := email.Submission{
		Name:    o.name,
		Email:   o.email,
		Message: o.message,
	}
	if cmd.Flags().Changed("service") {
		sub.Service = &o.service
	}
	if cmd.Flags().Changed("company") {
		sub.Company = &o.company
	}
	return sub
}

func reportOutcome(cmd *cobra.Command, outcome email.Outcome) error {
	switch outcome.Kind {
	case email.Accepted:
		fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", http.StatusOK, outcome.Kind)
		return nil
	case email.Rejected:
		return fmt.Errorf("sendgrid rejected the message with status %d", outcome.Status)
	default:
		return fmt.Errorf("failed to reach sendgrid: %w", outcome.Err)
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the configured SendGrid API key is valid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := app.New()
			if err != nil {
				return err
			}
			defer application.Close()

			validator, err := application.KeyValidator()
			if err != nil {
				return err
			}
			if err := validator.ValidateAPIKey(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "SendGrid API key is valid")
			return nil
		},
	}
}
