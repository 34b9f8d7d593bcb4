package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/artem13815/resumepay/pkg/payment"
)

//nolint:gochecknoglobals // Cobra boilerplate
var signSecret string

//nolint:gochecknoglobals // Cobra boilerplate
var signCmd = &cobra.Command{
	Use:   "sign-webhook [payload.json]",
	Short: "Print the X-Signature value for a webhook body",
	Long: `Compute the HMAC signature the server expects in the X-Signature header.
Reads the payload from the file argument or from stdin.

Example:
  resumectl sign-webhook event.json --secret "$PAYMENT_WEBHOOK_SECRET"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSign,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringVar(&signSecret, "secret", os.Getenv("PAYMENT_WEBHOOK_SECRET"), "Webhook secret")
}

func runSign(cmd *cobra.Command, args []string) (err error) {
	if signSecret == "" {
		return errors.New("--secret is required")
	}
	var body []byte
	if len(args) == 1 {
		body, err = os.ReadFile(args[0])
	} else {
		body, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return errors.Wrap(err, "read payload")
	}
	_, err = payment.ParseEvent(body)
	if err != nil {
		return errors.Wrap(err, "payload")
	}
	fmt.Fprintln(cmd.OutOrStdout(), payment.Sign(body, signSecret))
	return nil
}
