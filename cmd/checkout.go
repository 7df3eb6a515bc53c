package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/checkout"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/client"
)

var (
	payAPIURL      string
	payAmount      string
	payDescription string
	payInterval    time.Duration
	payTimeout     time.Duration
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Create a test payment and follow it until it completes",
	Long:  "Walk through the checkout flow in the terminal: enter an amount, scan the QR code, and watch the payment status.",
	RunE:  runPay,
}

func init() {
	rootCmd.AddCommand(payCmd)

	defaultAPIURL := os.Getenv("API_BASE_URL")
	if defaultAPIURL == "" {
		defaultAPIURL = "http://localhost:3000"
	}

	payCmd.Flags().StringVar(&payAPIURL, "api-url", defaultAPIURL, "Base URL of the payments API")
	payCmd.Flags().StringVar(&payAmount, "amount", "", "Amount in rubles (prompted when empty)")
	payCmd.Flags().StringVar(&payDescription, "description", "", "Optional payment description")
	payCmd.Flags().DurationVar(&payInterval, "interval", checkout.DefaultPollInterval, "Status polling interval")
	payCmd.Flags().DurationVar(&payTimeout, "timeout", 15*time.Minute, "Stop waiting for the payment after this long")
}

func runPay(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if payTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, payTimeout)
		defer cancel()
	}

	form := checkout.Form{Amount: payAmount, Description: payDescription}
	if strings.TrimSpace(form.Amount) == "" {
		var err error
		form, err = promptForm(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	flow := checkout.NewFlow(client.New(payAPIURL, 0), cmd.OutOrStdout(), payInterval)
	final, err := flow.Run(ctx, form)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logrus.WithField("state", flow.State().String()).Info("Stopped waiting for payment")
			return nil
		}
		return err
	}

	logrus.WithField("payment_id", final.ID).WithField("status", final.Status).Debug("Checkout finished")
	return nil
}

func promptForm(in io.Reader, out io.Writer) (checkout.Form, error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Amount (RUB): ")
	amount, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return checkout.Form{}, err
	}

	fmt.Fprint(out, "Description (optional): ")
	description, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return checkout.Form{}, err
	}

	return checkout.Form{Amount: strings.TrimSpace(amount), Description: strings.TrimSpace(description)}, nil
}
