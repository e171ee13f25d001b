package main

import (
	"fmt"
	"os"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/gateway"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
)

func callbackCmd(opts *globalOptions) *cobra.Command {
	var (
		configPath  string
		status      string
		amount      string
		paymentType string
		reasonCode  string
		reasonMsg   string
	)

	cmd := &cobra.Command{
		Use:   "callback <order-number>",
		Short: "Sign and post a gateway callback, as the gateway would",
		Long: `Builds a callback for the given order, signs it with the merchant
credentials from the service config and posts it to /callback/gateway.
Meant for sandbox and staging environments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = os.Getenv("CONFIG_PATH")
			}
			cfg, err := config.LoadPath(configPath)
			if err != nil {
				return err
			}

			total, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}

			signer, err := gateway.NewSigner(gateway.Credentials{
				MerchantID:   cfg.Gateway.MerchantID,
				MerchantKey:  cfg.Gateway.MerchantKey,
				MerchantSalt: cfg.Gateway.MerchantSalt,
			})
			if err != nil {
				return err
			}

			cb := &gateway.Callback{
				MerchantID:  signer.MerchantID(),
				OrderNumber: args[0],
				Status:      status,
				TotalAmount: gateway.FormatMinor(total),
				PaymentType: paymentType,
				TestMode:    "1",
			}
			if status != "success" {
				cb.FailedReasonCode = reasonCode
				cb.FailedReasonMsg = reasonMsg
			}
			if cb.Hash, err = signer.Sign(gateway.KindCallback, cb.SignatureFields()); err != nil {
				return err
			}

			req := fasthttp.AcquireRequest()
			defer fasthttp.ReleaseRequest(req)
			req.SetRequestURI(opts.apiURL + "/callback/gateway")
			req.Header.SetMethod(fasthttp.MethodPost)
			req.Header.SetContentType("application/x-www-form-urlencoded")
			req.SetBodyString(cb.Form().Encode())

			code, body, err := do(req, opts.timeout)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", code, body)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Service config file with the merchant credentials (default $CONFIG_PATH)")
	cmd.Flags().StringVar(&status, "status", "success", "Reported status: success or failed")
	cmd.Flags().StringVar(&amount, "amount", "", "Charged amount, e.g. 1840.00")
	cmd.Flags().StringVar(&paymentType, "payment-type", "card", "Reported payment type")
	cmd.Flags().StringVar(&reasonCode, "reason-code", "2", "Failure code for a failed callback")
	cmd.Flags().StringVar(&reasonMsg, "reason", "Declined in sandbox", "Failure message for a failed callback")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
