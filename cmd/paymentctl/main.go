// Command paymentctl is the operator tool for the payment service: it
// replays gateway callbacks against a sandbox and drives manual
// fulfillment through the admin API.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
)

var Version = "dev"

type globalOptions struct {
	apiURL  string
	adminID string
	timeout time.Duration
}

func main() {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "paymentctl",
		Short:         "Operate the license payment service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("PAYMENT_API_URL", "http://localhost:8080"),
		"Base URL of the payment service")
	rootCmd.PersistentFlags().StringVar(&opts.adminID, "admin-id", os.Getenv("PAYMENT_ADMIN_ID"),
		"Admin user id sent as X-User-ID")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(callbackCmd(opts))
	rootCmd.AddCommand(unfulfilledCmd(opts))
	rootCmd.AddCommand(fulfillCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// do sends req and returns the status and a copy of the body.
func do(req *fasthttp.Request, timeout time.Duration) (int, []byte, error) {
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := fasthttp.DoTimeout(req, resp, timeout); err != nil {
		return 0, nil, fmt.Errorf("request %s: %w", req.URI().String(), err)
	}
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}
