package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	httpt "github.com/liwayazilim/liwamenu-backend-sub000/internal/transport/http"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
)

func unfulfilledCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "unfulfilled",
		Short: "List paid payments whose license was not issued",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := adminRequest(opts, fasthttp.MethodGet,
				"/api/v1/admin/payments/unfulfilled?limit="+strconv.Itoa(limit))
			if err != nil {
				return err
			}
			defer fasthttp.ReleaseRequest(req)

			var list httpt.PaymentListResponse
			if err = call(req, opts, &list); err != nil {
				return err
			}
			printPayments(cmd.OutOrStdout(), list.Payments)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum rows")

	return cmd
}

func fulfillCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fulfill <order-number>",
		Short: "Retry license fulfillment for a paid payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := adminRequest(opts, fasthttp.MethodPost,
				"/api/v1/admin/payments/"+args[0]+"/fulfill")
			if err != nil {
				return err
			}
			defer fasthttp.ReleaseRequest(req)

			var payment entity.Payment
			if err = call(req, opts, &payment); err != nil {
				return err
			}
			printPayments(cmd.OutOrStdout(), []*entity.Payment{&payment})
			return nil
		},
	}
}

func adminRequest(opts *globalOptions, method, path string) (*fasthttp.Request, error) {
	if opts.adminID == "" {
		return nil, errors.New("--admin-id or PAYMENT_ADMIN_ID is required")
	}

	req := fasthttp.AcquireRequest()
	req.SetRequestURI(opts.apiURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("X-User-ID", opts.adminID)
	req.Header.Set("X-User-Role", string(entity.RoleAdmin))
	return req, nil
}

func call(req *fasthttp.Request, opts *globalOptions, out any) error {
	code, body, err := do(req, opts.timeout)
	if err != nil {
		return err
	}
	if code != fasthttp.StatusOK {
		var apiErr httpt.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Reason != "" {
				return fmt.Errorf("%d: %s: %s", code, apiErr.Error, apiErr.Reason)
			}
			return fmt.Errorf("%d: %s", code, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d", code)
	}
	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func printPayments(w io.Writer, payments []*entity.Payment) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tOPERATION\tAMOUNT\tSTATUS\tFULFILLMENT\tATTEMPTS\tERROR")
	for _, p := range payments {
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%d\t%s\n",
			p.OrderNumber, p.Operation, p.Amount.StringFixed(2), p.Currency,
			p.Status, p.FulfillmentStatus, p.FulfillmentAttempts, p.FulfillmentError)
	}
	_ = tw.Flush()
}
