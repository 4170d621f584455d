package main

import (
	"github.com/spf13/cobra"

	"github.com/coopfood/coopconsole/internal/payments"
)

type paymentsRunner struct {
	engineFlags
}

type paymentsFunc func(cmd *cobra.Command, svc payments.Service, s *session, args []string) (any, error)

func newPaymentsCmd() *cobra.Command {
	var r paymentsRunner
	c := &cobra.Command{
		Use:   "payments",
		Short: "payment summaries per period, supplier, and buyer",
	}
	r.setup(c)

	c.AddCommand(
		&cobra.Command{
			Use:   "periods",
			Short: "one summary per period with buyers",
			Args:  cobra.NoArgs,
			RunE: r.run(false, func(cmd *cobra.Command, svc payments.Service, s *session, _ []string) (any, error) {
				return svc.ByPeriodList(cmd.Context(), r.group, s.criteria)
			}),
		},
		&cobra.Command{
			Use:   "period <period-id|none>",
			Short: "summary of a single period",
			Args:  cobra.ExactArgs(1),
			RunE: r.run(false, func(cmd *cobra.Command, svc payments.Service, s *session, args []string) (any, error) {
				return svc.PeriodSummary(cmd.Context(), r.group, periodArg(args[0]), s.criteria)
			}),
		},
		&cobra.Command{
			Use:   "overview",
			Short: "delivered periods rolled up per supplier",
			Args:  cobra.NoArgs,
			RunE: r.run(false, func(cmd *cobra.Command, svc payments.Service, s *session, _ []string) (any, error) {
				return svc.Overview(cmd.Context(), r.group, s.criteria)
			}),
		},
		&cobra.Command{
			Use:   "buyers",
			Short: "one cross-period row per buyer",
			Args:  cobra.NoArgs,
			RunE: r.run(false, func(cmd *cobra.Command, svc payments.Service, s *session, _ []string) (any, error) {
				return svc.ByBuyer(cmd.Context(), r.group, s.criteria)
			}),
		},
		&cobra.Command{
			Use:   "mark-paid <period-id|none> <buyer>",
			Short: "settle every order of a buyer in a period",
			Args:  cobra.ExactArgs(2),
			RunE: r.run(true, func(cmd *cobra.Command, svc payments.Service, _ *session, args []string) (any, error) {
				return svc.MarkAsPaid(cmd.Context(), r.group, periodArg(args[0]), args[1])
			}),
		},
		&cobra.Command{
			Use:   "mark-unpaid <period-id|none> <buyer>",
			Short: "clear the payments of a buyer in a period",
			Args:  cobra.ExactArgs(2),
			RunE: r.run(true, func(cmd *cobra.Command, svc payments.Service, _ *session, args []string) (any, error) {
				return svc.MarkAsUnpaid(cmd.Context(), r.group, periodArg(args[0]), args[1])
			}),
		},
	)
	return c
}

func (r *paymentsRunner) run(mutates bool, fn paymentsFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := r.load()
		if err != nil {
			return err
		}
		svc, err := payments.NewService(s.store, newLogger(cmd.ErrOrStderr()), nil,
			payments.WithLocation(s.loc),
			payments.WithLocale(r.locale),
			payments.WithClock(s.now),
		)
		if err != nil {
			return err
		}
		out, err := fn(cmd, svc, s, args)
		if err != nil {
			return err
		}
		if mutates {
			if err := r.persist(s.store); err != nil {
				return err
			}
		}
		return printJSON(cmd.OutOrStdout(), out)
	}
}
