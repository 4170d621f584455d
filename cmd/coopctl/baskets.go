package main

import (
	"github.com/spf13/cobra"

	"github.com/coopfood/coopconsole/internal/baskets"
)

type basketsRunner struct {
	engineFlags
	checked     bool
	concurrency int
}

type basketsFunc func(cmd *cobra.Command, svc baskets.Service, s *session, args []string) (any, error)

func newBasketsCmd() *cobra.Command {
	var r basketsRunner
	c := &cobra.Command{
		Use:   "baskets",
		Short: "preparation tree and checkbox commands",
	}
	r.setup(c)
	c.PersistentFlags().BoolVar(&r.checked, "checked", true, "target prepared state for toggle commands")
	c.PersistentFlags().IntVar(&r.concurrency, "concurrency", 8, "parallel writes for bulk toggles")

	c.AddCommand(
		&cobra.Command{
			Use:   "tree",
			Short: "period > article > buyer preparation tree",
			Args:  cobra.NoArgs,
			RunE: r.run(false, func(cmd *cobra.Command, svc baskets.Service, s *session, _ []string) (any, error) {
				return svc.Tree(cmd.Context(), r.group, s.criteria)
			}),
		},
		&cobra.Command{
			Use:   "toggle-item <order-id> <item-id>",
			Short: "set the prepared flag of one line item",
			Args:  cobra.ExactArgs(2),
			RunE: r.run(true, func(cmd *cobra.Command, svc baskets.Service, _ *session, args []string) (any, error) {
				if err := svc.ToggleItem(cmd.Context(), r.group, args[0], args[1], r.checked); err != nil {
					return nil, err
				}
				return map[string]any{"order_id": args[0], "item_id": args[1], "is_prepared": r.checked}, nil
			}),
		},
		&cobra.Command{
			Use:   "toggle-article <period-id|none> <article-id>",
			Short: "set the prepared flag of every visible line of an article",
			Args:  cobra.ExactArgs(2),
			RunE: r.run(true, func(cmd *cobra.Command, svc baskets.Service, s *session, args []string) (any, error) {
				return svc.ToggleArticle(cmd.Context(), r.group, periodArg(args[0]), args[1], r.checked, s.criteria)
			}),
		},
		&cobra.Command{
			Use:   "toggle-period <period-id|none>",
			Short: "set the prepared flag of every line in a period",
			Args:  cobra.ExactArgs(1),
			RunE: r.run(true, func(cmd *cobra.Command, svc baskets.Service, _ *session, args []string) (any, error) {
				return svc.TogglePeriod(cmd.Context(), r.group, periodArg(args[0]), r.checked)
			}),
		},
		&cobra.Command{
			Use:   "delete-item <order-id> <item-id>",
			Short: "remove a line item and print the updated tree",
			Args:  cobra.ExactArgs(2),
			RunE: r.run(true, func(cmd *cobra.Command, svc baskets.Service, s *session, args []string) (any, error) {
				return svc.DeleteItem(cmd.Context(), r.group, args[0], args[1], s.criteria)
			}),
		},
	)
	return c
}

// run prints whatever the command produced before returning its error, so a
// partial bulk failure still shows which lines were written.
func (r *basketsRunner) run(mutates bool, fn basketsFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := r.load()
		if err != nil {
			return err
		}
		svc, err := baskets.NewService(s.store, newLogger(cmd.ErrOrStderr()), nil,
			baskets.WithLocation(s.loc),
			baskets.WithLocale(r.locale),
			baskets.WithClock(s.now),
			baskets.WithConcurrency(r.concurrency),
		)
		if err != nil {
			return err
		}
		out, runErr := fn(cmd, svc, s, args)
		if mutates {
			if err := r.persist(s.store); err != nil {
				return err
			}
		}
		if out != nil {
			if err := printJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
		}
		return runErr
	}
}
