package main

import (
	"fmt"
	"text/tabwriter"

	"storefront-bot/internal/catalog"

	"github.com/spf13/cobra"
)

var ordersPhone string

func runOrders(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	orders, err := st.ListOrdersByUser(ctx, ordersPhone)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No orders for %s\n", ordersPhone)
		return nil
	}

	cat := catalog.MustDefault()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSTATUS\tTOTAL\tCREATED\tITEMS")
	for _, o := range orders {
		items, err := st.GetOrderItems(ctx, o.OrderNumber)
		if err != nil {
			return err
		}
		var qty int
		for _, it := range items {
			qty += it.Quantity
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			o.OrderNumber, o.Status, cat.FormatPrice(catalog.Money(o.TotalAmount)),
			o.CreatedAt.Format("2006-01-02 15:04"), qty)
	}
	return w.Flush()
}
