package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/vendor-dash/internal/cli"
	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/spf13/cobra"
)

func storesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stores",
		Short: "Show dashboard totals and the stores you service",
		RunE:  runStores,
	}

	cmd.Flags().String("search", "", "only show stores whose name, location or id contains this text")

	return cmd
}

func runStores(cmd *cobra.Command, _ []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}

	overview, err := a.client.StoresOverview(cmd.Context())
	if err != nil {
		return err
	}

	search, _ := cmd.Flags().GetString("search")
	stores := filterStores(overview.Stores, search)

	out := cmd.OutOrStdout()
	totals := fmt.Sprintf("%s Stores: %d    Transactions: %d    %s Items: %d",
		cli.StoreIcon, overview.TotalStores,
		overview.TotalTransactions,
		cli.ScaleIcon, overview.TotalItems)
	if _, err := fmt.Fprintln(out, cli.RenderBox("Dashboard", totals)); err != nil {
		return err
	}

	if len(stores) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No stores match."))
		return err
	}

	rows := make([][]string, 0, len(stores))
	for _, s := range stores {
		rows = append(rows, []string{s.StoreID, s.StoreName, s.StoreLocation, strconv.Itoa(s.TransactionCount)})
	}
	_, err = fmt.Fprintln(out, cli.RenderTable([]string{"Store ID", "Name", "Location", "Transactions"}, rows))
	return err
}

// filterStores keeps stores whose name, location or id contains search,
// case-insensitively. An empty search keeps everything.
func filterStores(stores []model.Store, search string) []model.Store {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return stores
	}

	var out []model.Store
	for _, s := range stores {
		haystack := strings.ToLower(s.StoreName + " " + s.StoreLocation + " " + s.StoreID)
		if strings.Contains(haystack, search) {
			out = append(out, s)
		}
	}
	return out
}
