// Command botctl is the operator CLI for the storefront bot: it creates the
// schema, lists a customer's orders and drives the conversation engine from
// a terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"storefront-bot/internal/store"
	"storefront-bot/internal/util"

	"github.com/spf13/cobra"
)

var (
	dbDriver string
	dbURL    string
)

var rootCmd = &cobra.Command{
	Use:   "botctl",
	Short: "Operate the storefront WhatsApp bot",
	Long: `botctl works against the bot's order store without the WhatsApp transport.

Available subcommands:
  migrate - Create the schema
  chat    - Talk to the bot from this terminal
  orders  - List a customer's orders`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return util.InitLogger("console")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		util.SyncLogger()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the order store schema",
	RunE:  runMigrate,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the bot as a customer",
	Long: `Reads one message per line from stdin and prints the bot's replies.

  plain text   sends a text message
  /b ID        taps the button with id ID
  /l ID        picks the list row with id ID

Orders are stored in the configured database and invoices are written to
--invoice-dir.`,
	RunE: runChat,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List a customer's orders, newest first",
	RunE:  runOrders,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", store.DriverSQLite, "Database driver (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "storefront.db", "Database URL or sqlite file")

	chatCmd.Flags().StringVar(&chatPhone, "phone", "218910000000", "Customer phone number used as the user id")
	chatCmd.Flags().StringVar(&invoiceDir, "invoice-dir", "invoices", "Directory for generated invoices")
	ordersCmd.Flags().StringVar(&ordersPhone, "phone", "", "Customer phone number")
	_ = ordersCmd.MarkFlagRequired("phone")

	rootCmd.AddCommand(migrateCmd, chatCmd, ordersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore connects and makes sure the schema exists.
func openStore(ctx context.Context) (*store.Store, error) {
	st, err := store.NewStore(dbDriver, dbURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%s)\n", dbDriver)
	return nil
}
