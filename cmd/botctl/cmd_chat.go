package main

import (
	"bufio"
	"fmt"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/engine"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/invoice"
	"storefront-bot/internal/service"
	"storefront-bot/internal/session"

	"github.com/spf13/cobra"
)

var (
	chatPhone  string
	invoiceDir string
)

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	cat := catalog.MustDefault()
	eng := engine.New(cat, i18n.MustLoad())
	messenger := newConsoleMessenger(cmd.OutOrStdout())
	sessions := session.NewStore()

	orders := service.NewOrderService(st, nil, invoice.NewGenerator(invoiceDir, "Confetti London LY", cat.FormatPrice), messenger, eng)
	support := service.NewSupportService(st, nil, nil)
	conversations := service.NewConversationService(eng, sessions, messenger, orders, support, nil)
	defer orders.Wait()

	fmt.Fprintf(cmd.OutOrStdout(), "Chatting as %s. Send \"hi\" to start, Ctrl-D to quit.\n", chatPhone)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		ev, ok := parseLine(chatPhone, scanner.Text())
		if !ok {
			continue
		}
		if err := conversations.HandleEvent(ctx, ev); err != nil {
			return err
		}
	}
	return scanner.Err()
}
