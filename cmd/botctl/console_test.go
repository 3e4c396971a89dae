package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"storefront-bot/internal/engine"
	"storefront-bot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want engine.Event
		ok   bool
	}{
		{"hi", engine.Event{UserID: "u", Kind: engine.KindText, Text: "hi"}, true},
		{"  Tripoli, Street 5 ", engine.Event{UserID: "u", Kind: engine.KindText, Text: "Tripoli, Street 5"}, true},
		{"/b LANG_EN", engine.Event{UserID: "u", Kind: engine.KindButton, OptionID: "LANG_EN"}, true},
		{"/l faq_general", engine.Event{UserID: "u", Kind: engine.KindList, OptionID: "faq_general"}, true},
		{"/bogus", engine.Event{UserID: "u", Kind: engine.KindText, Text: "/bogus"}, true},
		{"   ", engine.Event{}, false},
	}
	for _, tt := range tests {
		got, ok := parseLine("u", tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestRenderIntent(t *testing.T) {
	buttons := engine.Buttons("Pick one", engine.Option{ID: "MEN", Title: "Men"})
	assert.Equal(t, "bot> Pick one\n     /b MEN  Men\n", renderIntent(buttons))

	list := engine.List("Products", "Choose\nplease", "Prices in LYD", "View",
		engine.Option{ID: "4", Title: "ABC Perfume", Description: "45.00 LYD"})
	assert.Equal(t,
		"bot> # Products\nbot> Choose\n     please\n     /l 4  ABC Perfume - 45.00 LYD\n     (Prices in LYD)\n",
		renderIntent(list))
}

func TestChatPlacesOrder(t *testing.T) {
	dir := t.TempDir()
	dbDriver = store.DriverSQLite
	dbURL = filepath.Join(dir, "bot.db")
	invoiceDir = filepath.Join(dir, "invoices")
	const phone = "218910000050"

	script := strings.Join([]string{
		"hi", "/b LANG_EN", "/b ORDER", "/b MEN", "/b perfumes", "/b 1", "2",
		"/b CHECKOUT", "Ali", "Tripoli", "near the port", "yes", "/b CONFIRM",
	}, "\n")

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(script))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"chat", "--db", dbURL, "--invoice-dir", invoiceDir, "--phone", phone})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Welcome to Confetti London LY")
	assert.Contains(t, out.String(), "Total: 100.00 LYD")
	assert.Contains(t, out.String(), "[document] Invoice for order P")

	st, err := store.NewStore(store.DriverSQLite, dbURL)
	require.NoError(t, err)
	defer st.Close()
	orders, err := st.ListOrdersByUser(context.Background(), phone)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(10000), orders[0].TotalAmount)
}
