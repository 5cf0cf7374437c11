package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/billbatista/acasinha-splits/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSummary(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = []config.SeedExpense{
		{Description: "Dinner", Amount: "1000000", PaidBy: "U3", Participants: []string{"U1", "U2", "U3", "U4", "U5"}},
		{Description: "Movie tickets", Amount: "500000", PaidBy: "U1", Participants: []string{"U1", "U5"}},
	}

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, cfg))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Le Duy Duc")
	assert.Contains(t, lines[0], "is owed")
	assert.Contains(t, lines[0], "800000 VND")
	assert.Contains(t, lines[4], "Ta Ha Trang")
	assert.Contains(t, lines[4], "450000 VND")
}

func TestPrintSummarySettled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, config.Default()))
	assert.Contains(t, buf.String(), "Everyone is settled")
}

func TestPrintSummaryInvalidSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = []config.SeedExpense{{Description: "x", Amount: "10", PaidBy: "nobody", Participants: []string{"U1"}}}

	var buf bytes.Buffer
	assert.Error(t, printSummary(&buf, cfg))
}

func TestHashTokenCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"hash-token", "secret"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(buf.String(), "$2a$"))
}
