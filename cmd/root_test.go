package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"rank", "score", "report", "catalog", "serve", "decisions"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "atio-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)

	flag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestValidationMode(t *testing.T) {
	assert.Equal(t, "serve", validationMode(serveCmd))
	assert.Equal(t, "cli", validationMode(rankCmd))
	assert.Equal(t, "cli", validationMode(decisionsListCmd))
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestRankCommand_Flags(t *testing.T) {
	for _, name := range []string{"region", "sort", "readiness", "adoption", "sdg", "regional", "snap"} {
		assert.NotNil(t, rankCmd.Flags().Lookup(name), "rank should have --%s flag", name)
	}
	assert.Equal(t, "score", rankCmd.Flags().Lookup("sort").DefValue)
}

func TestReportCommand_Flags(t *testing.T) {
	for _, name := range []string{"ids", "role", "region", "zone", "objective", "crop", "json", "analysis", "save"} {
		assert.NotNil(t, reportCmd.Flags().Lookup(name), "report should have --%s flag", name)
	}
}

func TestCatalogCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range catalogCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "sdgs"} {
		assert.True(t, names[name], "catalog should have subcommand %q", name)
	}
}

func TestDecisionsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range decisionsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "delete"} {
		assert.True(t, names[name], "decisions should have subcommand %q", name)
	}
	assert.Equal(t, "50", decisionsListCmd.Flags().Lookup("limit").DefValue)
}

func TestSplitIDs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"1", []string{"1"}},
		{"1, 2,,3 ", []string{"1", "2", "3"}},
		{" , ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitIDs(tt.in), tt.in)
	}
}
