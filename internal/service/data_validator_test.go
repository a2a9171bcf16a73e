package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchups/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func result(win, loss int) models.OpponentResult {
	return models.OpponentResult{Win: ptr(win), Loss: ptr(loss)}
}

func newTestValidator() *DataValidator {
	return NewDataValidator(nil)
}

func assertFinding(t *testing.T, findings []string, expectValid bool, shouldHave string) {
	t.Helper()
	if expectValid {
		require.Empty(t, findings, "expected no findings for valid input")
		return
	}

	require.NotEmpty(t, findings, "expected validation findings")
	for _, f := range findings {
		if strings.Contains(f, shouldHave) {
			return
		}
	}
	t.Fatalf("expected finding containing %q, got %v", shouldHave, findings)
}

func TestValidatePlayer(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name        string
		table       models.MatchupTable
		player      string
		expectValid bool
		shouldHave  string
	}{
		{
			name: "symmetric records",
			table: models.MatchupTable{
				"Alice": {WinPct: ptr(decimal.RequireFromString("66.666")), Opponents: map[string]models.OpponentResult{"Bob": result(2, 1)}},
				"Bob":   {Opponents: map[string]models.OpponentResult{"Alice": result(1, 2)}},
			},
			player:      "Alice",
			expectValid: true,
		},
		{
			name:       "unnormalized key",
			table:      models.MatchupTable{"McDonald": {}},
			player:     "McDonald",
			shouldHave: "not in normalized form",
		},
		{
			name:       "win_pct above range",
			table:      models.MatchupTable{"Alice": {WinPct: ptr(decimal.NewFromInt(150))}},
			player:     "Alice",
			shouldHave: "win_pct out of range",
		},
		{
			name:       "negative tally",
			table:      models.MatchupTable{"Alice": {Opponents: map[string]models.OpponentResult{"Bob": result(-1, 0)}}, "Bob": {}},
			player:     "Alice",
			shouldHave: "negative tally -1 - 0",
		},
		{
			name:       "self matchup",
			table:      models.MatchupTable{"Alice": {Opponents: map[string]models.OpponentResult{"Alice": result(1, 1)}}},
			player:     "Alice",
			shouldHave: "against itself",
		},
		{
			name:       "opponent without record",
			table:      models.MatchupTable{"Alice": {Opponents: map[string]models.OpponentResult{"Zed": result(1, 0)}}},
			player:     "Alice",
			shouldHave: "Alice vs Zed: opponent has no record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := validator.ValidatePlayer(tt.table, tt.player)
			assertFinding(t, findings, tt.expectValid, tt.shouldHave)
		})
	}
}

func TestValidateTableOrder(t *testing.T) {
	table := models.MatchupTable{
		"Zoe":   {WinPct: ptr(decimal.NewFromInt(-1))},
		"Alice": {WinPct: ptr(decimal.NewFromInt(101))},
	}

	findings := newTestValidator().ValidateTable(table)

	require.Len(t, findings, 2)
	assert.True(t, strings.HasPrefix(findings[0], "Alice:"))
	assert.True(t, strings.HasPrefix(findings[1], "Zoe:"))
}

func TestWinPctRange(t *testing.T) {
	validator := newTestValidator()

	assert.True(t, validator.IsValidWinPct(decimal.Zero))
	assert.True(t, validator.IsValidWinPct(decimal.NewFromInt(100)))
	assert.False(t, validator.IsValidWinPct(decimal.RequireFromString("100.01")))
	assert.False(t, validator.IsValidWinPct(decimal.RequireFromString("-0.5")))
}

func TestReachableName(t *testing.T) {
	validator := newTestValidator()

	assert.True(t, validator.IsReachableName("Alice"))
	assert.False(t, validator.IsReachableName("alice"))
	assert.False(t, validator.IsReachableName("McDonald"))
	assert.False(t, validator.IsReachableName(""))
}
