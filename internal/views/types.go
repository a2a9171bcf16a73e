package views

import "github.com/yourusername/matchups/internal/models"

// Options controls how pages are rendered
type Options struct {
	Route          string // link target for player names
	ShowWinPct     bool
	WrapDocument   bool
	LegacyEscaping bool // emit names verbatim in markup and query strings
}

// PlayerIndexData is the player index page model
type PlayerIndexData struct {
	Players []string
}

// OpponentLine is one row of a player detail page
type OpponentLine struct {
	Name    string
	WinLoss string
}

// PlayerDetailData is the player detail page model
type PlayerDetailData struct {
	Player    string
	WinPct    string
	HasWinPct bool
	Opponents []OpponentLine
}

// NewPlayerIndexData builds the index page model from the sorted player names
func NewPlayerIndexData(players []string) PlayerIndexData {
	return PlayerIndexData{Players: players}
}

// NewPlayerDetailData builds the detail page model from a player summary
func NewPlayerDetailData(summary models.PlayerSummary) PlayerDetailData {
	lines := make([]OpponentLine, 0, len(summary.Opponents))
	for _, opponent := range summary.Opponents {
		lines = append(lines, OpponentLine{Name: opponent.Name, WinLoss: opponent.WinLoss})
	}
	return PlayerDetailData{
		Player:    summary.Player,
		WinPct:    summary.WinPct,
		HasWinPct: summary.HasWinPct,
		Opponents: lines,
	}
}
