package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// WinPctKey is the reserved player record key holding the aggregate win percentage
const WinPctKey = "win_pct"

// OpponentResult represents a player's win/loss counts against one opponent
type OpponentResult struct {
	Win  *int `json:"win"`
	Loss *int `json:"loss"`
}

// GetWins returns the win count or 0 if absent
func (o OpponentResult) GetWins() int {
	if o.Win == nil {
		return 0
	}
	return *o.Win
}

// GetLosses returns the loss count or 0 if absent
func (o OpponentResult) GetLosses() int {
	if o.Loss == nil {
		return 0
	}
	return *o.Loss
}

// WinLoss formats an opponent result as "<wins> - <losses>"
func WinLoss(result OpponentResult) string {
	return strconv.Itoa(result.GetWins()) + " - " + strconv.Itoa(result.GetLosses())
}

// PlayerRecord holds the aggregate win percentage and per-opponent results for a player
type PlayerRecord struct {
	WinPct    *decimal.Decimal
	Opponents map[string]OpponentResult
}

// UnmarshalJSON splits the reserved win_pct key from the opponent entries
func (p *PlayerRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.WinPct = nil
	p.Opponents = make(map[string]OpponentResult, len(raw))
	for key, value := range raw {
		if key == WinPctKey {
			var pct decimal.Decimal
			if err := json.Unmarshal(value, &pct); err != nil {
				return fmt.Errorf("invalid %s: %w", WinPctKey, err)
			}
			p.WinPct = &pct
			continue
		}

		var result OpponentResult
		if err := json.Unmarshal(value, &result); err != nil {
			return fmt.Errorf("invalid result against %q: %w", key, err)
		}
		p.Opponents[key] = result
	}
	return nil
}

// HasWinPct reports whether the record carries an aggregate win percentage
func (p PlayerRecord) HasWinPct() bool {
	return p.WinPct != nil
}

// FormatWinPct returns the win percentage rounded to two decimal places
func (p PlayerRecord) FormatWinPct() string {
	if p.WinPct == nil {
		return ""
	}
	return p.WinPct.StringFixed(2)
}

// OpponentNames returns the opponent names in ascending byte order
func (p PlayerRecord) OpponentNames() []string {
	names := make([]string, 0, len(p.Opponents))
	for name := range p.Opponents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MatchupTable maps a normalized player name to its record
type MatchupTable map[string]PlayerRecord

// PlayerNames returns every player name in ascending byte order
func (t MatchupTable) PlayerNames() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup normalizes the query name and returns the matching record.
// Stored keys are used as-is.
func (t MatchupTable) Lookup(query string) (string, PlayerRecord, error) {
	name := NormalizeName(query)
	record, ok := t[name]
	if !ok {
		return name, PlayerRecord{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return name, record, nil
}

// ParseMatchupTable decodes a matchup document
func ParseMatchupTable(data []byte) (MatchupTable, error) {
	var table MatchupTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if table == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrDataUnavailable)
	}
	return table, nil
}

// OpponentSummary is one formatted head-to-head record
type OpponentSummary struct {
	Name    string
	WinLoss string
}

// PlayerSummary is a player's formatted win percentage and opponent records
type PlayerSummary struct {
	Player    string
	WinPct    string
	HasWinPct bool
	Opponents []OpponentSummary
}

// Summarize formats the record of the named player, opponents in ascending order
func (p PlayerRecord) Summarize(name string) PlayerSummary {
	opponents := p.OpponentNames()
	lines := make([]OpponentSummary, 0, len(opponents))
	for _, opponent := range opponents {
		lines = append(lines, OpponentSummary{
			Name:    opponent,
			WinLoss: WinLoss(p.Opponents[opponent]),
		})
	}
	return PlayerSummary{
		Player:    name,
		WinPct:    p.FormatWinPct(),
		HasWinPct: p.HasWinPct(),
		Opponents: lines,
	}
}
