package views

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchups/internal/models"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func fragmentOptions() Options {
	return Options{Route: "/matchups", ShowWinPct: true}
}

func aliceDetail() PlayerDetailData {
	return PlayerDetailData{
		Player:    "Alice",
		WinPct:    "66.67",
		HasWinPct: true,
		Opponents: []OpponentLine{{Name: "Bob", WinLoss: "2 - 1"}},
	}
}

func TestPlayerIndexFragment(t *testing.T) {
	r := NewRenderer(fragmentOptions())

	out := render(t, r.PlayerIndex(PlayerIndexData{Players: []string{"Alice", "Bob"}}))

	assert.Equal(t,
		"<title>Players</title><b>Player</b><br>"+
			"<a href=\"/matchups?name=Alice\">Alice</a><br>"+
			"<a href=\"/matchups?name=Bob\">Bob</a><br>",
		out)
}

func TestPlayerDetailFragment(t *testing.T) {
	r := NewRenderer(fragmentOptions())

	out := render(t, r.PlayerDetail(aliceDetail()))

	assert.Equal(t,
		"<title>Alice</title><b>Alice</b> (66.67%)<br>"+
			"<a href=\"/matchups?name=Bob\">Bob</a>: 2 - 1<br>",
		out)
}

func TestPlayerDetailWithoutWinPct(t *testing.T) {
	opts := fragmentOptions()
	opts.ShowWinPct = false
	r := NewRenderer(opts)

	out := render(t, r.PlayerDetail(aliceDetail()))
	assert.NotContains(t, out, "66.67")
	assert.Contains(t, out, "<b>Alice</b><br>")

	data := aliceDetail()
	data.HasWinPct = false
	out = render(t, NewRenderer(fragmentOptions()).PlayerDetail(data))
	assert.NotContains(t, out, "%)")
}

func TestPlayerNotFoundFragment(t *testing.T) {
	r := NewRenderer(fragmentOptions())
	assert.Equal(t, "<b>Player not Found</b>", render(t, r.PlayerNotFound()))
}

func TestWrappedDocument(t *testing.T) {
	opts := fragmentOptions()
	opts.WrapDocument = true
	r := NewRenderer(opts)

	out := render(t, r.PlayerDetail(aliceDetail()))
	assert.Equal(t,
		"<!doctype html><html><head><meta charset=\"utf-8\"><title>Alice</title></head>"+
			"<body><b>Alice</b> (66.67%)<br><a href=\"/matchups?name=Bob\">Bob</a>: 2 - 1<br></body></html>",
		out)
	assert.Equal(t, 1, strings.Count(out, "<title>"))

	out = render(t, r.PlayerNotFound())
	assert.Contains(t, out, "<title>Player not Found</title>")
	assert.Contains(t, out, "<body><b>Player not Found</b></body>")
}

func TestEscaping(t *testing.T) {
	name := "<i>O'Neil & co</i>"
	r := NewRenderer(fragmentOptions())

	out := render(t, r.PlayerIndex(PlayerIndexData{Players: []string{name}}))

	assert.NotContains(t, out, "<i>")
	assert.Contains(t, out, "&lt;i&gt;O&#39;Neil &amp; co&lt;/i&gt;</a>")
	assert.Contains(t, out, `href="/matchups?name=%3Ci%3EO%27Neil+%26+co%3C%2Fi%3E"`)
}

func TestLegacyEscaping(t *testing.T) {
	opts := fragmentOptions()
	opts.LegacyEscaping = true
	r := NewRenderer(opts)

	out := render(t, r.PlayerIndex(PlayerIndexData{Players: []string{"<i>Bob</i>"}}))
	assert.Contains(t, out, "<a href='/matchups?name=<i>Bob</i>'><i>Bob</i></a><br>")

	out = render(t, r.PlayerDetail(PlayerDetailData{Player: "<i>Bob</i>"}))
	assert.Equal(t, "<title><i>Bob</i></title><b><i>Bob</i></b><br>", out)
}

func TestEscapedTitleAndHeading(t *testing.T) {
	r := NewRenderer(fragmentOptions())

	out := render(t, r.PlayerDetail(PlayerDetailData{
		Player:    "A&B",
		Opponents: []OpponentLine{{Name: "C<D", WinLoss: "1 - 0"}},
	}))

	assert.Equal(t,
		"<title>A&amp;B</title><b>A&amp;B</b><br>"+
			"<a href=\"/matchups?name=C%3CD\">C&lt;D</a>: 1 - 0<br>",
		out)
}

func TestColonInNameStaysRelative(t *testing.T) {
	r := NewRenderer(fragmentOptions())

	out := render(t, r.PlayerIndex(PlayerIndexData{Players: []string{"javascript:x"}}))
	assert.Contains(t, out, `href="/matchups?name=javascript%3Ax"`)
}

func TestEmptyIndex(t *testing.T) {
	r := NewRenderer(fragmentOptions())
	assert.Equal(t, "<title>Players</title><b>Player</b><br>", render(t, r.PlayerIndex(PlayerIndexData{})))
}

func TestNewPlayerDetailData(t *testing.T) {
	data := NewPlayerDetailData(models.PlayerSummary{
		Player:    "Alice",
		WinPct:    "66.67",
		HasWinPct: true,
		Opponents: []models.OpponentSummary{{Name: "Bob", WinLoss: "2 - 1"}},
	})
	assert.Equal(t, aliceDetail(), data)

	assert.Equal(t, PlayerIndexData{Players: []string{"Alice"}}, NewPlayerIndexData([]string{"Alice"}))
}
