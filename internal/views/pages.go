// Package views renders the matchup pages as templ components.
package views

import (
	"net/url"

	"github.com/a-h/templ"
)

//go:generate templ generate

// Page titles and fixed labels
const (
	IndexTitle      = "Players"
	IndexLabel      = "Player"
	NotFoundMessage = "Player not Found"
)

// Renderer builds page components for a fixed set of options
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer
func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// PlayerIndex renders the sorted list of player links
func (r *Renderer) PlayerIndex(data PlayerIndexData) templ.Component {
	return PlayerIndexPage(r.opts, data)
}

// PlayerDetail renders a player's heading and opponent lines
func (r *Renderer) PlayerDetail(data PlayerDetailData) templ.Component {
	return PlayerDetailPage(r.opts, data)
}

// PlayerNotFound renders the unknown player message
func (r *Renderer) PlayerNotFound() templ.Component {
	return PlayerNotFoundPage(r.opts)
}

// playerURL builds the link target with the name query-escaped
func playerURL(route, name string) templ.SafeURL {
	return templ.URL(route + "?name=" + url.QueryEscape(name))
}

// legacyLink is the unescaped link markup of the original pages
func legacyLink(route, name string) string {
	return "<a href='" + route + "?name=" + name + "'>" + name + "</a>"
}

// winPctSuffix is the " (66.67%)" heading suffix, empty when hidden or absent
func winPctSuffix(opts Options, data PlayerDetailData) string {
	if !opts.ShowWinPct || !data.HasWinPct {
		return ""
	}
	return " (" + data.WinPct + "%)"
}
