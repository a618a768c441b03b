// Package theme maps presentation theme names to stylesheets.
package theme

import (
	"log/slog"
	"sort"

	"github.com/dgallion1/slidedeck/internal/deck"
)

// Default is the theme applied when a presentation names none.
const Default = "default"

const stylesheetRoot = "/assets/reveal/theme/"

// stylesheets maps each theme to its stylesheet. The default theme uses the
// engine's base stylesheet only.
var stylesheets = map[string]string{
	"default":   "",
	"dark":      stylesheetRoot + "black.css",
	"moon":      stylesheetRoot + "moon.css",
	"white":     stylesheetRoot + "white.css",
	"league":    stylesheetRoot + "league.css",
	"beige":     stylesheetRoot + "beige.css",
	"sky":       stylesheetRoot + "sky.css",
	"night":     stylesheetRoot + "night.css",
	"serif":     stylesheetRoot + "serif.css",
	"simple":    stylesheetRoot + "simple.css",
	"solarized": stylesheetRoot + "solarized.css",
}

// Lookup returns the stylesheet for name. ok is false for unknown themes.
func Lookup(name string) (href string, ok bool) {
	href, ok = stylesheets[name]
	return href, ok
}

// Names returns the supported theme names in sorted order.
func Names() []string {
	names := make([]string, 0, len(stylesheets))
	for n := range stylesheets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply switches the stage to the named theme. An empty name selects the
// default. Unknown themes are logged and leave the stage unchanged.
func Apply(stage *deck.Stage, name string, log *slog.Logger) bool {
	if name == "" {
		name = Default
	}
	href, ok := Lookup(name)
	if !ok {
		log.Warn("theme not supported", "theme", name)
		return false
	}

	stage.SetBodyClass("theme-" + name)
	stage.SetThemeLink(href)
	log.Debug("theme applied", "theme", name, "href", href)
	return true
}
