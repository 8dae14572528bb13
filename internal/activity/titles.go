package activity

import "strings"

// titleRule normalizes a window title for one application.
type titleRule func(windowTitle string) string

// titleRules is keyed by the window watcher's "app" field. Applications
// without an entry use defaultTitle.
var titleRules = map[string]titleRule{
	"firefox":  firefoxTitle,
	"VSCodium": vscodiumTitle,
}

const (
	firefoxSuffix   = " — Mozilla Firefox"
	vscodiumSuffix  = " - VSCodium"
	vscodiumUnsaved = "● "
)

// Title derives the normalized application identity from a window event payload.
func Title(data map[string]any) string {
	app, _ := data["app"].(string)
	title, _ := data["title"].(string)

	if rule, ok := titleRules[app]; ok {
		return rule(title)
	}
	return defaultTitle(app, title)
}

func defaultTitle(app, title string) string {
	return app + ": " + title
}

func firefoxTitle(title string) string {
	page := strings.TrimSuffix(title, firefoxSuffix)
	if page == "" || page == "Mozilla Firefox" {
		return "Firefox"
	}
	return "Firefox: " + page
}

func vscodiumTitle(title string) string {
	file := strings.TrimPrefix(title, vscodiumUnsaved)
	file = strings.TrimSuffix(file, vscodiumSuffix)
	return "VSCodium: " + file
}
