package events

import "sort"

// Resolved names the buckets the pipeline reads from.
type Resolved struct {
	AFK    string
	Window string
	Other  []string
}

// Resolve picks the single afkstatus bucket and the single currentwindow
// bucket. Any other count for either type is a *ConfigurationError.
func Resolve(buckets map[string]Bucket) (Resolved, error) {
	ids := make([]string, 0, len(buckets))
	for id := range buckets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var r Resolved
	var afk, window []string
	for _, id := range ids {
		switch buckets[id].Type {
		case TypeAFK:
			afk = append(afk, id)
		case TypeWindow:
			window = append(window, id)
		default:
			r.Other = append(r.Other, id)
		}
	}

	if len(afk) != 1 {
		return Resolved{}, &ConfigurationError{Type: TypeAFK, Count: len(afk)}
	}
	if len(window) != 1 {
		return Resolved{}, &ConfigurationError{Type: TypeWindow, Count: len(window)}
	}
	r.AFK = afk[0]
	r.Window = window[0]
	return r, nil
}
