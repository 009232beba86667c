package dashboard

import (
	"net/http"
)

// Cookie names holding the per-browser dashboard selection.
const (
	FilterCookie = "horizons_dashboard_filter"
	SortCookie   = "horizons_dashboard_sort"
)

const preferenceMaxAge = 365 * 24 * 60 * 60

func ParseFilter(s string) (Filter, bool) {
	switch f := Filter(s); f {
	case FilterAll, FilterMine, FilterShared, FilterCompleted, FilterNotCompleted, FilterOverdue:
		return f, true
	}
	return FilterAll, false
}

func ParseSort(s string) (Sort, bool) {
	switch v := Sort(s); v {
	case SortCreated, SortCompleted, SortDeadline:
		return v, true
	}
	return SortCreated, false
}

// Preferences is the persisted filter and sort selection.
type Preferences struct {
	Filter Filter `json:"filter"`
	Sort   Sort   `json:"sort"`
}

// ResolvePreferences picks the filter and sort for a dashboard request.
// A valid query value wins and is written back to its cookie; otherwise the
// cookie is used; otherwise the defaults "all" and "created" apply.
func ResolvePreferences(w http.ResponseWriter, r *http.Request, secure bool) Preferences {
	q := r.URL.Query()

	filter, ok := ParseFilter(q.Get("filter"))
	if ok {
		setPreference(w, FilterCookie, string(filter), secure)
	} else {
		filter = FilterAll
		if c, err := r.Cookie(FilterCookie); err == nil {
			filter, _ = ParseFilter(c.Value)
		}
	}

	sort, ok := ParseSort(q.Get("sort"))
	if ok {
		setPreference(w, SortCookie, string(sort), secure)
	} else {
		sort = SortCreated
		if c, err := r.Cookie(SortCookie); err == nil {
			sort, _ = ParseSort(c.Value)
		}
	}

	return Preferences{Filter: filter, Sort: sort}
}

func setPreference(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   preferenceMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
