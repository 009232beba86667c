package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	f, ok := ParseFilter("overdue")
	assert.True(t, ok)
	assert.Equal(t, FilterOverdue, f)

	f, ok = ParseFilter("nonsense")
	assert.False(t, ok)
	assert.Equal(t, FilterAll, f)

	f, ok = ParseFilter("")
	assert.False(t, ok)
	assert.Equal(t, FilterAll, f)
}

func TestParseSort(t *testing.T) {
	s, ok := ParseSort("deadline")
	assert.True(t, ok)
	assert.Equal(t, SortDeadline, s)

	s, ok = ParseSort("title")
	assert.False(t, ok)
	assert.Equal(t, SortCreated, s)
}

func TestResolvePreferencesDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/teams/t1/dashboard", nil)
	w := httptest.NewRecorder()

	prefs := ResolvePreferences(w, r, false)

	assert.Equal(t, Preferences{Filter: FilterAll, Sort: SortCreated}, prefs)
	assert.Empty(t, w.Result().Cookies())
}

func TestResolvePreferencesQueryIsPersisted(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/teams/t1/dashboard?filter=mine&sort=deadline", nil)
	w := httptest.NewRecorder()

	prefs := ResolvePreferences(w, r, false)
	assert.Equal(t, Preferences{Filter: FilterMine, Sort: SortDeadline}, prefs)

	cookies := map[string]string{}
	for _, c := range w.Result().Cookies() {
		cookies[c.Name] = c.Value
	}
	require.Len(t, cookies, 2)
	assert.Equal(t, "mine", cookies[FilterCookie])
	assert.Equal(t, "deadline", cookies[SortCookie])
}

func TestResolvePreferencesFromCookies(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/teams/t1/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: FilterCookie, Value: "completed"})
	r.AddCookie(&http.Cookie{Name: SortCookie, Value: "garbage"})
	w := httptest.NewRecorder()

	prefs := ResolvePreferences(w, r, false)

	assert.Equal(t, FilterCompleted, prefs.Filter)
	assert.Equal(t, SortCreated, prefs.Sort)
	assert.Empty(t, w.Result().Cookies())
}
