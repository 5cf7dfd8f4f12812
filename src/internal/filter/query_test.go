// FILE: src/internal/filter/query_test.go
package filter

import (
	"net/url"
	"testing"

	"instaroid/src/internal/core"

	"github.com/stretchr/testify/assert"
)

var sample = []core.LogEntry{
	{Level: "INFO", Message: "User logged in", Component: "Login", SessionID: "s1"},
	{Level: "ERROR", Message: "API call failed", Component: "UserProfile", SessionID: "s1"},
	{Level: "WARN", Message: "Slow performance detected", Component: "PolaroidGallery",
		Data: core.Data{"clientInfo": map[string]any{"sessionId": "s2"}}},
	{Level: "INFO", Message: "Gallery opened", Component: "PolaroidGallery"},
}

func TestQuery_Apply(t *testing.T) {
	testCases := []struct {
		name  string
		query Query
		want  []string
	}{
		{"All", Query{}, []string{"User logged in", "API call failed", "Slow performance detected", "Gallery opened"}},
		{"Level", Query{Level: "INFO"}, []string{"User logged in", "Gallery opened"}},
		{"TextMatchesMessage", Query{Text: "FAILED"}, []string{"API call failed"}},
		{"TextMatchesComponent", Query{Text: "polaroid"}, []string{"Slow performance detected", "Gallery opened"}},
		{"Component", Query{Component: "Login"}, []string{"User logged in"}},
		{"LimitKeepsNewest", Query{Limit: 2}, []string{"Slow performance detected", "Gallery opened"}},
		{"Combined", Query{Level: "WARN", Text: "gallery"}, []string{"Slow performance detected"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.query.Apply(sample)
			messages := make([]string, len(got))
			for i, e := range got {
				messages[i] = e.Message
			}
			assert.Equal(t, tc.want, messages)
		})
	}
}

func TestParseQuery(t *testing.T) {
	v := url.Values{"level": {"error"}, "q": {"api"}, "limit": {"5"}}
	q := ParseQuery(v.Get)
	assert.Equal(t, Query{Level: "ERROR", Text: "api", Limit: 5}, q)

	v = url.Values{"level": {"all"}, "limit": {"-3"}}
	assert.Equal(t, Query{}, ParseQuery(v.Get))
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Levels["INFO"])
	assert.Equal(t, 1, s.Levels["ERROR"])
	assert.Equal(t, 0, s.Levels["DEBUG"])
	assert.Equal(t, []string{"Login", "PolaroidGallery", "UserProfile"}, s.Components)
	assert.Equal(t, 2, s.Sessions)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Components)
}
