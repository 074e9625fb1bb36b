package panel

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/chatlog/internal/archive"
	pErrors "github.com/zhubert/chatlog/internal/errors"
)

type fakeSource struct {
	transcript *archive.Transcript
	results    []archive.SearchResult
	stats      archive.Statistics
	cost       []archive.CostPoint
	activity   archive.Activity
	hourly     []archive.HourBucket
	err        error
	hourlyErr  error

	searched []string
	roles    []string
}

func (f *fakeSource) Messages(_ context.Context, id string) (*archive.Transcript, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transcript, nil
}

func (f *fakeSource) Search(_ context.Context, query string) ([]archive.SearchResult, error) {
	f.searched = append(f.searched, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSource) Statistics(context.Context) (archive.Statistics, error) {
	return f.stats, f.err
}

func (f *fakeSource) AICost(context.Context) ([]archive.CostPoint, error) {
	return f.cost, f.err
}

func (f *fakeSource) Activity(context.Context) (archive.Activity, error) {
	return f.activity, f.err
}

func (f *fakeSource) ActivityLast24h(_ context.Context, role string) ([]archive.HourBucket, error) {
	f.roles = append(f.roles, role)
	return f.hourly, f.hourlyErr
}

type fakeRegion struct {
	shown []Content
}

func (r *fakeRegion) Show(c Content) {
	r.shown = append(r.shown, c)
}

func (r *fakeRegion) last() Content {
	if len(r.shown) == 0 {
		return Content{}
	}
	return r.shown[len(r.shown)-1]
}

type fakeSelection struct {
	cleared int
}

func (s *fakeSelection) Clear() { s.cleared++ }

type fakeLinker struct{}

func (fakeLinker) SourceURL(id string) string { return "https://chat.example/c/" + id }

func newTestLoader(src *fakeSource) (*Loader, *fakeRegion, *fakeSelection) {
	region := &fakeRegion{}
	sel := &fakeSelection{}
	return New(src, region, sel, fakeLinker{}), region, sel
}

func TestShowMessages_LinkFollowsResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"response id", "c-canonical", "https://chat.example/c/c-canonical"},
		{"missing response id", "", "https://chat.example/c/c1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{transcript: &archive.Transcript{
				ConversationID: tt.response,
				Messages:       []archive.Message{{Role: "user", Text: "hi"}},
			}}
			l, region, _ := newTestLoader(src)

			l.HandleLoaded(l.ShowMessages("c1", "Greeting")().(LoadedMsg))
			if got := region.last().Link; got != tt.want {
				t.Errorf("Link = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShowMessages_ShadingSkipsInternal(t *testing.T) {
	src := &fakeSource{transcript: &archive.Transcript{
		ConversationID: "c1",
		Messages: []archive.Message{
			{Role: archive.RoleInternal, Text: "tool output", Created: "2024-01-01 10:00:00"},
			{Role: "user", Text: "hi", Created: "2024-01-01 10:00:01"},
			{Role: "assistant", Text: "hello", Created: "2024-01-01 10:00:02"},
		},
	}}
	l, region, _ := newTestLoader(src)

	cmd := l.ShowMessages("c1", "Greeting")
	if len(region.shown) != 0 {
		t.Fatal("transcript must not replace the panel before it arrives")
	}
	if !l.HandleLoaded(cmd().(LoadedMsg)) {
		t.Fatal("latest response should be shown")
	}

	c := region.last()
	if c.Kind != KindMessages || c.Title != "Greeting" {
		t.Errorf("content = %v %q", c.Kind, c.Title)
	}
	if c.Link != "https://chat.example/c/c1" {
		t.Errorf("Link = %q", c.Link)
	}
	if len(c.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(c.Entries))
	}

	internal := c.Entries[0]
	if !internal.Internal || internal.Role != "" || internal.Created != "" {
		t.Errorf("internal entry should have empty role and timestamp: %+v", internal)
	}
	if c.Entries[1].Shaded {
		t.Error("first non-internal message takes shading index 0")
	}
	if !c.Entries[2].Shaded {
		t.Error("second non-internal message takes shading index 1")
	}
	if c.Entries[1].Role != "user" || c.Entries[1].Created == "" {
		t.Errorf("user entry lost metadata: %+v", c.Entries[1])
	}
}

func TestTranscriptContent_Alternation(t *testing.T) {
	roles := []string{"user", archive.RoleInternal, archive.RoleInternal, "assistant", "user"}
	var msgs []archive.Message
	for _, r := range roles {
		msgs = append(msgs, archive.Message{Role: r})
	}

	c := transcriptContent(&archive.Transcript{Messages: msgs}, "", "")

	var shading []bool
	for _, e := range c.Entries {
		if !e.Internal {
			shading = append(shading, e.Shaded)
		}
	}
	want := []bool{false, true, false}
	for i := range want {
		if shading[i] != want[i] {
			t.Errorf("non-internal message %d shaded = %v, want %v", i, shading[i], want[i])
		}
	}
}

func TestShowSearch_NoResults(t *testing.T) {
	src := &fakeSource{results: []archive.SearchResult{}}
	l, region, sel := newTestLoader(src)

	cmd := l.ShowSearch("foo")

	if sel.cleared != 1 {
		t.Errorf("selection cleared %d times, want 1", sel.cleared)
	}
	if got := region.last(); got.Notice != SearchingNotice {
		t.Errorf("placeholder = %q, want %q", got.Notice, SearchingNotice)
	}

	l.HandleLoaded(cmd().(LoadedMsg))

	c := region.last()
	if c.Kind != KindSearch {
		t.Errorf("Kind = %v", c.Kind)
	}
	if c.Notice != NoResultsNotice {
		t.Errorf("Notice = %q, want %q", c.Notice, NoResultsNotice)
	}
	if len(c.Entries) != 0 {
		t.Errorf("no-results panel must have no entries, got %d", len(c.Entries))
	}
	if len(src.searched) != 1 || src.searched[0] != "foo" {
		t.Errorf("searched = %v", src.searched)
	}
}

func TestShowSearch_ResultsShadedByIndex(t *testing.T) {
	src := &fakeSource{results: []archive.SearchResult{
		{ID: "a", Title: "A", Role: "user", Text: "x"},
		{ID: "b", Title: "B", Role: archive.RoleInternal, Text: "y"},
		{ID: "c", Title: "C", Role: "assistant", Text: "z"},
	}}
	l, region, _ := newTestLoader(src)

	l.HandleLoaded(l.ShowSearch("x")().(LoadedMsg))

	c := region.last()
	if c.Notice != "" {
		t.Errorf("Notice = %q, want none", c.Notice)
	}
	want := []bool{false, true, false}
	for i, e := range c.Entries {
		if e.Shaded != want[i] {
			t.Errorf("result %d shaded = %v, want %v", i, e.Shaded, want[i])
		}
	}
	if c.Entries[1].Role != archive.RoleInternal {
		t.Error("search results keep their role verbatim")
	}
	if c.Entries[2].Link != "https://chat.example/c/c" {
		t.Errorf("Link = %q", c.Entries[2].Link)
	}
}

func TestShowSearch_EmptyQuery(t *testing.T) {
	l, region, sel := newTestLoader(&fakeSource{})

	if cmd := l.ShowSearch("   "); cmd != nil {
		t.Error("blank query should not issue a request")
	}
	if len(region.shown) != 0 || sel.cleared != 0 {
		t.Error("blank query should not touch the panel or selection")
	}
}

func TestShowSearch_FailureReplacesPlaceholder(t *testing.T) {
	src := &fakeSource{err: pErrors.TransportFailed("archive.Search", errors.New("refused"))}
	l, region, _ := newTestLoader(src)

	if !l.HandleLoaded(l.ShowSearch("foo")().(LoadedMsg)) {
		t.Fatal("search failure should update the panel")
	}

	c := region.last()
	if !strings.HasPrefix(c.Notice, "Search failed") {
		t.Errorf("Notice = %q, want failure notice", c.Notice)
	}
	if c.Notice == SearchingNotice {
		t.Error("placeholder must not stay on failure")
	}
}

func TestFailedLoad_KeepsPriorContent(t *testing.T) {
	src := &fakeSource{stats: archive.Statistics{{Key: "Total", Value: "3"}}}
	l, region, _ := newTestLoader(src)

	l.HandleLoaded(l.ShowStatistics()().(LoadedMsg))
	before := len(region.shown)

	src.err = errors.New("boom")
	tests := []struct {
		name string
		cmd  func() any
	}{
		{"messages", func() any { return l.ShowMessages("c1", "")() }},
		{"statistics", func() any { return l.ShowStatistics()() }},
		{"cost", func() any { return l.ShowCostReport()() }},
		{"activity", func() any { return l.ShowActivity()() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if l.HandleLoaded(tt.cmd().(LoadedMsg)) {
				t.Error("failed load should not change the panel")
			}
			if len(region.shown) != before {
				t.Error("failed load must leave prior content in place")
			}
			if l.Shown() != KindStatistics {
				t.Errorf("Shown() = %v, want statistics", l.Shown())
			}
		})
	}
}

func TestStaleResponseDropped(t *testing.T) {
	src := &fakeSource{
		transcript: &archive.Transcript{ConversationID: "old", Messages: []archive.Message{{Role: "user"}}},
		stats:      archive.Statistics{{Key: "k", Value: "v"}},
	}
	l, region, _ := newTestLoader(src)

	slow := l.ShowMessages("old", "Old")
	fast := l.ShowStatistics()

	if !l.HandleLoaded(fast().(LoadedMsg)) {
		t.Fatal("latest response should be shown")
	}
	if l.HandleLoaded(slow().(LoadedMsg)) {
		t.Error("stale response should be dropped")
	}

	if len(region.shown) != 1 || region.last().Kind != KindStatistics {
		t.Errorf("panel = %v, want statistics only", region.last().Kind)
	}
}

func TestStatisticsKeepWireOrder(t *testing.T) {
	stats := archive.Statistics{
		{Key: "Zeta", Value: "1"},
		{Key: "Alpha", Value: "2"},
		{Key: "Mid", Value: "3"},
	}
	l, region, _ := newTestLoader(&fakeSource{stats: stats})

	l.HandleLoaded(l.ShowStatistics()().(LoadedMsg))

	got := region.last().Stats
	for i, s := range stats {
		if got[i].Key != s.Key {
			t.Errorf("row %d = %q, want %q", i, got[i].Key, s.Key)
		}
	}
}

func TestShowCostReport_HandsDataToChart(t *testing.T) {
	src := &fakeSource{cost: []archive.CostPoint{{Month: "2024-05", Input: 1, Output: 2}}}
	l, region, _ := newTestLoader(src)

	l.HandleLoaded(l.ShowCostReport()().(LoadedMsg))

	c := region.last()
	if c.Kind != KindCost || c.Chart == nil {
		t.Fatalf("content = %+v", c)
	}
	if out := ansi.Strip(c.Chart(60)); !strings.Contains(out, "2024-05") || !strings.Contains(out, "$3") {
		t.Errorf("chart = %q", out)
	}
}

func TestShowActivity(t *testing.T) {
	src := &fakeSource{
		activity: archive.Activity{{Day: "2024-05-01", Count: 4}},
		hourly:   []archive.HourBucket{{Hour: "2024-05-01 09:00", Count: 2}},
	}
	l, region, _ := newTestLoader(src)

	l.HandleLoaded(l.ShowActivity()().(LoadedMsg))

	if len(src.roles) != 1 || src.roles[0] != ActivityRole {
		t.Errorf("last24h roles = %v, want [%s]", src.roles, ActivityRole)
	}
	out := ansi.Strip(region.last().Chart(80))
	if !strings.Contains(out, "Last 24 hours") {
		t.Errorf("dashboard should include the hourly chart:\n%s", out)
	}
}

func TestShowActivity_HourlyFailureIsOptional(t *testing.T) {
	src := &fakeSource{
		activity:  archive.Activity{{Day: "2024-05-01", Count: 4}},
		hourlyErr: errors.New("not supported"),
	}
	l, region, _ := newTestLoader(src)

	if !l.HandleLoaded(l.ShowActivity()().(LoadedMsg)) {
		t.Fatal("activity should still be shown")
	}
	out := ansi.Strip(region.last().Chart(80))
	if strings.Contains(out, "Last 24 hours") {
		t.Error("hourly chart should be omitted when unavailable")
	}
	if !strings.Contains(out, "2024-05") {
		t.Errorf("monthly bars missing:\n%s", out)
	}
}

func TestTokensIncrease(t *testing.T) {
	l, _, _ := newTestLoader(&fakeSource{})
	l.ShowStatistics()
	first := l.Token()
	l.ShowCostReport()
	if l.Token() <= first {
		t.Errorf("Token() = %d, want > %d", l.Token(), first)
	}
}
