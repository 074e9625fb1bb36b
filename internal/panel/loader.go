// Package panel loads the content shown in the single display region:
// a transcript, search results, statistics, the cost report or the
// activity dashboard. Every load issues a new request token and only the
// response carrying the latest token is ever shown.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/charts"
	pErrors "github.com/zhubert/chatlog/internal/errors"
	"github.com/zhubert/chatlog/internal/logger"
)

// ActivityRole is the speaker role counted by the last-24h chart.
const ActivityRole = "user"

// Source is the part of the archive client the loader reads from.
type Source interface {
	Messages(ctx context.Context, conversationID string) (*archive.Transcript, error)
	Search(ctx context.Context, query string) ([]archive.SearchResult, error)
	Statistics(ctx context.Context) (archive.Statistics, error)
	AICost(ctx context.Context) ([]archive.CostPoint, error)
	Activity(ctx context.Context) (archive.Activity, error)
	ActivityLast24h(ctx context.Context, role string) ([]archive.HourBucket, error)
}

// Region is the display region content is drawn into.
type Region interface {
	Show(Content)
}

// Deselector removes the conversation highlight.
type Deselector interface {
	Clear()
}

// Linker builds the source thread link of a conversation.
type Linker interface {
	SourceURL(conversationID string) string
}

// LoadedMsg carries a finished load back to the UI loop.
type LoadedMsg struct {
	Token   uint64
	Kind    Kind
	Content Content
	Err     error
}

// Loader fetches panel content and shows it in a Region.
type Loader struct {
	src    Source
	region Region
	sel    Deselector
	links  Linker
	token  uint64
	shown  Kind
	log    *slog.Logger
}

// New creates a Loader.
func New(src Source, region Region, sel Deselector, links Linker) *Loader {
	return &Loader{
		src:    src,
		region: region,
		sel:    sel,
		links:  links,
		log:    logger.WithComponent("panel"),
	}
}

// Token returns the latest issued request token.
func (l *Loader) Token() uint64 {
	return l.token
}

// Shown returns the kind of content currently in the region.
func (l *Loader) Shown() Kind {
	return l.shown
}

func (l *Loader) next() uint64 {
	l.token++
	return l.token
}

// ShowMessages loads the transcript of a conversation. title is shown in
// the panel header.
func (l *Loader) ShowMessages(id, title string) tea.Cmd {
	token := l.next()
	src, links := l.src, l.links
	return func() tea.Msg {
		t, err := src.Messages(context.Background(), id)
		if err != nil {
			return LoadedMsg{Token: token, Kind: KindMessages, Err: err}
		}
		// The link follows the id the backend answered for
		linkID := id
		if t.ConversationID != "" {
			linkID = t.ConversationID
		}
		return LoadedMsg{Token: token, Kind: KindMessages, Content: transcriptContent(t, title, links.SourceURL(linkID))}
	}
}

// ShowSearch shows a placeholder, clears the conversation highlight and
// runs the search. Surrounding whitespace is ignored; an empty query
// issues nothing.
func (l *Loader) ShowSearch(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	token := l.next()
	l.show(Content{Kind: KindSearch, Title: "Search: " + query, Notice: SearchingNotice})
	l.sel.Clear()

	src, links := l.src, l.links
	return func() tea.Msg {
		results, err := src.Search(context.Background(), query)
		if err != nil {
			return LoadedMsg{Token: token, Kind: KindSearch, Content: Content{Kind: KindSearch, Title: "Search: " + query}, Err: err}
		}
		return LoadedMsg{Token: token, Kind: KindSearch, Content: searchContent(query, results, links)}
	}
}

// ShowStatistics loads the archive statistics table.
func (l *Loader) ShowStatistics() tea.Cmd {
	token := l.next()
	src := l.src
	return func() tea.Msg {
		stats, err := src.Statistics(context.Background())
		if err != nil {
			return LoadedMsg{Token: token, Kind: KindStatistics, Err: err}
		}
		return LoadedMsg{Token: token, Kind: KindStatistics, Content: Content{
			Kind:  KindStatistics,
			Title: "Statistics",
			Stats: stats,
		}}
	}
}

// ShowCostReport loads the monthly cost dataset and hands it to the cost chart.
func (l *Loader) ShowCostReport() tea.Cmd {
	token := l.next()
	src := l.src
	return func() tea.Msg {
		points, err := src.AICost(context.Background())
		if err != nil {
			return LoadedMsg{Token: token, Kind: KindCost, Err: err}
		}
		return LoadedMsg{Token: token, Kind: KindCost, Content: Content{
			Kind:  KindCost,
			Title: "AI cost",
			Chart: func(width int) string { return charts.CostBarChart(points, width) },
		}}
	}
}

// ShowActivity loads the activity dashboard. The last-24h chart is
// optional: if it fails the dashboard is shown without it.
func (l *Loader) ShowActivity() tea.Cmd {
	token := l.next()
	src, log := l.src, l.log
	return func() tea.Msg {
		ctx := context.Background()
		activity, err := src.Activity(ctx)
		if err != nil {
			return LoadedMsg{Token: token, Kind: KindActivity, Err: err}
		}
		hourly, err := src.ActivityLast24h(ctx, ActivityRole)
		if err != nil {
			log.Warn("last 24h activity unavailable", "error", err)
			hourly = nil
		}
		return LoadedMsg{Token: token, Kind: KindActivity, Content: Content{
			Kind:  KindActivity,
			Title: "Activity",
			Chart: activityChart(activity, hourly),
		}}
	}
}

func activityChart(activity archive.Activity, hourly []archive.HourBucket) ChartFunc {
	return func(width int) string {
		sections := []string{
			charts.ActivityGraph(activity, width),
			"Messages per month\n" + charts.ActivityBarChart(activity, width),
		}
		if hourly != nil {
			sections = append(sections, "Last 24 hours\n"+charts.HourlyBarChart(hourly, width))
		}
		return strings.Join(sections, "\n\n")
	}
}

// HandleLoaded shows a finished load if it is still the latest one and
// reports whether the region changed. Failed loads are logged and leave
// the region untouched, except search, whose placeholder is replaced by a
// failure notice.
func (l *Loader) HandleLoaded(msg LoadedMsg) bool {
	if msg.Token != l.token {
		l.log.Debug("dropping stale panel response",
			"kind", msg.Kind.String(), "token", msg.Token, "latest", l.token)
		return false
	}

	if msg.Err != nil {
		l.log.Error("panel load failed", "kind", msg.Kind.String(), "error", msg.Err)
		if msg.Kind != KindSearch {
			return false
		}
		failed := msg.Content
		failed.Kind = KindSearch
		failed.Entries = nil
		failed.Notice = fmt.Sprintf("Search failed: %s", pErrors.Detail(msg.Err))
		l.show(failed)
		return true
	}

	l.show(msg.Content)
	return true
}

func (l *Loader) show(c Content) {
	l.shown = c.Kind
	l.region.Show(c)
}
