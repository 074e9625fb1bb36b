package panel

import (
	"github.com/zhubert/chatlog/internal/archive"
)

// Kind identifies what the content panel currently shows.
type Kind int

const (
	KindEmpty Kind = iota
	KindMessages
	KindSearch
	KindStatistics
	KindCost
	KindActivity
)

func (k Kind) String() string {
	switch k {
	case KindMessages:
		return "messages"
	case KindSearch:
		return "search"
	case KindStatistics:
		return "statistics"
	case KindCost:
		return "cost"
	case KindActivity:
		return "activity"
	default:
		return "empty"
	}
}

// Notices shown in place of entries.
const (
	SearchingNotice = "Searching..."
	NoResultsNotice = "No results found."
)

// Entry is one displayed message or search result. Text is the raw markup
// from the backend; the renderer converts it for the terminal.
type Entry struct {
	ConversationID string
	Title          string // search results only
	Link           string // search results only
	Role           string // empty for internal messages
	Created        string // empty for internal messages
	Text           string
	Internal       bool
	Shaded         bool
}

// ChartFunc renders a chart at the given width.
type ChartFunc func(width int) string

// Content is everything the display region needs to draw one panel.
type Content struct {
	Kind    Kind
	Title   string
	Link    string // source thread of a transcript
	Entries []Entry
	Notice  string // placeholder, no-results or failure text
	Stats   archive.Statistics
	Chart   ChartFunc
}

// transcriptContent lays out a transcript. The shading counter only
// advances on non-internal messages, so internal messages never shift the
// alternation of the conversation around them.
func transcriptContent(t *archive.Transcript, title, link string) Content {
	c := Content{Kind: KindMessages, Title: title, Link: link}
	shade := 0
	for _, m := range t.Messages {
		e := Entry{
			ConversationID: t.ConversationID,
			Text:           m.Text,
			Shaded:         shade%2 == 1,
		}
		if m.IsInternal() {
			e.Internal = true
		} else {
			e.Role = m.Role
			e.Created = m.Created
			shade++
		}
		c.Entries = append(c.Entries, e)
	}
	return c
}

// searchContent lays out search results, shaded by result index. Zero
// results produce a single no-results notice.
func searchContent(query string, results []archive.SearchResult, linker Linker) Content {
	c := Content{Kind: KindSearch, Title: "Search: " + query}
	if len(results) == 0 {
		c.Notice = NoResultsNotice
		return c
	}
	for i, r := range results {
		c.Entries = append(c.Entries, Entry{
			ConversationID: r.ID,
			Title:          r.Title,
			Link:           linker.SourceURL(r.ID),
			Role:           r.Role,
			Created:        r.Created,
			Text:           r.Text,
			Shaded:         i%2 == 1,
		})
	}
	return c
}
