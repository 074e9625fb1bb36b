package demo

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zhubert/chatlog/internal/archive"
)

const (
	// gapNote is the pause between two messages that gets an internal note
	gapNote = time.Hour
	// maxSearchResults stops a search once this many results are found
	maxSearchResults = 10
	// sourceURLBase links statistics to the origin threads
	sourceURLBase = "https://chat.openai.com/c/"
)

type message struct {
	Role    string
	Text    string // markdown
	Created time.Time
}

type conversation struct {
	ID       string
	Title    *string
	Group    string
	Messages []message
}

func (c *conversation) created() time.Time {
	if len(c.Messages) == 0 {
		return time.Time{}
	}
	return c.Messages[0].Created
}

func (c *conversation) length() time.Duration {
	if len(c.Messages) < 2 {
		return 0
	}
	return c.Messages[len(c.Messages)-1].Created.Sub(c.Messages[0].Created)
}

func (c *conversation) title() string {
	if c.Title == nil {
		return ""
	}
	return *c.Title
}

// Store is the in-memory archive behind the demo server. Favorites are kept
// apart from the conversations so they survive an upload.
type Store struct {
	mu            sync.RWMutex
	conversations []*conversation
	favorites     map[string]bool
	costs         []archive.CostPoint
	now           func() time.Time
}

// NewStore seeds a store from a fixture. When the fixture pins "now", the
// clock is frozen there.
func NewStore(f *Fixture) *Store {
	s := &Store{
		favorites: make(map[string]bool),
		now:       time.Now,
	}
	if f.Now != "" {
		now, _ := time.ParseInLocation(timeLayout, f.Now, time.Local)
		s.now = func() time.Time { return now }
	}

	for _, c := range f.Costs {
		s.costs = append(s.costs, archive.CostPoint{Month: c.Month, Input: c.Input, Output: c.Output})
	}

	var convs []*conversation
	for _, fc := range f.Conversations {
		conv := &conversation{ID: fc.ID, Title: fc.Title, Group: fc.Group}
		for _, fm := range fc.Messages {
			at, _ := time.ParseInLocation(timeLayout, fm.At, time.Local)
			conv.Messages = append(conv.Messages, message{Role: fm.Role, Text: fm.Text, Created: at})
		}
		convs = append(convs, conv)
		if fc.Favorite {
			s.favorites[fc.ID] = true
		}
	}
	s.replace(convs)
	return s
}

// replace swaps in a new conversation list, newest first
func (s *Store) replace(convs []*conversation) {
	for _, c := range convs {
		slices.SortStableFunc(c.Messages, func(a, b message) int {
			return a.Created.Compare(b.Created)
		})
	}
	slices.SortStableFunc(convs, func(a, b *conversation) int {
		return b.created().Compare(a.created())
	})
	s.conversations = convs
}

// importConversations swaps in an uploaded archive and returns its size.
func (s *Store) importConversations(convs []*conversation) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(convs)
	return len(convs)
}

func (s *Store) find(id string) *conversation {
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Conversations lists the catalog.
func (s *Store) Conversations() []archive.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]archive.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		group := c.Group
		if group == "" {
			group = timeGroup(c.created(), now)
		}
		out = append(out, archive.Conversation{
			ID:          c.ID,
			Title:       c.Title,
			Group:       &group,
			IsFavorite:  s.favorites[c.ID],
			TotalLength: archive.Length(humanDuration(c.length(), true)),
			Created:     c.created().Format(timeLayout),
		})
	}
	return out
}

// Transcript returns the messages of one conversation with an internal
// note before every message that follows a long pause.
func (s *Store) Transcript(id string) (*archive.Transcript, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.find(id)
	if c == nil {
		return nil, false
	}

	t := &archive.Transcript{ConversationID: c.ID, Messages: []archive.Message{}}
	var prev time.Time
	for _, m := range c.Messages {
		if !prev.IsZero() && m.Created.Sub(prev) >= gapNote {
			t.Messages = append(t.Messages, archive.Message{
				Role: archive.RoleInternal,
				Text: humanDuration(m.Created.Sub(prev), false) + " passed",
			})
		}
		t.Messages = append(t.Messages, archive.Message{
			Role:    m.Role,
			Text:    renderMarkdown(m.Text),
			Created: m.Created.Format(timeLayout),
		})
		prev = m.Created
	}
	return t, true
}

// ToggleFavorite flips the flag of id. Unknown ids are toggled too.
func (s *Store) ToggleFavorite(id string) archive.FavoriteState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites[id] = !s.favorites[id]
	return archive.FavoriteState{ConversationID: id, IsFavorite: s.favorites[id]}
}

// Activity counts user messages per day, oldest day first.
func (s *Store) Activity() archive.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, c := range s.conversations {
		for _, m := range c.Messages {
			day := m.Created.Format(time.DateOnly)
			if _, ok := counts[day]; !ok {
				counts[day] = 0
			}
			if m.Role == "user" {
				counts[day]++
			}
		}
	}

	out := make(archive.Activity, 0, len(counts))
	for day, n := range counts {
		out = append(out, archive.DayCount{Day: day, Count: n})
	}
	slices.SortFunc(out, func(a, b archive.DayCount) int { return cmp.Compare(a.Day, b.Day) })
	return out
}

// Last24h counts messages in hourly buckets over the last day. The range
// is inclusive at both ends, so there are 25 buckets. The layout prints a
// literal ":00" so formatting a time yields its bucket key. An empty role counts
// every message.
func (s *Store) Last24h(role string) []archive.HourBucket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	const hourLayout = "2006-01-02 15:00"
	now := s.now()
	start := now.Add(-24 * time.Hour)

	buckets := make([]archive.HourBucket, 25)
	index := make(map[string]int, len(buckets))
	for i := range buckets {
		key := start.Add(time.Duration(i) * time.Hour).Format(hourLayout)
		buckets[i] = archive.HourBucket{Hour: key}
		index[key] = i
	}

	for _, c := range s.conversations {
		for _, m := range c.Messages {
			if m.Created.Before(start) || (role != "" && m.Role != role) {
				continue
			}
			if i, ok := index[m.Created.Format(hourLayout)]; ok {
				buckets[i].Count++
			}
		}
	}
	return buckets
}

// Statistics summarizes the archive in a fixed key order.
func (s *Store) Statistics() archive.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.conversations) == 0 {
		return archive.Statistics{{Key: "Conversations", Value: "0"}}
	}

	byLength := slices.Clone(s.conversations)
	slices.SortStableFunc(byLength, func(a, b *conversation) int {
		return cmp.Compare(b.length(), a.length())
	})

	var first, last time.Time
	var total time.Duration
	shortest := time.Duration(-1)
	for _, c := range s.conversations {
		created := c.created()
		if first.IsZero() || created.Before(first) {
			first = created
		}
		if created.After(last) {
			last = created
		}
		total += c.length()
		if l := c.length(); l >= time.Second && (shortest < 0 || l < shortest) {
			shortest = l
		}
	}
	shortestText := "N/A"
	if shortest >= 0 {
		shortestText = humanDuration(shortest, false)
	}

	var top strings.Builder
	for i, c := range byLength[:min(3, len(byLength))] {
		fmt.Fprintf(&top, "<a href='%s%s' target='_blank'>Chat %c</a><br/>", sourceURLBase, c.ID, rune('A'+i))
	}

	return archive.Statistics{
		{Key: "Chat backup age", Value: strings.TrimSpace(humanize.RelTime(last, s.now(), "", ""))},
		{Key: "Last chat message", Value: last.Format(time.DateOnly)},
		{Key: "First chat message", Value: first.Format(time.DateOnly)},
		{Key: "Conversations", Value: humanize.Comma(int64(len(s.conversations)))},
		{Key: "Shortest conversation", Value: shortestText},
		{Key: "Longest conversation", Value: humanDuration(byLength[0].length(), false)},
		{Key: "Average chat length", Value: humanDuration(total/time.Duration(len(s.conversations)), false)},
		{Key: "Top longest chats", Value: top.String()},
	}
}

// Search matches the query against titles and message texts, case
// insensitively. A query in double quotes is matched as one phrase; the
// store has no semantic search so both forms match the same way.
func (s *Store) Search(query string) []archive.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) >= 2 && strings.HasPrefix(query, `"`) && strings.HasSuffix(query, `"`) {
		query = query[1 : len(query)-1]
	}
	needle := strings.ToLower(query)

	results := []archive.SearchResult{}
	for _, c := range s.conversations {
		if len(c.Messages) > 0 && strings.Contains(strings.ToLower(c.title()), needle) {
			results = append(results, searchResult("conversation", c, c.Messages[0]))
		}
		for _, m := range c.Messages {
			if strings.Contains(strings.ToLower(m.Text), needle) {
				results = append(results, searchResult("message", c, m))
			}
		}
		if len(results) >= maxSearchResults {
			break
		}
	}
	return results
}

func searchResult(kind string, c *conversation, m message) archive.SearchResult {
	created := m.Created
	if kind == "conversation" {
		created = c.created()
	}
	return archive.SearchResult{
		Type:    kind,
		ID:      c.ID,
		Title:   c.title(),
		Role:    m.Role,
		Text:    renderMarkdown(m.Text),
		Created: created.Format(timeLayout),
	}
}

// Costs returns the monthly cost report.
func (s *Store) Costs() []archive.CostPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.costs == nil {
		return []archive.CostPoint{}
	}
	return slices.Clone(s.costs)
}

// timeGroup buckets a conversation by how long ago it started
func timeGroup(created, now time.Time) string {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch {
	case !created.Before(today):
		return "Today"
	case !created.Before(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case !created.Before(today.AddDate(0, 0, -7)):
		return "Previous 7 Days"
	case !created.Before(today.AddDate(0, 0, -30)):
		return "Previous 30 Days"
	default:
		return created.Format("January 2006")
	}
}

// humanDuration renders d with its two largest units, e.g. "2h 5m" in
// short form or "2 hours 5 minutes".
func humanDuration(d time.Duration, short bool) string {
	type unit struct {
		size        time.Duration
		abbr, label string
	}
	units := []unit{
		{24 * time.Hour, "d", "day"},
		{time.Hour, "h", "hour"},
		{time.Minute, "m", "minute"},
		{time.Second, "s", "second"},
	}

	var parts []string
	for _, u := range units {
		if len(parts) == 2 {
			break
		}
		n := int64(d / u.size)
		if n == 0 {
			if len(parts) > 0 {
				break
			}
			continue
		}
		d -= time.Duration(n) * u.size
		if short {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.abbr))
		} else {
			label := u.label
			if n != 1 {
				label += "s"
			}
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}

	if len(parts) == 0 {
		if short {
			return "0s"
		}
		return "0 seconds"
	}
	return strings.Join(parts, " ")
}
