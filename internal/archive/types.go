// Package archive holds the chat archive data model and the HTTP client for
// the archive backend.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RoleInternal marks messages that the backend synthesizes, such as
// elapsed-time notes between turns.
const RoleInternal = "internal"

// NoGroupLabel is shown for conversations without a group.
const NoGroupLabel = "No Group"

// Conversation is one entry of the archive catalog.
type Conversation struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Group       *string `json:"group"`
	IsFavorite  bool    `json:"is_favorite"`
	TotalLength Length  `json:"total_length"`
	Created     string  `json:"created"` // "<date> <time>"
}

// DisplayTitle returns the title, or an empty string when the backend sent null.
func (c Conversation) DisplayTitle() string {
	if c.Title == nil {
		return ""
	}
	return *c.Title
}

// GroupName returns the group, or an empty string when absent.
func (c Conversation) GroupName() string {
	if c.Group == nil {
		return ""
	}
	return *c.Group
}

// GroupLabel returns the group as shown in a header row.
func (c Conversation) GroupLabel() string {
	if g := c.GroupName(); g != "" {
		return g
	}
	return NoGroupLabel
}

// CreatedDate returns the date part of Created.
func (c Conversation) CreatedDate() string {
	date, _, _ := strings.Cut(c.Created, " ")
	return date
}

// CreatedTime returns the time part of Created, empty if there is none.
func (c Conversation) CreatedTime() string {
	_, t, _ := strings.Cut(c.Created, " ")
	return t
}

// Length is a conversation length as the backend reports it. The wire value
// may be a string or a number; either way it is displayed verbatim.
type Length string

func (l *Length) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Length(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("total_length: %w", err)
	}
	*l = Length(n.String())
	return nil
}

// Message is one transcript entry. Text is markup and is never executed.
type Message struct {
	Role    string `json:"role"`
	Text    string `json:"text"`
	Created string `json:"created"`
}

// IsInternal reports whether the message was synthesized by the backend.
func (m Message) IsInternal() bool {
	return m.Role == RoleInternal
}

// Transcript is the message list of one conversation.
type Transcript struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
}

// SearchResult is one hit of a full-text or exact-phrase search.
type SearchResult struct {
	Type    string `json:"type"` // "conversation" or "message"
	ID      string `json:"id"`
	Title   string `json:"title"`
	Role    string `json:"role"`
	Text    string `json:"text"`
	Created string `json:"created"`
}

// Stat is one labelled value of the statistics report.
type Stat struct {
	Key   string
	Value string
}

// Statistics is the statistics report in the order the backend sent it.
type Statistics []Stat

// UnmarshalJSON decodes a JSON object keeping key order. Non-string values
// are kept as their JSON text.
func (s *Statistics) UnmarshalJSON(data []byte) error {
	var out Statistics
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		out = append(out, Stat{Key: key, Value: rawToText(raw)})
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON encodes the report as a JSON object in slice order.
func (s Statistics) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(s), func(i int) (string, any) {
		return s[i].Key, s[i].Value
	})
}

// DayCount is the number of user messages sent on one day.
type DayCount struct {
	Day   string // YYYY-MM-DD
	Count int
}

// Activity is the per-day message count, in the order the backend sent it.
type Activity []DayCount

func (a *Activity) UnmarshalJSON(data []byte) error {
	var out Activity
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("activity %s: %w", key, err)
		}
		out = append(out, DayCount{Day: key, Count: n})
		return nil
	})
	if err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalJSON encodes the counts as a JSON object in slice order.
func (a Activity) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(a), func(i int) (string, any) {
		return a[i].Day, a[i].Count
	})
}

// Total returns the sum of all day counts.
func (a Activity) Total() int {
	total := 0
	for _, d := range a {
		total += d.Count
	}
	return total
}

// HourBucket is the message count of one hour ("YYYY-MM-DD HH:00").
type HourBucket struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// CostPoint is the estimated API cost of one month, in whole currency units.
type CostPoint struct {
	Month  string `json:"month"`
	Input  int    `json:"input"`
	Output int    `json:"output"`
}

// FavoriteState is the server-confirmed favorite flag after a toggle.
type FavoriteState struct {
	ConversationID string `json:"conversation_id"`
	IsFavorite     bool   `json:"is_favorite"`
}

// UploadResult is the backend's answer to a successful archive import.
type UploadResult struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
	Count  int    `json:"count"`
}

// decodeOrderedObject walks a JSON object and calls fn for each member in
// document order.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// encodeOrderedObject writes n members as a JSON object, keeping their order.
func encodeOrderedObject(n int, member func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		key, value := member(i)
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func rawToText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return "null"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
