package demo

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"slices"
	"strings"
	"time"
)

// exportFile is the member of an export archive holding the conversations
const exportFile = "conversations.json"

var (
	// ErrNoConversations is returned for a zip without conversations.json
	ErrNoConversations = errors.New("zip has no " + exportFile)
	// ErrBadZip is returned when the upload is not a readable zip archive
	ErrBadZip = errors.New("invalid zip file")
)

// exportConversation is one conversation of a chat export. Messages form
// a tree keyed by node id; only the message payloads are used here.
type exportConversation struct {
	ID             string                `json:"id"`
	ConversationID string                `json:"conversation_id"`
	Title          *string               `json:"title"`
	CreateTime     float64               `json:"create_time"`
	Mapping        map[string]exportNode `json:"mapping"`
}

type exportNode struct {
	Message *exportMessage `json:"message"`
}

type exportMessage struct {
	ID     string `json:"id"`
	Author struct {
		Role string `json:"role"`
	} `json:"author"`
	CreateTime *float64 `json:"create_time"`
	Content    struct {
		ContentType string            `json:"content_type"`
		Parts       []json.RawMessage `json:"parts"`
	} `json:"content"`
}

// text joins the string parts of the message; images and other
// structured parts are skipped
func (m *exportMessage) text() string {
	var parts []string
	for _, raw := range m.Content.Parts {
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// readExport extracts the conversations of an export zip.
func readExport(data []byte) ([]*conversation, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrBadZip
	}

	var member *zip.File
	for _, f := range zr.File {
		if f.Name == exportFile {
			member = f
			break
		}
	}
	if member == nil {
		return nil, ErrNoConversations
	}

	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return parseExport(raw)
}

func parseExport(raw []byte) ([]*conversation, error) {
	var exported []exportConversation
	if err := json.Unmarshal(raw, &exported); err != nil {
		return nil, err
	}

	convs := make([]*conversation, 0, len(exported))
	for _, ec := range exported {
		id := ec.ID
		if id == "" {
			id = ec.ConversationID
		}
		if id == "" {
			continue
		}
		conv := &conversation{ID: id, Title: ec.Title}

		for _, node := range ec.Mapping {
			m := node.Message
			if m == nil || (m.Author.Role != "user" && m.Author.Role != "assistant") {
				continue
			}
			text := m.text()
			if text == "" {
				continue
			}
			at := ec.CreateTime
			if m.CreateTime != nil {
				at = *m.CreateTime
			}
			conv.Messages = append(conv.Messages, message{
				Role:    m.Author.Role,
				Text:    text,
				Created: unixSeconds(at),
			})
		}
		// Map order is random; ties in time fall back to the text
		slices.SortStableFunc(conv.Messages, func(a, b message) int {
			if c := a.Created.Compare(b.Created); c != 0 {
				return c
			}
			return strings.Compare(a.Text, b.Text)
		})

		if len(conv.Messages) == 0 {
			conv.Messages = []message{{Role: "user", Created: unixSeconds(ec.CreateTime)}}
		}
		convs = append(convs, conv)
	}
	return convs, nil
}

// unixSeconds converts an export timestamp, seconds with a fraction
func unixSeconds(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9)).Local()
}
