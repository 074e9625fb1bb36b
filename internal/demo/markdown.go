package demo

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/zhubert/chatlog/internal/logger"
)

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

// renderMarkdown converts message markdown to the HTML the API serves.
// Raw HTML in the source is dropped by goldmark's default renderer.
func renderMarkdown(src string) string {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		logger.WithComponent("demo").Warn("markdown conversion failed", "error", err)
		return src
	}
	return buf.String()
}
