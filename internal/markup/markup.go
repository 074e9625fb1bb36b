// Package markup turns the HTML the archive backend sends for message text
// into terminal text. The HTML is parsed, never executed, and any terminal
// escape sequences embedded in it are stripped before rendering.
package markup

import (
	"bytes"
	"image/color"
	"strconv"
	"strings"
	"unicode"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CodeStyle is the chroma style used for code blocks.
var CodeStyle = "monokai"

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	italicStyle  = lipgloss.NewStyle().Italic(true)
	codeStyle    = lipgloss.NewStyle().Reverse(true)
	linkStyle    = lipgloss.NewStyle().Underline(true)
)

// SetColors recolors links and inline code, typically on theme change.
func SetColors(link, code color.Color) {
	linkStyle = lipgloss.NewStyle().Underline(true).Foreground(link)
	codeStyle = lipgloss.NewStyle().Foreground(code)
}

// Render converts HTML to styled text wrapped at width. Code blocks are
// syntax highlighted. A width of zero or less disables wrapping.
func Render(src string, width int) string {
	return render(src, width, true)
}

// PlainText converts HTML to unstyled text on as few lines as the markup
// allows. It is used where escape sequences are unwanted, such as piping
// list output or building one-line snippets.
func PlainText(src string) string {
	return render(src, 0, false)
}

// Snippet returns PlainText collapsed to a single line.
func Snippet(src string) string {
	return strings.Join(strings.Fields(PlainText(src)), " ")
}

// Line cleans plain text for a single terminal line. Escape sequences are
// stripped, control characters become spaces and whitespace runs collapse.
// Unlike Snippet the input is not parsed as HTML.
func Line(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, ansi.Strip(s))
	return strings.Join(strings.Fields(s), " ")
}

func render(src string, width int, styled bool) string {
	src = ansi.Strip(src)
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		// html.Parse only fails on reader errors
		return src
	}
	r := &renderer{width: width, styled: styled}
	r.walk(doc)
	r.flush()
	return strings.Trim(r.out.String(), "\n")
}

type listState struct {
	ordered bool
	next    int
}

type renderer struct {
	out    strings.Builder
	line   strings.Builder
	width  int
	styled bool
	lists  []listState
}

func (r *renderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.text(n.Data)
		return
	case html.ElementNode:
		r.element(n)
		return
	}
	r.children(n)
}

func (r *renderer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *renderer) text(s string) {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		if s != "" && r.line.Len() > 0 {
			r.line.WriteString(" ")
		}
		return
	}
	if startsWithSpace(s) && r.line.Len() > 0 && !strings.HasSuffix(r.line.String(), " ") {
		r.line.WriteString(" ")
	}
	r.line.WriteString(collapsed)
	if endsWithSpace(s) {
		r.line.WriteString(" ")
	}
}

func (r *renderer) element(n *html.Node) {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head:
		return
	case atom.Br:
		r.flush()
		return
	case atom.Hr:
		r.block()
		r.out.WriteString(strings.Repeat("─", r.ruleWidth()))
		r.out.WriteString("\n\n")
		return
	case atom.Pre:
		r.block()
		r.out.WriteString(r.code(n))
		r.out.WriteString("\n\n")
		return
	case atom.P, atom.Div, atom.Blockquote, atom.Table:
		r.block()
		r.children(n)
		r.block()
		return
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		r.block()
		r.inline(n, headingStyle)
		r.block()
		return
	case atom.Ul, atom.Ol:
		r.flush()
		r.lists = append(r.lists, listState{ordered: n.DataAtom == atom.Ol, next: 1})
		r.children(n)
		r.lists = r.lists[:len(r.lists)-1]
		if len(r.lists) == 0 {
			r.block()
		}
		return
	case atom.Li:
		r.flush()
		r.line.WriteString(r.bullet())
		r.children(n)
		r.flush()
		return
	case atom.Tr:
		r.flush()
		r.children(n)
		r.flush()
		return
	case atom.Td, atom.Th:
		if r.line.Len() > 0 {
			r.line.WriteString(" │ ")
		}
		if n.DataAtom == atom.Th {
			r.inline(n, boldStyle)
		} else {
			r.children(n)
		}
		return
	case atom.Strong, atom.B:
		r.inline(n, boldStyle)
		return
	case atom.Em, atom.I:
		r.inline(n, italicStyle)
		return
	case atom.Code:
		r.inline(n, codeStyle)
		return
	case atom.A:
		r.link(n)
		return
	}
	r.children(n)
}

// inline renders the children of n as one styled run.
func (r *renderer) inline(n *html.Node, style lipgloss.Style) {
	sub := &renderer{styled: r.styled}
	sub.children(n)
	text := strings.TrimSpace(sub.line.String())
	if text == "" {
		return
	}
	if r.styled {
		text = style.Render(text)
	}
	r.line.WriteString(text)
}

func (r *renderer) link(n *html.Node) {
	sub := &renderer{styled: r.styled}
	sub.children(n)
	text := strings.TrimSpace(sub.line.String())
	href := attr(n, "href")

	switch {
	case text == "" && href == "":
		return
	case text == "":
		text = href
	}
	label := text
	if r.styled {
		label = linkStyle.Render(text)
	}
	r.line.WriteString(label)
	if href != "" && href != text {
		r.line.WriteString(" (" + href + ")")
	}
}

func (r *renderer) bullet() string {
	depth := len(r.lists)
	if depth == 0 {
		return "• "
	}
	indent := strings.Repeat("  ", depth-1)
	l := &r.lists[depth-1]
	if l.ordered {
		b := indent + strconv.Itoa(l.next) + ". "
		l.next++
		return b
	}
	return indent + "• "
}

// code renders a <pre> block, highlighting it when a language is known.
func (r *renderer) code(n *html.Node) string {
	var buf strings.Builder
	collectText(n, &buf)
	src := strings.TrimRight(buf.String(), "\n")

	lang := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Code {
			lang = languageOf(attr(c, "class"))
			break
		}
	}
	if !r.styled {
		return src
	}
	return highlightCode(src, lang)
}

// flush writes the pending inline text as wrapped lines.
func (r *renderer) flush() {
	if r.line.Len() == 0 {
		return
	}
	text := strings.TrimSpace(r.line.String())
	r.line.Reset()
	if text == "" {
		return
	}
	if r.width > 0 {
		text = wordwrap.String(text, r.width)
	}
	r.out.WriteString(text)
	r.out.WriteString("\n")
}

// block ends the current paragraph and leaves one blank line after it.
func (r *renderer) block() {
	r.flush()
	s := r.out.String()
	if s == "" || strings.HasSuffix(s, "\n\n") {
		return
	}
	if strings.HasSuffix(s, "\n") {
		r.out.WriteString("\n")
		return
	}
	r.out.WriteString("\n\n")
}

func (r *renderer) ruleWidth() int {
	if r.width > 0 && r.width < 40 {
		return r.width
	}
	return 40
}

func collectText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, buf)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// languageOf extracts "go" from class="language-go" or "lang-go".
func languageOf(class string) string {
	for _, c := range strings.Fields(class) {
		if l, ok := strings.CutPrefix(c, "language-"); ok {
			return l
		}
		if l, ok := strings.CutPrefix(c, "lang-"); ok {
			return l
		}
	}
	return ""
}

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n") != s
}
