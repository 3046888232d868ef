// Package markdown renders post text to sanitized HTML and plain-text previews.
package markdown

import (
	"bytes"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

// Raw HTML in the source is dropped: goldmark leaves WithUnsafe off.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// RenderString converts markdown to an HTML fragment.
func RenderString(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render is RenderString for templates. On a conversion error it falls
// back to the escaped source.
func Render(text string) template.HTML {
	out, err := RenderString(text)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(out)
}

// PlainText renders text and returns only its visible words.
func PlainText(text string) string {
	rendered, err := RenderString(text)
	if err != nil {
		return strings.Join(strings.Fields(text), " ")
	}
	return extractText(rendered)
}

// Excerpt returns at most n runes of the rendered text, cut on a word
// boundary when possible.
func Excerpt(text string, n int) string {
	plain := PlainText(text)
	if n <= 0 || utf8.RuneCountInString(plain) <= n {
		return plain
	}
	runes := []rune(plain)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:-") + "…"
}

func extractText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var parts []string
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; either way the text so far is the result.
			return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isSkipped(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isSkipped(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				parts = append(parts, string(z.Text()))
			}
		}
	}
}

func isSkipped(tag string) bool {
	return tag == "pre" || tag == "script" || tag == "style"
}
