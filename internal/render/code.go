package render

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/net/html"

	"github.com/alnah/go-blogmark/internal/mdast"
)

// codeBlock renders <pre class="p-code"><code>. Multi-line blocks get a
// clipboard button targeting the code element.
func (s *state) codeBlock(n *mdast.Node) *html.Node {
	s.codeBlocks++
	id := "p-code-" + strconv.Itoa(s.codeBlocks)
	code := element("code", "id", id)
	lang := strings.ToLower(n.Language)
	if lang != "" {
		setAttr(code, "class", "language-"+lang)
	}
	wrap(code, s.highlight(lang, n.Literal)...)

	pre := wrap(element("pre", "class", "p-code"), code)
	if !strings.Contains(strings.TrimRight(n.Literal, "\n"), "\n") {
		return pre
	}
	button := element("button",
		"type", "button",
		"class", "p-code__clipboard",
		"data-clipboard-target", "#"+id)
	return wrap(element("div", "class", "p-code-block"), wrap(button, textNode("Copy")), pre)
}

// highlight tokenizes source with chroma when lang is allowed and known.
// Tokens become spans carrying chroma's short class names.
func (s *state) highlight(lang, source string) []*html.Node {
	plain := []*html.Node{textNode(source)}
	if lang == "" || !s.r.languages[lang] {
		return plain
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return plain
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err != nil {
		return plain
	}
	var out []*html.Node
	for _, tok := range it.Tokens() {
		class := tokenClass(tok.Type)
		if class == "" {
			out = append(out, textNode(tok.Value))
			continue
		}
		out = append(out, wrap(element("span", "class", class), textNode(tok.Value)))
	}
	return out
}

// tokenClass looks the type up, falling back to its sub-category and
// category.
func tokenClass(t chroma.TokenType) string {
	for _, candidate := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if class, ok := chroma.StandardTypes[candidate]; ok {
			return class
		}
	}
	return ""
}
