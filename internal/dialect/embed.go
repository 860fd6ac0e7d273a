package dialect

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-blogmark/internal/mdast"
)

var (
	sizeOption  = regexp.MustCompile(`^([1-9][0-9]*)x([1-9][0-9]*)$`)
	startOption = regexp.MustCompile(`^([0-9]+)s$`)
	youtubeID   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	productID   = regexp.MustCompile(`^[0-9A-Z]{10}$`)
	imageID     = regexp.MustCompile(`^[A-Za-z0-9%+._-]+$`)
)

// Size and start options above these bounds make the line unrecognized.
const (
	maxDimension    = 100000
	maxStartSeconds = 24 * 60 * 60
)

var videoExtensions = map[string]bool{".mp4": true, ".webm": true, ".mov": true}

// embedLine is one parsed "@name: body <options>" line.
type embedLine struct {
	name    string
	body    string
	options []string
}

// parseEmbedLine splits s into name, body and options. The option block
// is the last "<...>" at the very end of the line.
func parseEmbedLine(s string) (embedLine, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "@") {
		return embedLine{}, false
	}
	colon := strings.IndexByte(s, ':')
	if colon < 2 {
		return embedLine{}, false
	}
	e := embedLine{name: s[1:colon]}
	if strings.ContainsAny(e.name, " \t") {
		return embedLine{}, false
	}
	rest := s[colon+1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return embedLine{}, false
	}
	rest = strings.TrimSpace(rest)
	if strings.HasSuffix(rest, ">") {
		if lt := strings.LastIndexByte(rest, '<'); lt >= 0 {
			e.options = strings.Fields(rest[lt+1 : len(rest)-1])
			rest = strings.TrimSpace(rest[:lt])
		}
	}
	e.body = rest
	return e, true
}

// embedLineText returns a line's text, also accepting raw HTML pieces
// since an option block such as <Abc> parses as an inline tag.
func embedLineText(line []*mdast.Node) (string, bool) {
	var sb strings.Builder
	for _, n := range line {
		switch n.Kind {
		case mdast.Text, mdast.RawHTML:
			sb.WriteString(n.Literal)
		default:
			return "", false
		}
	}
	return sb.String(), true
}

func recognizeEmbeds(c *compilation) {
	for _, tree := range c.trees() {
		eachBlockContainer(tree, func(parent *mdast.Node) {
			for i, child := range parent.Children {
				var group *mdast.Node
				switch {
				case child.Kind == mdast.Paragraph:
					group = embedParagraph(child)
				case child.Kind == mdast.List && !child.Ordered:
					group = productList(child)
				}
				if group != nil {
					group.Pos = child.Pos
					parent.Children[i] = group
				}
			}
		})
	}
}

// embedParagraph recognizes a paragraph made only of media lines or only
// of YouTube lines.
func embedParagraph(p *mdast.Node) *mdast.Node {
	var items []*mdast.Node
	var kind mdast.Kind
	for _, line := range mdast.SplitLines(p.Children) {
		s, ok := embedLineText(line)
		if !ok {
			return nil
		}
		e, ok := parseEmbedLine(s)
		if !ok {
			return nil
		}
		var item *mdast.Node
		var group mdast.Kind
		switch {
		case e.name == "youtube":
			item, ok = youtubeItem(e)
			group = mdast.EmbeddedYouTubeGroup
		case strings.Contains(e.name, "."):
			item, ok = mediaItem(e)
			group = mdast.EmbeddedMediaGroup
		default:
			return nil
		}
		if !ok || kind != 0 && kind != group {
			return nil
		}
		kind = group
		item.Pos = mdast.LinePosition(line)
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil
	}
	return mdast.New(kind, items...)
}

func mediaItem(e embedLine) (*mdast.Node, bool) {
	n := &mdast.Node{Kind: mdast.MediaItem}
	n.Name = e.name
	n.Caption = e.body
	n.Video = videoExtensions[strings.ToLower(path.Ext(e.name))]
	for _, opt := range e.options {
		w, h, ok := parseSize(opt)
		if !ok || n.Width != 0 {
			return nil, false
		}
		n.Width, n.Height = w, h
	}
	return n, true
}

func youtubeItem(e embedLine) (*mdast.Node, bool) {
	id, title, _ := strings.Cut(e.body, " ")
	if !youtubeID.MatchString(id) {
		return nil, false
	}
	n := &mdast.Node{Kind: mdast.YouTubeItem}
	n.Name = id
	n.Caption = strings.TrimSpace(title)
	for _, opt := range e.options {
		if w, h, ok := parseSize(opt); ok && n.Width == 0 {
			n.Width, n.Height = w, h
			continue
		}
		m := startOption.FindStringSubmatch(opt)
		if m == nil || n.StartAt != 0 {
			return nil, false
		}
		start, err := strconv.Atoi(m[1])
		if err != nil || start > maxStartSeconds {
			return nil, false
		}
		n.StartAt = start
	}
	return n, true
}

// productList recognizes an unordered list whose every item is a single
// "@amazon: ASIN title <imageId WxH>" line.
func productList(list *mdast.Node) *mdast.Node {
	if len(list.Children) == 0 {
		return nil
	}
	group := mdast.New(mdast.EmbeddedProductGroup)
	for _, li := range list.Children {
		if len(li.Children) != 1 || li.Children[0].Kind != mdast.Paragraph {
			return nil
		}
		lines := mdast.SplitLines(li.Children[0].Children)
		if len(lines) != 1 {
			return nil
		}
		s, ok := embedLineText(lines[0])
		if !ok {
			return nil
		}
		e, ok := parseEmbedLine(s)
		if !ok || e.name != "amazon" {
			return nil
		}
		item, ok := productItem(e)
		if !ok {
			return nil
		}
		item.Pos = li.Pos
		group.Append(item)
	}
	return group
}

func productItem(e embedLine) (*mdast.Node, bool) {
	id, title, _ := strings.Cut(e.body, " ")
	if !productID.MatchString(id) {
		return nil, false
	}
	n := &mdast.Node{Kind: mdast.ProductItem}
	n.Name = id
	n.Caption = strings.TrimSpace(title)
	for _, opt := range e.options {
		if w, h, ok := parseSize(opt); ok && n.Width == 0 {
			n.Width, n.Height = w, h
			continue
		}
		if !imageID.MatchString(opt) || n.ImageID != "" {
			return nil, false
		}
		n.ImageID = opt
	}
	return n, true
}

func parseSize(s string) (w, h int, ok bool) {
	m := sizeOption.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	w, errW := strconv.Atoi(m[1])
	h, errH := strconv.Atoi(m[2])
	if errW != nil || errH != nil || w > maxDimension || h > maxDimension {
		return 0, 0, false
	}
	return w, h, true
}
