package dialect

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/alnah/go-blogmark/internal/mdast"
)

var (
	// absoluteURL allows http(s) with the RFC 3986 character set.
	absoluteURL = regexp.MustCompile(`^https?://[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]+$`)
	entryRef    = regexp.MustCompile(`^([1-9][0-9]*)(#[A-Za-z0-9_-]+)?$`)
	amazonRef   = regexp.MustCompile(`^amazon:([0-9A-Z]{10})$`)
)

// Type icon keys set in LinkMeta.TypeIcon.
const (
	TypeIconPDF    = "pdf"
	TypeIconAmazon = "amazon"
)

// AmazonURL returns the affiliate product URL for asin.
func AmazonURL(asin, trackingID string) string {
	u := "https://www.amazon.co.jp/dp/" + asin + "/ref=nosim"
	if trackingID != "" {
		u += "?tag=" + url.QueryEscape(trackingID)
	}
	return u
}

// ClassifyLink resolves a link target. The first matching rule wins:
// absolute URL, entry number, amazon: product, in-page anchor. Anything
// else yields a meta without href.
func ClassifyLink(target, text string, opts Options) mdast.LinkMeta {
	var m mdast.LinkMeta
	switch {
	case absoluteURL.MatchString(target):
		m.Href, m.HasHref = target, true
		u, err := url.Parse(target)
		if err != nil {
			return m
		}
		if strings.HasSuffix(strings.ToLower(u.Path), ".pdf") {
			m.TypeIcon = TypeIconPDF
		}
		if text == target {
			return m
		}
		host := strings.ToLower(u.Hostname())
		if key, ok := lookupHost(host, opts.HostIcons); ok {
			m.HostIcon = key
		} else if host != "" {
			m.HostText = host
		}
	case entryRef.MatchString(target):
		sub := entryRef.FindStringSubmatch(target)
		m.Href, m.HasHref = "/"+sub[1]+sub[2], true
	case amazonRef.MatchString(target):
		sub := amazonRef.FindStringSubmatch(target)
		m.Href, m.HasHref = AmazonURL(sub[1], opts.AmazonTrackingID), true
		m.TypeIcon = TypeIconAmazon
	case isAnchor(target, opts.SlugPrefix):
		m.Href, m.HasHref = target, true
	}
	return m
}

func isAnchor(target, prefix string) bool {
	if !strings.HasPrefix(target, "#"+prefix) {
		return false
	}
	return !strings.ContainsAny(target, " \t\n")
}

// lookupHost finds host in icons, then each parent domain of host.
func lookupHost(host string, icons map[string]Icon) (string, bool) {
	for host != "" {
		if _, ok := icons[host]; ok {
			return host, true
		}
		dot := strings.IndexByte(host, '.')
		if dot < 0 {
			break
		}
		host = host[dot+1:]
	}
	return "", false
}

// recognizeInlines classifies link targets and rewrites {{quotes}} in
// every inline container.
func recognizeInlines(c *compilation) {
	for _, tree := range c.trees() {
		mdast.Walk(tree, func(n *mdast.Node, entering bool) mdast.WalkStatus {
			if !entering {
				return mdast.WalkContinue
			}
			switch n.Kind {
			case mdast.Code, mdast.CodeBlock, mdast.HTMLBlock, mdast.Image:
				return mdast.WalkSkipChildren
			case mdast.Link:
				meta := ClassifyLink(n.Target, mdast.PlainText(n), c.opts)
				n.Meta = &meta
			}
			if n.Kind.IsDialect() {
				return mdast.WalkContinue
			}
			rewriteQuotes(n)
			return mdast.WalkContinue
		})
	}
}

func rewriteQuotes(parent *mdast.Node) {
	var out []*mdast.Node
	changed := false
	for _, child := range parent.Children {
		if child.Kind != mdast.Text {
			out = append(out, child)
			continue
		}
		parts := splitQuotes(child)
		if len(parts) != 1 || parts[0] != child {
			changed = true
		}
		out = append(out, parts...)
	}
	if joined, ok := joinQuotes(out); ok {
		out, changed = joined, true
	}
	if changed {
		parent.Children = out
	}
}
