package render

import (
	"errors"
	"html"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-blogmark/internal/baseline"
	"github.com/alnah/go-blogmark/internal/dialect"
)

const testThumbnailURL = "https://img.example.com/{path}?type={type}&w={w}&h={h}&q={quality}"

func testOptions() Options {
	return Options{
		Languages: []string{"go", "sh"},
		HostIcons: map[string]dialect.Icon{
			"github.com": {Src: "/icons/github.svg", Alt: "GitHub"},
		},
		TypeIcons: map[string]dialect.Icon{
			dialect.TypeIconPDF:    {Src: "/icons/pdf.svg", Alt: "PDF"},
			dialect.TypeIconAmazon: {Src: "/icons/amazon.svg", Alt: "Amazon"},
		},
		AmazonTrackingID: "blog-22",
		ThumbnailURL:     testThumbnailURL,
		OriginURL:        "https://media.example.com/",
	}
}

func renderString(t *testing.T, src string) string {
	t.Helper()
	tree, err := baseline.Parse([]byte(src))
	if err != nil {
		t.Fatalf("baseline.Parse() error: %v", err)
	}
	opts := testOptions()
	dopts := dialect.DefaultOptions()
	dopts.HostIcons = opts.HostIcons
	dopts.AmazonTrackingID = opts.AmazonTrackingID
	res := dialect.Compile(tree.Root, dopts)

	r, err := New(opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	out, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return out
}

func renderDoc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(renderString(t, src)))
	if err != nil {
		t.Fatalf("goquery: %v", err)
	}
	return doc
}

func attr(t *testing.T, sel *goquery.Selection, name string) string {
	t.Helper()
	if sel.Length() == 0 {
		t.Fatalf("selection for attribute %q is empty", name)
	}
	v, ok := sel.Attr(name)
	if !ok {
		t.Fatalf("attribute %q missing", name)
	}
	return v
}

func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Options)
		want   error
	}{
		{"valid", func(*Options) {}, nil},
		{"no languages", func(o *Options) { o.Languages = nil }, ErrEmptyLanguageList},
		{"no host icons", func(o *Options) { o.HostIcons = nil }, ErrEmptyIconTable},
		{"missing pdf icon", func(o *Options) { delete(o.TypeIcons, dialect.TypeIconPDF) }, ErrEmptyIconTable},
		{"thumbnail without path", func(o *Options) { o.ThumbnailURL = "https://img.example.com/" }, ErrInvalidThumbnailURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := testOptions()
			tt.modify(&opts)
			err := opts.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
			if _, err := New(opts); !errors.Is(err, tt.want) {
				t.Errorf("New() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRender_PlainTextEscaping(t *testing.T) {
	t.Parallel()

	text := `a < b & "c" 'd'`
	got := renderString(t, text+"\n")
	want := "<p>" + html.EscapeString(text) + "</p>"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_RawHTMLIsEscaped(t *testing.T) {
	t.Parallel()

	got := renderString(t, "<div>x</div>\n\na <b>c</b>\n")
	if strings.Contains(got, "<div>") || strings.Contains(got, "<b>") {
		t.Errorf("raw HTML passed through: %q", got)
	}
	if !strings.Contains(got, "&lt;b&gt;") {
		t.Errorf("escaped inline HTML missing: %q", got)
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	src := "# One\n\ntext[^1] [x](https://example.com/)\n\n# Two\n\n```go\na := 1\nb := 2\n```\n\n[^1]: note\n"
	first := renderString(t, src)
	for i := 0; i < 5; i++ {
		if got := renderString(t, src); got != first {
			t.Fatalf("render %d differs:\n%s\n---\n%s", i, got, first)
		}
	}
}

func TestRender_Links(t *testing.T) {
	t.Parallel()

	t.Run("external link with host caption", func(t *testing.T) {
		t.Parallel()
		out := renderString(t, "[x](https://example.com/?a=1&b=2)\n")
		if !strings.Contains(out, `href="https://example.com/?a=1&amp;b=2"`) {
			t.Errorf("ampersand not escaped in href: %s", out)
		}
		if !strings.Contains(out, `<small class="c-domain">(example.com)</small>`) {
			t.Errorf("host caption missing: %s", out)
		}
	})

	t.Run("host icon from parent domain", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "[repo](https://gist.github.com/x)\n")
		if got := attr(t, doc.Find("a img.c-link-icon"), "src"); got != "/icons/github.svg" {
			t.Errorf("icon src = %q", got)
		}
		if doc.Find("small.c-domain").Length() != 0 {
			t.Error("host caption rendered next to icon")
		}
	})

	t.Run("autolink has no caption", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "<https://example.com/>\n")
		if doc.Find("small.c-domain").Length() != 0 {
			t.Error("caption rendered for bare URL")
		}
	})

	t.Run("pdf type icon", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "[paper](https://example.com/a.pdf)\n")
		if got := attr(t, doc.Find("a img.c-link-icon").First(), "src"); got != "/icons/pdf.svg" {
			t.Errorf("icon src = %q", got)
		}
	})

	t.Run("entry number", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "[prev](1) [frag](12#intro)\n")
		links := doc.Find("a")
		if got := attr(t, links.Eq(0), "href"); got != "/1" {
			t.Errorf("href = %q, want /1", got)
		}
		if got := attr(t, links.Eq(1), "href"); got != "/12#intro" {
			t.Errorf("href = %q, want /12#intro", got)
		}
	})

	t.Run("amazon product", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "[book](amazon:4065199816)\n")
		a := doc.Find("a")
		if got := attr(t, a, "href"); got != "https://www.amazon.co.jp/dp/4065199816/ref=nosim?tag=blog-22" {
			t.Errorf("href = %q", got)
		}
		if got := attr(t, a.Find("img.c-link-icon"), "src"); got != "/icons/amazon.svg" {
			t.Errorf("icon src = %q", got)
		}
	})

	t.Run("anchor and broken link", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "[a](#section-one) [b](nowhere)\n")
		if got := attr(t, doc.Find("a").Eq(0), "href"); got != "#section-one" {
			t.Errorf("href = %q", got)
		}
		if _, ok := doc.Find("a").Eq(1).Attr("href"); ok {
			t.Error("broken link has href")
		}
		if got := doc.Find("a").Eq(1).Text(); got != "b" {
			t.Errorf("broken link text = %q", got)
		}
	})
}

func TestRender_Quotes(t *testing.T) {
	t.Parallel()

	t.Run("blockquote with valid ISBN", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "> q\n> ? 978-4-06-519981-7 Book\n")
		bq := doc.Find("figure.p-quote > blockquote")
		if got := attr(t, bq, "cite"); got != "urn:ISBN:978-4-06-519981-7" {
			t.Errorf("cite = %q", got)
		}
		if got := doc.Find("figcaption cite").Text(); got != "Book" {
			t.Errorf("caption = %q", got)
		}
	})

	t.Run("blockquote with url and lang", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "> hello\n> ? en https://example.com/src Author\n")
		bq := doc.Find("blockquote")
		if attr(t, bq, "lang") != "en" || attr(t, bq, "cite") != "https://example.com/src" {
			t.Errorf("blockquote attrs = %v", bq.Nodes[0].Attr)
		}
		if got := attr(t, doc.Find("figcaption cite a"), "href"); got != "https://example.com/src" {
			t.Errorf("caption link = %q", got)
		}
	})

	t.Run("plain blockquote", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "> just text\n")
		if doc.Find("figure").Length() != 0 {
			t.Error("figure rendered without citation")
		}
	})

	t.Run("omission marker", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "> a\n> ~\n> b\n")
		if doc.Find("blockquote p.p-quote__omit").Length() != 1 {
			t.Error("omission marker missing")
		}
	})

	t.Run("inline quote with invalid ISBN", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "say {{text}}(978-4-06-519981-8) now\n")
		q := doc.Find("q")
		if q.Length() != 1 {
			t.Fatalf("got %d <q>", q.Length())
		}
		if _, ok := q.Attr("cite"); ok {
			t.Error("invalid ISBN produced a cite")
		}
		if got := doc.Find("p").Text(); got != "say text now" {
			t.Errorf("paragraph text = %q", got)
		}
	})

	t.Run("inline quote around markup", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "{{*a*}} and {{x **b** y}}(en) end\n")
		qs := doc.Find("q")
		if qs.Length() != 2 {
			t.Fatalf("got %d <q>: %s", qs.Length(), renderString(t, "{{*a*}} and {{x **b** y}}(en) end\n"))
		}
		if got := qs.Eq(0).Find("em").Text(); got != "a" {
			t.Errorf("first quote em = %q", got)
		}
		if qs.Eq(1).Find("strong").Length() != 1 || attr(t, qs.Eq(1), "lang") != "en" {
			t.Errorf("second quote = %v", qs.Eq(1).Nodes[0].Attr)
		}
		if got := doc.Find("p").Text(); got != "a and x b y end" {
			t.Errorf("paragraph text = %q", got)
		}
	})

	t.Run("inline quote does not cross lines", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "{{*a*\nb}}\n")
		if doc.Find("q").Length() != 0 {
			t.Error("quote spans a line break")
		}
	})

	t.Run("inline quote with url", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "{{hi}}(ja https://example.com/)\n")
		q := doc.Find("a > q")
		if attr(t, q, "lang") != "ja" || attr(t, q.Parent(), "href") != "https://example.com/" {
			t.Errorf("quote markup: %s", renderString(t, "{{hi}}(ja https://example.com/)\n"))
		}
	})
}

func TestRender_Media(t *testing.T) {
	t.Parallel()

	t.Run("sized image", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "@photos/cat.jpg: A cat <640x480>\n")
		img := doc.Find("figure.p-embed picture img")
		want := "https://img.example.com/photos/cat.jpg?type=jpeg&w=640&h=480&q=80"
		if got := attr(t, img, "src"); got != want {
			t.Errorf("src = %q, want %q", got, want)
		}
		if attr(t, img, "width") != "640" || attr(t, img, "height") != "480" || attr(t, img, "alt") != "A cat" {
			t.Errorf("img attrs = %v", img.Nodes[0].Attr)
		}
		sources := doc.Find("picture source")
		if sources.Length() != 2 || attr(t, sources.Eq(0), "type") != "image/avif" {
			t.Fatalf("sources = %d", sources.Length())
		}
		wantSet := "https://img.example.com/photos/cat.jpg?type=webp&w=640&h=480&q=75 1x, " +
			"https://img.example.com/photos/cat.jpg?type=webp&w=1280&h=960&q=75 2x"
		if got := attr(t, sources.Eq(1), "srcset"); got != wantSet {
			t.Errorf("srcset = %q", got)
		}
		if got := doc.Find("figcaption").Text(); got != "A cat" {
			t.Errorf("caption = %q", got)
		}
	})

	t.Run("oversized image is scaled down", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "@wide.png: Wide <2560x1440>\n")
		img := doc.Find("picture img")
		if attr(t, img, "width") != "1280" || attr(t, img, "height") != "720" {
			t.Errorf("size = %sx%s", attr(t, img, "width"), attr(t, img, "height"))
		}
	})

	t.Run("largest square keeps its ratio", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "@photo.jpg: Cap <100000x100000>\n")
		img := doc.Find("picture img")
		if attr(t, img, "width") != "1280" || attr(t, img, "height") != "1280" {
			t.Errorf("size = %sx%s", attr(t, img, "width"), attr(t, img, "height"))
		}
	})

	t.Run("size past the limit stays literal", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "@photo.jpg: Cap <99999999999999999999x99999999999999999999>\n")
		if doc.Find("figure").Length() != 0 {
			t.Errorf("unexpected figure: %s", renderString(t, "@photo.jpg: Cap <99999999999999999999x99999999999999999999>\n"))
		}
		if !strings.Contains(doc.Text(), "99999999999999999999") {
			t.Errorf("literal text lost: %q", doc.Text())
		}
	})

	t.Run("video", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "@clips/run.mp4: Running\n")
		video := doc.Find("figure.p-embed video")
		if got := attr(t, video, "src"); got != "https://media.example.com/clips/run.mp4" {
			t.Errorf("src = %q", got)
		}
		if _, ok := video.Attr("controls"); !ok {
			t.Error("video without controls")
		}
	})

	t.Run("youtube", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "@youtube: dQw4w9WgXcQ Song <42s>\n")
		iframe := doc.Find("figure iframe")
		if got := attr(t, iframe, "src"); got != "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ?start=42" {
			t.Errorf("src = %q", got)
		}
		if attr(t, iframe, "width") != "640" || attr(t, iframe, "height") != "360" {
			t.Error("default size not 640x360")
		}
		if got := attr(t, doc.Find("figcaption a"), "href"); !strings.HasPrefix(got, "https://www.youtube.com/watch?v=dQw4w9WgXcQ") {
			t.Errorf("watch link = %q", got)
		}
	})

	t.Run("products", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "- @amazon: 4065199816 Book <51abc>\n- @amazon: B00TEST123\n")
		items := doc.Find("ul.p-amazon > li")
		if items.Length() != 2 {
			t.Fatalf("got %d products", items.Length())
		}
		first := items.Eq(0).Find("a")
		if got := attr(t, first, "href"); got != "https://www.amazon.co.jp/dp/4065199816/ref=nosim?tag=blog-22" {
			t.Errorf("href = %q", got)
		}
		if got := attr(t, first.Find("img.p-amazon__image"), "src"); got != "https://m.media-amazon.com/images/I/51abc._SL160_.jpg" {
			t.Errorf("image = %q", got)
		}
		if got := items.Eq(1).Find(".p-amazon__title").Text(); got != "B00TEST123" {
			t.Errorf("fallback title = %q", got)
		}
	})
}

func TestFitSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h, wantW, wantH int
	}{
		{640, 480, 640, 480},
		{2560, 1440, 1280, 720},
		{1000, 4000, 320, 1280},
		{100000, 100000, 1280, 1280},
		{100000, 50000, 1280, 640},
		{0, 0, 1280, 1280},
	}
	for _, tt := range tests {
		w, h := fitSize(tt.w, tt.h, 1280, 1280)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitSize(%d, %d) = %d, %d, want %d, %d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestRender_Footnotes(t *testing.T) {
	t.Parallel()

	t.Run("references and back-links match", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "a[^x] b[^y] c[^x]\n\n[^y]: why\n\n[^x]: ex\n")
		refs := doc.Find("sup.p-fnref a")
		if refs.Length() != 3 {
			t.Fatalf("got %d references", refs.Length())
		}
		if attr(t, refs.Eq(0), "href") != "#fn-1" || attr(t, refs.Eq(1), "href") != "#fn-2" {
			t.Error("numbering does not follow first reference")
		}
		if got := refs.Eq(2).Text(); got != "[1]" {
			t.Errorf("repeat reference text = %q", got)
		}
		refs.Each(func(_ int, ref *goquery.Selection) {
			id := attr(t, ref, "id")
			back := doc.Find(`section.p-footnotes a[href="#` + id + `"]`)
			if back.Length() != 1 {
				t.Errorf("no back-link for %s", id)
			}
			target := strings.TrimPrefix(attr(t, ref, "href"), "#")
			if doc.Find("li#"+target).Length() != 1 {
				t.Errorf("no definition %s", target)
			}
		})
		if got := doc.Find("li#fn-1").Text(); !strings.HasPrefix(got, "ex") {
			t.Errorf("fn-1 = %q", got)
		}
	})

	t.Run("unmatched reference stays literal", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "a[^2]\n")
		if doc.Find("sup").Length() != 0 || doc.Find("section.p-footnotes").Length() != 0 {
			t.Error("footnote markup for unmatched reference")
		}
		if got := doc.Find("p").Text(); got != "a[^2]" {
			t.Errorf("text = %q", got)
		}
	})

	t.Run("empty id stays literal", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "text[^]\n\n[^]: x\n")
		if doc.Find("a").Length() != 0 || doc.Find("sup").Length() != 0 {
			t.Errorf("link markup for empty id: %s", renderString(t, "text[^]\n\n[^]: x\n"))
		}
		ps := doc.Find("p")
		if ps.Length() != 2 || ps.Eq(0).Text() != "text[^]" || ps.Eq(1).Text() != "[^]: x" {
			t.Errorf("paragraphs = %d %q", ps.Length(), doc.Text())
		}
	})

	t.Run("unreferenced definition is listed without back-link", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "text\n\n[^z]: lonely\n")
		li := doc.Find("section.p-footnotes li#fn-1")
		if li.Length() != 1 {
			t.Fatal("definition not listed")
		}
		if li.Find("a.p-footnotes__back").Length() != 0 {
			t.Error("back-link without reference")
		}
	})
}

func TestRender_Headings(t *testing.T) {
	t.Parallel()

	t.Run("sections and slug dedupe", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "## Same\n\na\n\n## Same\n\nb\n")
		secs := doc.Find("section.p-section")
		if secs.Length() != 2 {
			t.Fatalf("got %d sections", secs.Length())
		}
		if attr(t, secs.Eq(0), "id") != "section-same" || attr(t, secs.Eq(1), "id") != "section-same-2" {
			t.Error("slugs not deduplicated")
		}
		if _, ok := secs.Eq(0).Find("h2").Attr("id"); ok {
			t.Error("section heading carries id")
		}
	})

	t.Run("table of contents", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "# One\n\n# Two\n")
		links := doc.Find("nav.p-toc ol li a")
		if links.Length() != 2 {
			t.Fatalf("got %d toc entries", links.Length())
		}
		if attr(t, links.Eq(1), "href") != "#section-two" || links.Eq(1).Text() != "Two" {
			t.Error("toc entry mismatch")
		}
		if doc.Find("nav.p-toc + section").Length() != 1 {
			t.Error("toc not placed before first section")
		}
	})

	t.Run("deep heading becomes break", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "#### Deep\n")
		if doc.Find("hr.p-section-break").Length() != 1 || doc.Find("h4").Length() != 0 {
			t.Error("deep heading rendered")
		}
	})
}

func TestRender_CodeBlocks(t *testing.T) {
	t.Parallel()

	t.Run("multi-line block has clipboard", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "```go\na := 1\nb := 2\n```\n")
		button := doc.Find("div.p-code-block > button.p-code__clipboard")
		code := doc.Find("pre.p-code > code.language-go")
		if attr(t, button, "data-clipboard-target") != "#"+attr(t, code, "id") {
			t.Error("clipboard target mismatch")
		}
		if code.Find("span").Length() == 0 {
			t.Error("allowed language not highlighted")
		}
		if got := code.Text(); got != "a := 1\nb := 2\n" {
			t.Errorf("code text = %q", got)
		}
	})

	t.Run("single line block has no clipboard", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "```go\na := 1\n```\n")
		if doc.Find("button").Length() != 0 {
			t.Error("clipboard on single line")
		}
	})

	t.Run("language outside allow-list is plain", func(t *testing.T) {
		t.Parallel()
		doc := renderDoc(t, "```python\nx = 1\ny = 2\n```\n")
		if doc.Find("code span").Length() != 0 {
			t.Error("python highlighted")
		}
	})
}

func TestRender_Boxes(t *testing.T) {
	t.Parallel()

	doc := renderDoc(t, ":::note\nbody\n:::\n")
	if got := doc.Find("div.p-box.p-box--note p").Text(); got != "body" {
		t.Errorf("box body = %q", got)
	}
}
