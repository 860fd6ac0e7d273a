package blogmark_test

import (
	"context"
	"errors"
	"html"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-blogmark"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

func newCompiler(t *testing.T, opts ...blogmark.Option) *blogmark.Compiler {
	t.Helper()
	base := []blogmark.Option{
		blogmark.WithAmazonTrackingID("blog-22"),
		blogmark.WithThumbnailURL("https://img.example.com/{path}?type={type}&w={w}&h={h}"),
	}
	c, err := blogmark.NewCompiler(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewCompiler() error = %v", err)
	}
	return c
}

func render(t *testing.T, c *blogmark.Compiler, md string) *blogmark.Result {
	t.Helper()
	res, err := c.Render(context.Background(), md)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return res
}

func parseHTML(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("goquery: %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestNewCompiler - Configuration errors
// ---------------------------------------------------------------------------

func TestNewCompiler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []blogmark.Option
		wantErr error
	}{
		{"defaults", nil, nil},
		{"depth zero", []blogmark.Option{blogmark.WithMaxHeadingDepth(0)}, blogmark.ErrInvalidHeadingDepth},
		{"depth seven", []blogmark.Option{blogmark.WithMaxHeadingDepth(7)}, blogmark.ErrInvalidHeadingDepth},
		{"empty languages", []blogmark.Option{blogmark.WithLanguages()}, blogmark.ErrEmptyLanguageList},
		{"empty host icons", []blogmark.Option{blogmark.WithHostIcons(nil)}, blogmark.ErrEmptyIconTable},
		{"thumbnail without path", []blogmark.Option{blogmark.WithThumbnailURL("https://img.example.com/")}, blogmark.ErrInvalidThumbnailURL},
		{"slug prefix with space", []blogmark.Option{blogmark.WithSlugPrefix("a b")}, blogmark.ErrInvalidSlugPrefix},
		{"negative bounds", []blogmark.Option{blogmark.WithMediaBounds(-1, 10)}, blogmark.ErrInvalidMediaBounds},
		{"unknown rule", []blogmark.Option{blogmark.WithDisabledRules("no-such-rule")}, blogmark.ErrUnknownRule},
		{"known rule", []blogmark.Option{blogmark.WithDisabledRules("no-html")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := blogmark.NewCompiler(tt.opts...)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("NewCompiler() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewCompiler() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRender - End to end scenarios
// ---------------------------------------------------------------------------

func TestRender_InvalidUTF8(t *testing.T) {
	t.Parallel()

	c := newCompiler(t)
	if _, err := c.Render(context.Background(), "a\xffb"); !errors.Is(err, blogmark.ErrInvalidUTF8) {
		t.Errorf("Render() error = %v, want ErrInvalidUTF8", err)
	}
	if _, err := c.Lint("a\xffb"); !errors.Is(err, blogmark.ErrInvalidUTF8) {
		t.Errorf("Lint() error = %v, want ErrInvalidUTF8", err)
	}
}

func TestRender_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newCompiler(t).Render(ctx, "x\n"); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRender_PlainText(t *testing.T) {
	t.Parallel()

	text := `Tom & Jerry say "1 < 2" and 'ok'`
	res := render(t, newCompiler(t), text)
	if want := "<p>" + html.EscapeString(text) + "</p>"; res.HTML != want {
		t.Errorf("HTML = %q, want %q", res.HTML, want)
	}
	if res.Diagnostics == nil {
		t.Error("Diagnostics is nil, want empty list")
	}
}

func TestRender_LinkScenarios(t *testing.T) {
	t.Parallel()

	c := newCompiler(t)

	t.Run("absolute URL gets host caption", func(t *testing.T) {
		t.Parallel()

		res := render(t, c, "text1[link1](https://example.com/?foo=hoge&bar=piyo)text2\n")
		if !strings.Contains(res.HTML, `href="https://example.com/?foo=hoge&amp;bar=piyo"`) {
			t.Errorf("query not escaped: %s", res.HTML)
		}
		if !strings.Contains(res.HTML, "(example.com)") {
			t.Errorf("host caption missing: %s", res.HTML)
		}
	})

	t.Run("entry number", func(t *testing.T) {
		t.Parallel()

		res := render(t, c, "text1[link1](1)text2\n")
		if !strings.Contains(res.HTML, `<a href="/1">link1</a>`) {
			t.Errorf("HTML = %s", res.HTML)
		}
	})

	t.Run("amazon never takes the URL branch", func(t *testing.T) {
		t.Parallel()

		doc := parseHTML(t, render(t, c, "[book](amazon:4065199816)\n").HTML)
		a := doc.Find("a").First()
		href, _ := a.Attr("href")
		if !strings.Contains(href, "4065199816") || !strings.Contains(href, "tag=blog-22") {
			t.Errorf("href = %q", href)
		}
		if doc.Find("small.c-domain").Length() != 0 {
			t.Error("amazon link got a host caption")
		}
	})
}

func TestRender_ISBNQuote(t *testing.T) {
	t.Parallel()

	c := newCompiler(t)

	res := render(t, c, "{{q}}(978-4-06-519981-7)\n")
	if !strings.Contains(res.HTML, `cite="urn:ISBN:978-4-06-519981-7"`) {
		t.Errorf("valid ISBN: %s", res.HTML)
	}

	res = render(t, c, "{{q}}(978-4-06-519981-0)\n")
	if strings.Contains(res.HTML, "cite=") || strings.Contains(res.HTML, "978") {
		t.Errorf("bad ISBN leaked: %s", res.HTML)
	}
	if !strings.Contains(res.HTML, "<q>q</q>") {
		t.Errorf("quote missing: %s", res.HTML)
	}
}

func TestRender_SlugsAreUnique(t *testing.T) {
	t.Parallel()

	res := render(t, newCompiler(t), "# Same\n\na\n\n# Same\n\nb\n")
	doc := parseHTML(t, res.HTML)
	ids := doc.Find("section.p-section").Map(func(_ int, s *goquery.Selection) string {
		id, _ := s.Attr("id")
		return id
	})
	if len(ids) != 2 || ids[0] == ids[1] {
		t.Fatalf("section ids = %v", ids)
	}
	if ids[1] != ids[0]+"-2" {
		t.Errorf("second slug = %q, want %q", ids[1], ids[0]+"-2")
	}
}

func TestRender_Media(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, render(t, newCompiler(t), "@photo.jpg: Caption <640x480>\n").HTML)
	img := doc.Find("figure.p-embed picture img")
	src, _ := img.Attr("src")
	if !strings.Contains(src, "w=640") || !strings.Contains(src, "h=480") {
		t.Errorf("img src = %q", src)
	}
	if doc.Find("figure.p-embed picture source").Length() != 2 {
		t.Error("want avif and webp sources")
	}
	if got := doc.Find("figcaption").Text(); got != "Caption" {
		t.Errorf("caption = %q", got)
	}
}

func TestRender_MediaBounds(t *testing.T) {
	t.Parallel()

	c := newCompiler(t, blogmark.WithMediaBounds(320, 320))
	doc := parseHTML(t, render(t, c, "@photo.jpg: Caption <640x480>\n").HTML)
	src, _ := doc.Find("img").Attr("src")
	if !strings.Contains(src, "w=320") || !strings.Contains(src, "h=240") {
		t.Errorf("img src = %q, want 320x240", src)
	}
}

func TestRender_Footnotes(t *testing.T) {
	t.Parallel()

	res := render(t, newCompiler(t), "text[^1] and [^2]\n\n[^1]: note\n")
	doc := parseHTML(t, res.HTML)
	ref := doc.Find("sup.p-fnref a")
	if ref.Length() != 1 {
		t.Fatalf("got %d references", ref.Length())
	}
	id, _ := ref.Attr("id")
	href, _ := ref.Attr("href")
	if doc.Find(`section.p-footnotes a[href="#`+id+`"]`).Length() != 1 {
		t.Errorf("no back-reference to %s", id)
	}
	if doc.Find("li"+href).Length() != 1 {
		t.Errorf("no footnote %s", href)
	}
	if !strings.Contains(res.HTML, "[^2]") {
		t.Errorf("unmatched reference not literal: %s", res.HTML)
	}
}

func TestRender_DiagnosticsDoNotBlock(t *testing.T) {
	t.Parallel()

	res := render(t, newCompiler(t), "text\n\n## Intro\n\nbody\n")
	if res.HTML == "" {
		t.Fatal("no HTML")
	}
	var found []blogmark.Diagnostic
	for _, d := range res.Diagnostics {
		if d.RuleID == "first-heading-depth" {
			found = append(found, d)
		}
	}
	if len(found) != 1 {
		t.Fatalf("first-heading-depth diagnostics = %v", found)
	}
	if found[0].Line != 3 || found[0].Column != 1 || found[0].Severity != blogmark.SeverityError {
		t.Errorf("diagnostic = %s", found[0])
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	c := newCompiler(t)
	src := "# A\n\nx[^a]\n\n# A\n\n```go\nx := 1\ny := 2\n```\n\n[^a]: n\n"
	first := render(t, c, src)
	for range 3 {
		if again := render(t, c, src); again.HTML != first.HTML {
			t.Fatalf("output changed:\n%s\n%s", first.HTML, again.HTML)
		}
	}
}

func TestRender_Concurrent(t *testing.T) {
	t.Parallel()

	c := newCompiler(t)
	src := "# A\n\n# A\n\nx[^1]\n\n[^1]: n\n"
	want := render(t, c, src).HTML

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.Render(context.Background(), src)
			if err != nil {
				errs <- err.Error()
				return
			}
			if res.HTML != want {
				errs <- res.HTML
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Errorf("concurrent render differs: %s", e)
	}
}

// ---------------------------------------------------------------------------
// TestLint, TestRules, TestMarkTitle
// ---------------------------------------------------------------------------

func TestLint_DisabledRules(t *testing.T) {
	t.Parallel()

	src := "![a](b.png)\n"
	diags, err := newCompiler(t).Lint(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) == 0 || diags[0].RuleID != "no-image" {
		t.Fatalf("Lint() = %v, want no-image", diags)
	}

	diags, err = newCompiler(t, blogmark.WithDisabledRules("no-image")).Lint(src)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range diags {
		if d.RuleID == "no-image" {
			t.Errorf("disabled rule reported: %s", d)
		}
	}
}

func TestLint_Languages(t *testing.T) {
	t.Parallel()

	src := "```cobol\nx\n```\n"
	diags, err := newCompiler(t, blogmark.WithLanguages("cobol")).Lint(src)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range diags {
		if d.RuleID == "code-fence-language" {
			t.Errorf("allowed language reported: %s", d)
		}
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	rules := blogmark.Rules()
	if len(rules) != 30 {
		t.Errorf("got %d rules, want 30", len(rules))
	}
	if rules[0].ID != "no-hard-break" {
		t.Errorf("first rule = %q", rules[0].ID)
	}
}

func TestCompiler_Tree(t *testing.T) {
	t.Parallel()

	c := newCompiler(t)
	base, err := c.Tree(":::note\nx\n:::\n", false)
	if err != nil {
		t.Fatal(err)
	}
	compiled, err := c.Tree(":::note\nx\n:::\n", true)
	if err != nil {
		t.Fatal(err)
	}
	if base.Children[0].Kind == compiled.Children[0].Kind {
		t.Errorf("box not recognized: baseline %s, compiled %s", base.Children[0].Kind, compiled.Children[0].Kind)
	}
	if got := c.Passes(); len(got) == 0 || got[0] != "footnotes" {
		t.Errorf("Passes() = %v", got)
	}
}

func TestMarkTitle(t *testing.T) {
	t.Parallel()

	if got := blogmark.MarkTitle("Using `go vet` & *more*"); got != "Using <code>go vet</code> &amp; *more*" {
		t.Errorf("MarkTitle() = %q", got)
	}
}
