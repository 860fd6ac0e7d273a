// Package blogmark compiles blog entries written in a Markdown dialect to
// HTML fragments and checks them against the blog's style guide.
//
// # Quick Start
//
// Create a compiler once and reuse it; it is safe for concurrent use:
//
//	c, err := blogmark.NewCompiler()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := c.Render(ctx, "# Hello\n\nWorld")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.HTML)
//	for _, d := range res.Diagnostics {
//	    fmt.Println(d)
//	}
//
// The HTML is a fragment without an enclosing wrapper element. Diagnostics
// never block rendering; an entry with lint findings still renders.
//
// # Pipeline
//
// Render runs these stages over one freshly parsed tree:
//
//  1. CommonMark parse via Goldmark into a positioned node tree
//  2. Lint rules over that tree (read-only)
//  3. Dialect recognition: footnotes, boxes, quote attributions, embeds,
//     links and quotes, headings, sections
//  4. HTML generation via golang.org/x/net/html, with Chroma highlighting
//
// # Dialect
//
// Beyond CommonMark tables, definition lists and footnotes, entries use:
//
//	:::note          box, closed by :::
//	> ~              omitted passage inside a blockquote
//	> ? en https://… attribution line (language, URL, ISBN, citation)
//	@photos/a.jpg: Caption <640x480>
//	@youtube: ID Caption <42s>
//	- @amazon: ASIN Title
//	[text](42#part)  link to entry 42
//	[text](amazon:ASIN)
//	{{quote}}(en https://example.com/)
//
// Malformed constructs stay literal text. Only undecodable input and
// unusable configuration produce errors.
//
// # Configuration
//
// Use functional options to customize the compiler:
//
//	c, err := blogmark.NewCompiler(
//	    blogmark.WithMaxHeadingDepth(2),
//	    blogmark.WithLanguages("go", "sh"),
//	    blogmark.WithAmazonTrackingID("blog-22"),
//	)
//
// # Titles
//
// MarkTitle compiles short strings such as entry titles. Only code spans
// are recognized:
//
//	blogmark.MarkTitle("Using `go vet`") // Using <code>go vet</code>
package blogmark
