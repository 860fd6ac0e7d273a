package render

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-blogmark/internal/dialect"
	"github.com/alnah/go-blogmark/internal/mdast"
)

// thumbnail formats with their encoder quality, in <source> order.
var thumbnailTypes = []struct {
	format  string
	mime    string
	quality int
}{
	{"avif", "image/avif", 60},
	{"webp", "image/webp", 75},
}

const jpegQuality = 80

const (
	productImageSize = 160
	productImageBase = "https://m.media-amazon.com/images/I/"
)

// fitSize scales w×h down to fit the bounds, keeping the aspect ratio.
// Unsized media get the bounds.
func fitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	w64, h64 := int64(w), int64(h)
	if w64 > int64(maxW) {
		h64 = h64 * int64(maxW) / w64
		w64 = int64(maxW)
	}
	if h64 > int64(maxH) {
		w64 = w64 * int64(maxH) / h64
		h64 = int64(maxH)
	}
	return int(max(w64, 1)), int(max(h64, 1))
}

// thumbnailURL fills the thumbnail template.
func (s *state) thumbnailURL(path, format string, w, h, quality int) string {
	p := (&url.URL{Path: strings.TrimPrefix(path, "/")}).EscapedPath()
	return strings.NewReplacer(
		"{path}", p,
		"{type}", format,
		"{w}", strconv.Itoa(w),
		"{h}", strconv.Itoa(h),
		"{quality}", strconv.Itoa(quality),
	).Replace(s.r.opts.ThumbnailURL)
}

func (s *state) srcset(path, format string, w, h, quality int) string {
	return s.thumbnailURL(path, format, w, h, quality) + " 1x, " +
		s.thumbnailURL(path, format, 2*w, 2*h, quality) + " 2x"
}

// media renders an image as <picture> with avif and webp sources and a
// jpeg fallback, or a video as <video controls>.
func (s *state) media(n *mdast.Node) *html.Node {
	w, h := fitSize(n.Width, n.Height, s.r.opts.MaxThumbWidth, s.r.opts.MaxThumbHeight)
	fig := element("figure", "class", "p-embed")

	if n.Video {
		src := strings.TrimRight(s.r.opts.OriginURL, "/") + "/" + strings.TrimPrefix(n.Name, "/")
		video := element("video", "src", src, "controls", "", "preload", "metadata")
		if n.Width > 0 {
			setAttr(video, "width", strconv.Itoa(w))
			setAttr(video, "height", strconv.Itoa(h))
		}
		wrap(fig, video)
	} else {
		pic := element("picture")
		for _, t := range thumbnailTypes {
			wrap(pic, element("source", "type", t.mime, "srcset", s.srcset(n.Name, t.format, w, h, t.quality)))
		}
		img := element("img",
			"src", s.thumbnailURL(n.Name, "jpeg", w, h, jpegQuality),
			"srcset", s.srcset(n.Name, "jpeg", w, h, jpegQuality),
			"alt", n.Caption,
			"width", strconv.Itoa(w),
			"height", strconv.Itoa(h),
			"loading", "lazy",
			"decoding", "async")
		wrap(fig, wrap(pic, img))
	}
	if n.Caption != "" {
		wrap(fig, wrap(element("figcaption"), textNode(n.Caption)))
	}
	return fig
}

// youtube renders a privacy-enhanced embed, 16:9 at 640×360 unless sized.
func (s *state) youtube(n *mdast.Node) *html.Node {
	w, h := youtubeWidth, youtubeHeight
	if n.Width > 0 {
		w, h = n.Width, n.Height
	}
	src := "https://www.youtube-nocookie.com/embed/" + url.PathEscape(n.Name)
	watch := "https://www.youtube.com/watch?v=" + url.QueryEscape(n.Name)
	if n.StartAt > 0 {
		src += "?start=" + strconv.Itoa(n.StartAt)
		watch += "&t=" + strconv.Itoa(n.StartAt) + "s"
	}
	title := n.Caption
	if title == "" {
		title = "YouTube video"
	}
	iframe := element("iframe",
		"src", src,
		"width", strconv.Itoa(w),
		"height", strconv.Itoa(h),
		"title", title,
		"allow", "accelerometer; clipboard-write; encrypted-media; gyroscope; picture-in-picture",
		"allowfullscreen", "",
		"loading", "lazy")
	caption := n.Caption
	if caption == "" {
		caption = watch
	}
	link := wrap(element("a", "href", watch), textNode(caption))
	return wrap(element("figure", "class", "p-embed p-embed--youtube"), iframe, wrap(element("figcaption"), link))
}

func (s *state) products(n *mdast.Node) *html.Node {
	return wrap(element("ul", "class", "p-amazon"), s.blocks(n.Children)...)
}

// product renders one affiliate card.
func (s *state) product(n *mdast.Node) *html.Node {
	a := element("a",
		"class", "p-amazon__link",
		"href", dialect.AmazonURL(n.Name, s.r.opts.AmazonTrackingID),
		"rel", "nofollow sponsored noopener",
		"target", "_blank")
	if n.ImageID != "" {
		size := productImageSize
		w, h := size, size
		if n.Width > 0 {
			w, h = n.Width, n.Height
			size = max(w, h)
		}
		img := element("img",
			"class", "p-amazon__image",
			"src", productImageURL(n.ImageID, size),
			"srcset", productImageURL(n.ImageID, 2*size)+" 2x",
			"alt", "",
			"width", strconv.Itoa(w),
			"height", strconv.Itoa(h),
			"loading", "lazy")
		wrap(a, img)
	}
	title := n.Caption
	if title == "" {
		title = n.Name
	}
	wrap(a, wrap(element("span", "class", "p-amazon__title"), textNode(title)))
	if icon, ok := s.r.opts.TypeIcons[dialect.TypeIconAmazon]; ok {
		wrap(a, iconNode(icon.Src, icon.Alt))
	}
	return wrap(element("li", "class", "p-amazon__item"), a)
}

func productImageURL(id string, size int) string {
	return productImageBase + url.PathEscape(id) + "._SL" + strconv.Itoa(size) + "_.jpg"
}
