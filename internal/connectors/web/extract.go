package web

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"
	xhtml "golang.org/x/net/html"
)

// Page is the extracted text content of a single crawled page.
type Page struct {
	Title string
	Text  string
}

// extractPage turns raw HTML into readable text. Readability handles
// article-shaped pages well; anything it rejects falls back to plain
// tag stripping so navigation-heavy pages still yield content.
func extractPage(rawHTML, pageURL string) Page {
	title := extractTitle(rawHTML)

	if parsed, err := url.Parse(pageURL); err == nil {
		article, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
		if err == nil && strings.TrimSpace(article.TextContent) != "" {
			if strings.TrimSpace(article.Title) != "" {
				title = strings.TrimSpace(article.Title)
			}
			return Page{Title: title, Text: collapseWhitespace(article.TextContent)}
		}
	}

	return Page{Title: title, Text: stripTags(rawHTML)}
}

// extractLinks returns all anchor targets resolved against the page URL,
// with fragments stripped.
func extractLinks(rawHTML, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	root, err := xhtml.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" || attr.Val == "" {
					continue
				}
				target, err := url.Parse(attr.Val)
				if err != nil {
					continue
				}
				resolved := base.ResolveReference(target)
				if resolved.Scheme != "http" && resolved.Scheme != "https" {
					continue
				}
				resolved.Fragment = ""
				links = append(links, resolved.String())
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return links
}

// Pre-compiled regular expressions for the fallback extractor.
var (
	titleTag    = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headerTag   = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	footerTag   = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	comments    = regexp.MustCompile(`(?s)<!--.*?-->`)
	allTags     = regexp.MustCompile(`<[^>]+>`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// extractTitle pulls the <title> tag content, or returns "".
func extractTitle(rawHTML string) string {
	matches := titleTag.FindStringSubmatch(rawHTML)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(matches[1]))
}

// stripTags removes chrome and markup and collapses whitespace.
func stripTags(rawHTML string) string {
	content := scriptTag.ReplaceAllString(rawHTML, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headerTag.ReplaceAllString(content, "")
	content = footerTag.ReplaceAllString(content, "")
	content = comments.ReplaceAllString(content, "")
	content = allTags.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)
	return collapseWhitespace(content)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
