package render

import (
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/fiffu/stockwatch/lib/urlnorm"
	"golang.org/x/net/html"
)

// HarvestProductLinks returns the normalized, de-duplicated product links
// found in markup, in document order. Relative hrefs are resolved against
// pageURL. A limit above zero caps the number of links returned, and
// truncated reports whether the page listed more than that.
func HarvestProductLinks(pageURL, markup string, limit int) (links []string, truncated bool, err error) {
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, false, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, false, err
	}

	seen := make(map[string]struct{})
	links = make([]string, 0)
	for _, a := range htmlquery.Find(doc, "//a[@href]") {
		ref, err := url.Parse(hrefOf(a))
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			continue
		}
		if !urlnorm.IsProductPath(abs.Path) {
			continue
		}

		link := urlnorm.Normalize(abs.String())
		if _, dup := seen[link]; dup {
			continue
		}
		if limit > 0 && len(links) >= limit {
			truncated = true
			break
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links, truncated, nil
}

func hrefOf(a *html.Node) string {
	for _, attr := range a.Attr {
		if attr.Key == "href" {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}
