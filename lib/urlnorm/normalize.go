// Package urlnorm canonicalizes product URLs so that the same product reached
// through different listing paths compares equal.
package urlnorm

import (
	"net/url"
	"strings"
)

// Normalize returns the canonical form of an absolute product URL.
//
// A /collections/<handle>/ pair directly preceding a product or products
// segment is dropped, so https://x.com/collections/sale/products/widget
// becomes https://x.com/products/widget. Other path segments, such as a
// locale or market prefix, are kept. Scheme and host are lower-cased, the
// fragment and any trailing slash are removed. Input that is not an absolute
// URL is returned unchanged.
func Normalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if i := productSegmentIndex(segments); i >= 2 && isCollectionSegment(segments[i-2]) {
		segments = append(segments[:i-2:i-2], segments[i:]...)
	}
	path := "/" + strings.Join(segments, "/")
	if path == "/" {
		path = ""
	}
	u.Path = path
	u.RawPath = ""

	return u.String()
}

// IsProductPath reports whether the path has a product or products segment
// followed by at least one more segment.
func IsProductPath(path string) bool {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	return productSegmentIndex(segments) >= 0
}

func productSegmentIndex(segments []string) int {
	for i, seg := range segments {
		if i+1 >= len(segments) || segments[i+1] == "" {
			break
		}
		switch strings.ToLower(seg) {
		case "product", "products":
			return i
		}
	}
	return -1
}

func isCollectionSegment(seg string) bool {
	switch strings.ToLower(seg) {
	case "collection", "collections":
		return true
	}
	return false
}
