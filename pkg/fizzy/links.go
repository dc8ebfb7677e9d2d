package fizzy

import (
	"regexp"
	"strings"
)

// Links holds the named relations of an RFC 5988 Link header. Only the four
// relations the API uses are kept; anything else is dropped during parsing.
type Links struct {
	Next  string `json:"next,omitempty"  yaml:"next,omitempty"`
	Prev  string `json:"prev,omitempty"  yaml:"prev,omitempty"`
	First string `json:"first,omitempty" yaml:"first,omitempty"`
	Last  string `json:"last,omitempty"  yaml:"last,omitempty"`
}

// HasNext reports whether a next page link is present.
func (l Links) HasNext() bool {
	return l.Next != ""
}

// HasPrev reports whether a previous page link is present.
func (l Links) HasPrev() bool {
	return l.Prev != ""
}

var linkSegmentPattern = regexp.MustCompile(`^\s*<([^>]*)>\s*;\s*rel\s*=\s*"([^"]*)"\s*$`)

// ParseLinkHeader parses a Link header into its known relations. Malformed
// segments and unknown relation names are silently dropped; an empty header
// yields the zero value. It never fails.
func ParseLinkHeader(header string) Links {
	var links Links

	if header == "" {
		return links
	}

	for _, segment := range strings.Split(header, ",") {
		match := linkSegmentPattern.FindStringSubmatch(segment)
		if match == nil {
			continue
		}

		url, rel := match[1], match[2]

		switch rel {
		case "next":
			links.Next = url
		case "prev":
			links.Prev = url
		case "first":
			links.First = url
		case "last":
			links.Last = url
		}
	}

	return links
}
