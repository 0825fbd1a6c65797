package scrape

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ryanrhee/snowboard-db-sub000/internal/brand"
)

// priceRe pulls the first decimal number out of a price string once the
// currency noise is gone.
var priceRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// CleanPrice extracts a numeric price from strings like "$599.95" or
// "₩1,049,000". Returns nil when no number survives cleaning.
func CleanPrice(raw string) *float64 {
	s := brand.StripZeroWidth(raw)
	s = strings.NewReplacer(
		"$", "", "₩", "", "£", "",
		"USD", "", "KRW", "", "원", "",
		",", "", " ", "", " ", "",
	).Replace(s)
	m := priceRe.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// lengthRe matches a board length in cm, wide variants included ("159W",
// "156 cm", "154.5"). Two digits covers kids sizes.
var lengthRe = regexp.MustCompile(`(?i)^\s*(\d{2,3}(?:\.\d)?)\s*(?:w|mw|uw|wide)?\s*(?:cm)?\s*$`)

// ParseLengthCm reads a size label into centimeters. Wide suffixes are
// dropped; labels that are not plausible board lengths return nil.
func ParseLengthCm(raw string) *float64 {
	m := lengthRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < 70 || v > 229 {
		return nil
	}
	return &v
}

// absURL resolves href against base; fragments and unparseable refs return
// the empty string.
func absURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// StripHTML flattens an HTML fragment to plain text. Descriptions inside
// JSON-LD routinely carry markup; board descriptions should not.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return collapseSpace(fragment)
	}
	var sb strings.Builder
	for _, n := range nodes {
		appendText(&sb, n)
	}
	return collapseSpace(sb.String())
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

func appendText(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(sb, c)
	}
}

var spaceRe = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
