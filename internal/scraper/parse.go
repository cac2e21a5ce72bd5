package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseListingLinks extracts the absolute, de-duplicated hrefs of every
// element matching selector, in document order.
func ParseListingLinks(htmlContent, baseURL, selector string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)
	links := make([]string, 0)
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			return
		}
		linkURL, err := url.Parse(href)
		if err != nil {
			// Skip malformed URLs
			return
		}
		abs := base.ResolveReference(linkURL)
		abs.Fragment = ""
		link := abs.String()
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})

	return links, nil
}

// ParseDetail reads a listing's detail fields from its HTML. Missing
// fields get placeholders.
func ParseDetail(htmlContent string, selectors Selectors) (Fields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return Fields{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	sel := selectors.withDefaults()

	return Fields{
		Title:       textOr(doc, sel.Title, TitleUnavailable),
		CompanyInfo: textOr(doc, sel.Company, CompanyUnavailable),
		Location:    textOr(doc, sel.Location, LocationUnavailable),
		Description: textOr(doc, sel.Description, DescriptionUnavailable),
	}, nil
}

func textOr(doc *goquery.Document, selector, placeholder string) string {
	s := doc.Find(selector).First()
	if s.Length() == 0 {
		return placeholder
	}
	if text := innerText(s); text != "" {
		return text
	}
	return placeholder
}

// blockElements start a new line in rendered text; everything else is inline
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

// innerText approximates what a browser renders for the element: inline
// text runs together, block elements break lines.
func innerText(s *goquery.Selection) string {
	var lines []string
	var cur strings.Builder
	flush := func() {
		if line := strings.Join(strings.Fields(cur.String()), " "); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	flush()
	return strings.Join(lines, "\n")
}

// SplitCompanyInfo splits "name\nrating" into its parts, falling back to
// placeholders.
func SplitCompanyInfo(info string) (name, rating string) {
	parts := strings.Split(info, "\n")
	name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		rating = strings.TrimSpace(parts[1])
	}
	if name == "" {
		name = CompanyUnavailable
	}
	if rating == "" {
		rating = RatingUnavailable
	}
	return name, rating
}
