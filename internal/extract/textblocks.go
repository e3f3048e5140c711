package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// TextBlocks walks an HTML document and returns the text of every element
// with one of the given tag names whose text matches re. Child text is
// joined with " | " so downstream key/value captures keep their
// boundaries.
func TextBlocks(htmlContent string, tags []string, re *regexp.Regexp) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && tagSet[n.Data] {
			text := nodeText(n)
			if re.MatchString(text) {
				blocks = append(blocks, text)
				return // don't descend into a matched block
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks, nil
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := nodeText(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " | ")
}
