package scrape

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ryanrhee/snowboard-db-sub000/internal/fetch"
	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

// tile is one product link lifted off a category page.
type tile struct {
	url    string
	title  string
	gender string
}

func fetchDoc(ctx context.Context, f fetch.Fetcher, pageURL string) (*goquery.Document, error) {
	res, err := f.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// assignSpec routes one labeled spec value onto the scraped record. Labels
// vary per site ("Bend", "Camber Type", "Contour" all mean profile); values
// stay free-form for the normalizers.
func assignSpec(sb *types.ScrapedBoard, label, value string) {
	key := strings.ToLower(strings.TrimSpace(label))
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return
	}
	switch {
	case strings.Contains(key, "flex"):
		sb.Flex = value
	case strings.Contains(key, "bend"),
		strings.Contains(key, "camber"),
		strings.Contains(key, "rocker"),
		strings.Contains(key, "contour"),
		strings.Contains(key, "profile"):
		sb.Profile = value
	case key == "shape":
		sb.Shape = value
	case strings.Contains(key, "terrain"),
		strings.Contains(key, "riding style"),
		key == "category":
		sb.Category = value
	case strings.Contains(key, "ability"),
		strings.Contains(key, "rider level"),
		strings.Contains(key, "skill"):
		sb.AbilityLevel = value
	default:
		if sb.Extras == nil {
			sb.Extras = make(map[string]string)
		}
		sb.Extras[key] = value
	}
}
