package normalize

import (
	"regexp"
	"strings"

	"github.com/ryanrhee/snowboard-db-sub000/internal/types"
)

var (
	womensRe = regexp.MustCompile(`(?i)\bwomen'?s?\b|\bwmn\b`)
	mensRe   = regexp.MustCompile(`(?i)\bmen'?s\b`)
	kidsRe   = regexp.MustCompile(`(?i)\bkids'?\b|\bboys'?\b|\bgirls'?\b|\btoddlers?'?\b|\byouth\b`)
)

// Gender detects the marketed gender from a product title and its URL.
// Returns false when neither carries a signal; callers treat that as unisex.
// Womens is checked before mens so "Women's" never reads as mens.
func Gender(text, url string) (types.Gender, bool) {
	switch {
	case womensRe.MatchString(text):
		return types.GenderWomens, true
	case mensRe.MatchString(text):
		return types.GenderMens, true
	case kidsRe.MatchString(text):
		return types.GenderKids, true
	}

	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, "-womens"):
		return types.GenderWomens, true
	case strings.Contains(u, "-mens"):
		return types.GenderMens, true
	case strings.Contains(u, "-kids"):
		return types.GenderKids, true
	}
	return "", false
}

// GenderTag collapses a detected gender onto the three values board keys
// use: mens folds into unisex, kids and youth stay kids.
func GenderTag(g types.Gender) types.Gender {
	switch g {
	case types.GenderWomens:
		return types.GenderWomens
	case types.GenderKids:
		return types.GenderKids
	default:
		return types.GenderUnisex
	}
}
