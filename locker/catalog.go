package locker

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Derived views over already-loaded records. All of these are pure and cheap
// enough to re-run on every state change.

// SortMode selects the marketplace ordering.
type SortMode string

const (
	SortNewest     SortMode = "newest"
	SortTitleAsc   SortMode = "title_asc"
	SortTitleDesc  SortMode = "title_desc"
	SortAuthorAsc  SortMode = "author_asc"
	SortAuthorDesc SortMode = "author_desc"
	SortPriceAsc   SortMode = "price_asc"
	SortPriceDesc  SortMode = "price_desc"
)

// FilterAll is the wildcard accepted by both filter dimensions.
const FilterAll = "All"

// FilterBooks keeps books matching the category and condition filters.
func FilterBooks(books []Book, category, condition string) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if category != FilterAll && b.Category != category {
			continue
		}
		if condition != FilterAll && string(b.Condition) != condition {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SortBooks returns a sorted copy. Title and author comparisons are
// locale-aware and numeric-aware (so "Vol. 2" sorts before "Vol. 10");
// the sort is stable, and SortNewest keeps the incoming order.
func SortBooks(books []Book, mode SortMode) []Book {
	out := make([]Book, len(books))
	copy(out, books)
	if mode == SortNewest || mode == "" {
		return out
	}

	c := collate.New(language.Und, collate.Numeric, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch mode {
		case SortTitleAsc:
			return c.CompareString(a.Title, b.Title) < 0
		case SortTitleDesc:
			return c.CompareString(b.Title, a.Title) < 0
		case SortAuthorAsc:
			return c.CompareString(a.Author, b.Author) < 0
		case SortAuthorDesc:
			return c.CompareString(b.Author, a.Author) < 0
		case SortPriceAsc:
			return PriceValue(a.Price) < PriceValue(b.Price)
		case SortPriceDesc:
			return PriceValue(b.Price) < PriceValue(a.Price)
		default:
			return false
		}
	})
	return out
}

// PriceValue derives a numeric value from the free-form price field.
// Anything mentioning "swap" is worth 0 for sorting purposes, as is any
// string with no parseable number in it.
func PriceValue(price string) float64 {
	if price == "" {
		return 0
	}
	if strings.Contains(strings.ToLower(price), "swap") {
		return 0
	}
	var sb strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			sb.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// HasPendingSwap reports whether the requester already has a pending request
// for the book.
func HasPendingSwap(swaps []Swap, bookID, requesterID string) bool {
	for _, s := range swaps {
		if s.BookID == bookID && s.RequesterID == requesterID && s.Status == SwapPending {
			return true
		}
	}
	return false
}

// NotificationCount counts pending requests addressed to the owner.
func NotificationCount(swaps []Swap, ownerID string) int {
	n := 0
	for _, s := range swaps {
		if s.OwnerID == ownerID && s.Status == SwapPending {
			n++
		}
	}
	return n
}
