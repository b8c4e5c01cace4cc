package locker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func catalogFixture() []Book {
	return []Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", Category: "Science", Condition: ConditionGood, Price: "$25"},
		{ID: "2", Title: "Atomic Habits", Author: "James Clear", Category: "Non-Fiction", Condition: ConditionNew, Price: "$20"},
		{ID: "3", Title: "Piranesi", Author: "Susanna Clarke", Category: "Fiction", Condition: ConditionGood, Price: "Swap Only"},
		{ID: "4", Title: "Circe", Author: "Madeline Miller", Category: "Fiction", Condition: ConditionFair, Price: "$18"},
	}
}

func TestFilterBooksWildcards(t *testing.T) {
	books := catalogFixture()

	all := FilterBooks(books, FilterAll, FilterAll)
	require.Len(t, all, len(books))
	for i := range books {
		require.Equal(t, books[i].ID, all[i].ID, "wildcard filter must keep input order")
	}
}

func TestFilterBooksByCategoryAndCondition(t *testing.T) {
	books := catalogFixture()

	fiction := FilterBooks(books, "Fiction", FilterAll)
	require.Len(t, fiction, 2)

	good := FilterBooks(books, FilterAll, string(ConditionGood))
	require.Len(t, good, 2)

	both := FilterBooks(books, "Fiction", string(ConditionGood))
	require.Len(t, both, 1)
	require.Equal(t, "3", both[0].ID)

	none := FilterBooks(books, "Philosophy", FilterAll)
	require.Empty(t, none)
}

func TestSortBooksNewestKeepsOrder(t *testing.T) {
	books := catalogFixture()
	sorted := SortBooks(books, SortNewest)
	for i := range books {
		require.Equal(t, books[i].ID, sorted[i].ID)
	}
}

func TestSortBooksByTitle(t *testing.T) {
	books := catalogFixture()

	asc := SortBooks(books, SortTitleAsc)
	require.Equal(t, []string{"Atomic Habits", "Circe", "Dune", "Piranesi"},
		[]string{asc[0].Title, asc[1].Title, asc[2].Title, asc[3].Title})

	desc := SortBooks(books, SortTitleDesc)
	require.Equal(t, "Piranesi", desc[0].Title)
	require.Equal(t, "Atomic Habits", desc[3].Title)
}

func TestSortBooksTitleIsNumericAware(t *testing.T) {
	books := []Book{
		{ID: "a", Title: "Vol. 10"},
		{ID: "b", Title: "Vol. 2"},
		{ID: "c", Title: "Vol. 1"},
	}
	asc := SortBooks(books, SortTitleAsc)
	require.Equal(t, []string{"Vol. 1", "Vol. 2", "Vol. 10"},
		[]string{asc[0].Title, asc[1].Title, asc[2].Title})
}

func TestSortBooksByPriceStable(t *testing.T) {
	books := []Book{
		{ID: "a", Price: "$10"},
		{ID: "b", Price: "Swap Only"},
		{ID: "c", Price: "$5"},
		{ID: "d", Price: "open to a swap"},
	}

	asc := SortBooks(books, SortPriceAsc)
	// Both swap-valued entries are worth 0 and keep their relative order.
	require.Equal(t, []string{"b", "d", "c", "a"},
		[]string{asc[0].ID, asc[1].ID, asc[2].ID, asc[3].ID})

	desc := SortBooks(books, SortPriceDesc)
	require.Equal(t, "a", desc[0].ID)
	require.Equal(t, "c", desc[1].ID)
	require.Equal(t, []string{"b", "d"}, []string{desc[2].ID, desc[3].ID},
		"equal values keep input order under stable sort")
}

func TestPriceValue(t *testing.T) {
	tests := []struct {
		price string
		want  float64
	}{
		{"", 0},
		{"$25", 25},
		{"$18.50", 18.5},
		{"USD 12", 12},
		{"Swap Only", 0},
		{"Swap or $30", 0},
		{"priceless", 0},
		{"...", 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, PriceValue(tt.price), "PriceValue(%q)", tt.price)
	}
}

func TestHasPendingSwap(t *testing.T) {
	swaps := []Swap{
		{ID: "s1", BookID: "b1", RequesterID: "u1", Status: SwapPending},
		{ID: "s2", BookID: "b1", RequesterID: "u2", Status: SwapRejected},
		{ID: "s3", BookID: "b2", RequesterID: "u1", Status: SwapAccepted},
	}

	require.True(t, HasPendingSwap(swaps, "b1", "u1"))
	require.False(t, HasPendingSwap(swaps, "b1", "u2"), "rejected request is not pending")
	require.False(t, HasPendingSwap(swaps, "b2", "u1"), "accepted request is not pending")
	require.False(t, HasPendingSwap(swaps, "b9", "u1"))
}

func TestNotificationCount(t *testing.T) {
	swaps := []Swap{
		{ID: "s1", OwnerID: "u2", Status: SwapPending},
		{ID: "s2", OwnerID: "u2", Status: SwapPending},
		{ID: "s3", OwnerID: "u2", Status: SwapAccepted},
		{ID: "s4", OwnerID: "u3", Status: SwapPending},
	}

	require.Equal(t, 2, NotificationCount(swaps, "u2"))
	require.Equal(t, 1, NotificationCount(swaps, "u3"))
	require.Equal(t, 0, NotificationCount(swaps, "u1"))
	require.Equal(t, 0, NotificationCount(nil, "u2"))
}
