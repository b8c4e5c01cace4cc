package locker

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	prefs, err := OpenPrefs(filepath.Join(dir, "prefs.json"))
	require.NoError(t, err)

	return NewAPI(store, prefs, WithLatency(0))
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	user, err := api.Login("eleanor@hillhouse.com", "user123")
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)

	// Email matching is case-insensitive.
	user, err = api.Login("ELEANOR@HILLHOUSE.COM", "user123")
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)

	// Session was set.
	restored, ok := api.CurrentSession()
	require.True(t, ok)
	require.Equal(t, "u1", restored.ID)
}

func TestLoginFailures(t *testing.T) {
	api := newTestAPI(t)

	_, err := api.Login("nobody@example.com", "user123")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = api.Login("eleanor@hillhouse.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Password comparison is exact; a missing password never matches.
	_, err = api.Login("eleanor@hillhouse.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t)

	user, err := api.Register("New Reader", "reader@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "New Reader", user.Name)
	require.NotEmpty(t, user.Avatar)
	require.False(t, user.IsAdmin)

	restored, ok := api.CurrentSession()
	require.True(t, ok)
	require.Equal(t, user.ID, restored.ID)

	// The new account can log back in with decoded credentials.
	require.NoError(t, api.Logout())
	again, err := api.Login("reader@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	api := newTestAPI(t)

	_, err := api.Register("Impostor", "Eleanor@Hillhouse.com", "pw1234")
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)

	_, err := api.Register("", "reader@example.com", "pw")
	require.Error(t, err)
	_, err = api.Register("Reader", "not-an-email", "pw")
	require.Error(t, err)
	_, err = api.Register("Reader", "reader@example.com", "")
	require.Error(t, err)
}

func TestCurrentSessionNeverFails(t *testing.T) {
	api := newTestAPI(t)

	_, ok := api.CurrentSession()
	require.False(t, ok)

	_, err := api.Login("julian@example.com", "user123")
	require.NoError(t, err)

	// Deleting the signed-in account leaves a dangling session id; the
	// restore degrades to "no session" instead of failing.
	require.NoError(t, api.DeleteUser("u2"))
	_, ok = api.CurrentSession()
	require.False(t, ok)
}

func TestLogout(t *testing.T) {
	api := newTestAPI(t)

	_, err := api.Login("julian@example.com", "user123")
	require.NoError(t, err)
	require.NoError(t, api.Logout())

	_, ok := api.CurrentSession()
	require.False(t, ok)
}

func TestUpdateUserRole(t *testing.T) {
	api := newTestAPI(t)

	updated, err := api.UpdateUserRole("u1", true)
	require.NoError(t, err)
	require.True(t, updated.IsAdmin)

	// Persisted, and credentials survive the re-encode.
	fetched, ok := api.GetUser("u1")
	require.True(t, ok)
	require.True(t, fetched.IsAdmin)
	require.Equal(t, "eleanor@hillhouse.com", fetched.Email)

	_, err = api.UpdateUserRole("ghost", true)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserCascadesBooks(t *testing.T) {
	api := newTestAPI(t)

	// Julian (u2) owns seed books b1 and b4.
	require.NoError(t, api.DeleteUser("u2"))

	_, ok := api.GetUser("u2")
	require.False(t, ok)

	remaining := api.Books()
	require.Len(t, remaining, 2)
	for _, b := range remaining {
		require.NotEqual(t, "u2", b.Owner.ID)
	}
}

func TestBooksNewestFirst(t *testing.T) {
	api := newTestAPI(t)
	owner, err := api.Login("julian@example.com", "user123")
	require.NoError(t, err)

	created, err := api.CreateBook(BookInput{
		Title:       "Piranesi",
		Author:      "Susanna Clarke",
		Description: "A house with infinite halls.",
		Price:       "$15",
		Category:    "Fiction",
		Condition:   ConditionGood,
	}, owner)
	require.NoError(t, err)

	books := api.Books()
	require.Equal(t, created.ID, books[0].ID, "latest listing should come first")
	require.Equal(t, "b1", books[len(books)-1].ID, "oldest seed listing should come last")
}

func TestCreateBookDefaults(t *testing.T) {
	api := newTestAPI(t)
	owner, err := api.Login("julian@example.com", "user123")
	require.NoError(t, err)

	book, err := api.CreateBook(BookInput{
		Title:       "Untitled Drafts",
		Author:      "Anon",
		Description: "rough notes",
		Price:       "Swap Only",
	}, owner)
	require.NoError(t, err)
	require.Equal(t, BookAvailable, book.Status)
	require.Equal(t, "Fiction", book.Category)
	require.NotEmpty(t, book.ImageURL)
	require.Empty(t, book.Comments)
	require.Equal(t, owner.ID, book.Owner.ID)
}

func TestCreateBookValidation(t *testing.T) {
	api := newTestAPI(t)
	owner, err := api.Login("julian@example.com", "user123")
	require.NoError(t, err)

	_, err = api.CreateBook(BookInput{Author: "A", Description: "d", Price: "$1"}, owner)
	require.Error(t, err)
	_, err = api.CreateBook(BookInput{Title: "T", Author: "A", Description: "d"}, owner)
	require.Error(t, err)
}

func TestAddComment(t *testing.T) {
	api := newTestAPI(t)
	author, err := api.Login("eleanor@hillhouse.com", "user123")
	require.NoError(t, err)

	before := time.Now()
	comment, err := api.AddComment("b2", "Is the spine intact?", author)
	require.NoError(t, err)
	require.Equal(t, author.ID, comment.UserID)
	require.False(t, comment.Timestamp.Before(before))

	book, ok := api.store.GetBook("b2")
	require.True(t, ok)
	require.Len(t, book.Comments, 1)
	require.Equal(t, "Is the spine intact?", book.Comments[0].Text)

	_, err = api.AddComment("missing", "hello?", author)
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestCommentsAppendInOrder(t *testing.T) {
	api := newTestAPI(t)
	author, err := api.Login("eleanor@hillhouse.com", "user123")
	require.NoError(t, err)

	// b1 ships with one seeded comment already.
	_, err = api.AddComment("b1", "second", author)
	require.NoError(t, err)
	_, err = api.AddComment("b1", "third", author)
	require.NoError(t, err)

	book, ok := api.store.GetBook("b1")
	require.True(t, ok)
	require.Len(t, book.Comments, 3)
	require.Equal(t, "second", book.Comments[1].Text)
	require.Equal(t, "third", book.Comments[2].Text)
}

func TestSwapAcceptFlipsBook(t *testing.T) {
	api := newTestAPI(t)
	requester, err := api.Login("eleanor@hillhouse.com", "user123")
	require.NoError(t, err)

	book, ok := api.store.GetBook("b1")
	require.True(t, ok)

	swap, err := api.CreateSwap(book, requester, "Trade for Piranesi?", "Hill House steps")
	require.NoError(t, err)
	require.Equal(t, SwapPending, swap.Status)
	require.Equal(t, book.Owner.ID, swap.OwnerID)
	require.Equal(t, book.Title, swap.BookTitle)

	updated, err := api.UpdateSwapStatus(swap.ID, SwapAccepted)
	require.NoError(t, err)
	require.Equal(t, SwapAccepted, updated.Status)

	flipped, ok := api.store.GetBook("b1")
	require.True(t, ok)
	require.Equal(t, BookSwapped, flipped.Status)
}

func TestSwapRejectLeavesBookAlone(t *testing.T) {
	api := newTestAPI(t)
	requester, err := api.Login("eleanor@hillhouse.com", "user123")
	require.NoError(t, err)

	book, _ := api.store.GetBook("b2")
	swap, err := api.CreateSwap(book, requester, "", "")
	require.NoError(t, err)

	updated, err := api.UpdateSwapStatus(swap.ID, SwapRejected)
	require.NoError(t, err)
	require.Equal(t, SwapRejected, updated.Status)

	unchanged, _ := api.store.GetBook("b2")
	require.Equal(t, BookAvailable, unchanged.Status)
}

func TestUpdateSwapStatusErrors(t *testing.T) {
	api := newTestAPI(t)

	_, err := api.UpdateSwapStatus("missing", SwapAccepted)
	require.ErrorIs(t, err, ErrSwapNotFound)

	_, err = api.UpdateSwapStatus("missing", SwapPending)
	require.ErrorIs(t, err, ErrInvalidSwapStatus)
}

func TestLatencyApplied(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	prefs, err := OpenPrefs(filepath.Join(dir, "prefs.json"))
	require.NoError(t, err)

	api := NewAPI(store, prefs, WithLatency(50*time.Millisecond))
	start := time.Now()
	api.Swaps()
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}
