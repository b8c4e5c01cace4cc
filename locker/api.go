package locker

import (
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Façade errors surfaced to callers.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrBookNotFound       = errors.New("book not found")
	ErrSwapNotFound       = errors.New("swap not found")
	ErrInvalidSwapStatus  = errors.New("invalid swap status")

	// ErrPartialCascade marks a multi-step mutation that failed after its
	// first step succeeded, leaving records behind that a retry can clean up.
	ErrPartialCascade = errors.New("partial cascade")
)

const defaultLatency = 400 * time.Millisecond

// API is the typed operation layer between the UI and the Store. Every call
// waits a fixed artificial latency after the underlying operation completes,
// simulating a network round-trip.
type API struct {
	store    *Store
	prefs    *Prefs
	validate *validator.Validate
	latency  time.Duration
}

// Option configures an API.
type Option func(*API)

// WithLatency overrides the simulated round-trip delay. Tests set it to zero.
func WithLatency(d time.Duration) Option {
	return func(a *API) { a.latency = d }
}

// NewAPI builds the façade over an opened store and preference file.
func NewAPI(store *Store, prefs *Prefs, opts ...Option) *API {
	a := &API{
		store:    store,
		prefs:    prefs,
		validate: validator.New(),
		latency:  defaultLatency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) wait() {
	if a.latency > 0 {
		time.Sleep(a.latency)
	}
}

// ------------------ Auth ------------------

// Login matches the email case-insensitively and compares the password
// exactly. On success the session is set.
func (a *API) Login(email, password string) (User, error) {
	defer a.wait()

	for _, u := range a.store.Users() {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if password == "" || u.Password != password {
			return User{}, ErrInvalidCredentials
		}
		if err := a.prefs.SetSession(u.ID); err != nil {
			return User{}, err
		}
		return u, nil
	}
	return User{}, ErrUserNotFound
}

type registerInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Register creates a new account and signs it in. The email must not collide
// with an existing account, compared case-insensitively.
func (a *API) Register(name, email, password string) (User, error) {
	defer a.wait()

	if err := a.validate.Struct(registerInput{Name: name, Email: email, Password: password}); err != nil {
		return User{}, fmt.Errorf("register: %w", err)
	}
	for _, u := range a.store.Users() {
		if strings.EqualFold(u.Email, email) {
			return User{}, ErrDuplicateEmail
		}
	}

	user := User{
		ID:         "u_" + uuid.NewString(),
		Name:       name,
		Email:      email,
		Password:   password,
		Avatar:     fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=E67E22&color=fff", url.QueryEscape(name)),
		JoinedDate: time.Now(),
	}
	if err := a.store.AddUser(user); err != nil {
		return User{}, err
	}
	if err := a.prefs.SetSession(user.ID); err != nil {
		return User{}, err
	}
	return user, nil
}

// CurrentSession restores the signed-in user. It never fails: a missing
// session or a since-deleted user both come back as (User{}, false).
func (a *API) CurrentSession() (User, bool) {
	id := a.prefs.Session()
	if id == "" {
		return User{}, false
	}
	for _, u := range a.store.Users() {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// Logout clears the session.
func (a *API) Logout() error { return a.prefs.ClearSession() }

// ------------------ Users ------------------

func (a *API) Users() []User {
	defer a.wait()
	return a.store.Users()
}

func (a *API) GetUser(id string) (User, bool) {
	defer a.wait()
	for _, u := range a.store.Users() {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// DeleteUser removes the account and then every book it owns. The two steps
// are separate transactions; if the book sweep fails after the account row is
// gone, the error wraps ErrPartialCascade so the caller can retry the sweep.
func (a *API) DeleteUser(id string) error {
	defer a.wait()

	if err := a.store.DeleteUser(id); err != nil {
		return err
	}
	for _, b := range a.store.Books() {
		if b.Owner.ID != id {
			continue
		}
		if err := a.store.DeleteBook(b.ID); err != nil {
			return fmt.Errorf("%w: user %s removed but book sweep failed: %w", ErrPartialCascade, id, err)
		}
	}
	return nil
}

// UpdateUserRole flips the administrator flag.
func (a *API) UpdateUserRole(id string, isAdmin bool) (User, error) {
	defer a.wait()

	for _, u := range a.store.Users() {
		if u.ID != id {
			continue
		}
		u.IsAdmin = isAdmin
		if err := a.store.PutUser(u); err != nil {
			return User{}, err
		}
		return u, nil
	}
	return User{}, ErrUserNotFound
}

// ------------------ Books ------------------

// Books returns all listings, newest first.
func (a *API) Books() []Book {
	defer a.wait()

	books := a.store.Books()
	for i, j := 0, len(books)-1; i < j; i, j = i+1, j-1 {
		books[i], books[j] = books[j], books[i]
	}
	return books
}

// BookInput carries the user-supplied listing fields.
type BookInput struct {
	Title       string `validate:"required"`
	Author      string `validate:"required"`
	Description string `validate:"required"`
	Price       string `validate:"required"`
	ImageURL    string
	Category    string
	Condition   Condition
}

// CreateBook lists a new book for the owner.
func (a *API) CreateBook(input BookInput, owner User) (Book, error) {
	defer a.wait()

	if err := a.validate.Struct(input); err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}

	book := Book{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
		Condition:   input.Condition,
		Status:      BookAvailable,
		Owner:       owner,
		Comments:    []Comment{},
	}
	if book.ImageURL == "" {
		book.ImageURL = fmt.Sprintf("https://picsum.photos/300/450?random=%d", rand.Intn(1_000_000))
	}
	if book.Category == "" {
		book.Category = "Fiction"
	}
	if err := a.store.AddBook(book); err != nil {
		return Book{}, err
	}
	return book, nil
}

func (a *API) DeleteBook(id string) error {
	defer a.wait()
	return a.store.DeleteBook(id)
}

// AddComment appends a comment to the book's thread, snapshotting the author.
func (a *API) AddComment(bookID, text string, author User) (Comment, error) {
	defer a.wait()

	book, ok := a.store.GetBook(bookID)
	if !ok {
		return Comment{}, ErrBookNotFound
	}
	comment := Comment{
		ID:         uuid.NewString(),
		UserID:     author.ID,
		UserName:   author.Name,
		UserAvatar: author.Avatar,
		Text:       text,
		Timestamp:  time.Now(),
	}
	book.Comments = append(book.Comments, comment)
	if err := a.store.PutBook(book); err != nil {
		return Comment{}, err
	}
	return comment, nil
}

// ------------------ Swaps ------------------

func (a *API) Swaps() []Swap {
	defer a.wait()
	return a.store.Swaps()
}

// CreateSwap records a pending request for the book, snapshotting the book
// title and requester name.
func (a *API) CreateSwap(book Book, requester User, message, location string) (Swap, error) {
	defer a.wait()

	swap := Swap{
		ID:                uuid.NewString(),
		BookID:            book.ID,
		BookTitle:         book.Title,
		RequesterID:       requester.ID,
		RequesterName:     requester.Name,
		OwnerID:           book.Owner.ID,
		Status:            SwapPending,
		RequestDate:       time.Now(),
		RequesterMessage:  message,
		RequesterLocation: location,
	}
	if err := a.store.AddSwap(swap); err != nil {
		return Swap{}, err
	}
	return swap, nil
}

// UpdateSwapStatus resolves a pending request. Accepting also flips the
// referenced book to swapped; the book is written first and the swap row
// last, so a mid-sequence failure leaves the swap pending and re-runnable.
// A failure on the final write wraps ErrPartialCascade.
func (a *API) UpdateSwapStatus(id string, status SwapStatus) (Swap, error) {
	defer a.wait()

	if status != SwapAccepted && status != SwapRejected {
		return Swap{}, fmt.Errorf("%w: %q", ErrInvalidSwapStatus, status)
	}

	swap, ok := a.store.GetSwap(id)
	if !ok {
		return Swap{}, ErrSwapNotFound
	}

	flippedBook := false
	if status == SwapAccepted {
		if book, ok := a.store.GetBook(swap.BookID); ok {
			book.Status = BookSwapped
			if err := a.store.PutBook(book); err != nil {
				return Swap{}, err
			}
			flippedBook = true
		}
	}

	swap.Status = status
	if err := a.store.PutSwap(swap); err != nil {
		if flippedBook {
			return Swap{}, fmt.Errorf("%w: book %s flipped but swap update failed: %w", ErrPartialCascade, swap.BookID, err)
		}
		return Swap{}, err
	}
	return swap, nil
}
