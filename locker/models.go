package locker

import "time"

// Theme is the UI color preference persisted between runs.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// BookStatus tracks whether a listing is still up for grabs.
type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookSwapped   BookStatus = "swapped"
)

// SwapStatus is terminal once it leaves pending.
type SwapStatus string

const (
	SwapPending  SwapStatus = "pending"
	SwapAccepted SwapStatus = "accepted"
	SwapRejected SwapStatus = "rejected"
)

// Condition describes the physical state of a listed book.
type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
)

// Categories lists the selectable listing categories ("All" is a filter
// wildcard, not a category).
var Categories = []string{"Fiction", "Non-Fiction", "Science", "History", "Art", "Philosophy"}

// Conditions lists the selectable listing conditions.
var Conditions = []Condition{ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair}

// User is a marketplace account. Email and Password are stored obfuscated in
// the database; in memory they are always plaintext.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"password,omitempty"`
	Avatar     string    `json:"avatar"`
	IsAdmin    bool      `json:"isAdmin,omitempty"`
	JoinedDate time.Time `json:"joinedDate"`
}

// Comment is appended to a book's thread and never edited afterwards. The
// author fields are a snapshot taken at posting time.
type Comment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar string    `json:"userAvatar"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// Book is a listing. Owner is a full snapshot of the listing user, not a
// reference: later profile edits do not propagate to existing listings.
type Book struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	ImageURL    string     `json:"imageUrl"`
	Category    string     `json:"category"`
	Condition   Condition  `json:"condition"`
	Status      BookStatus `json:"status"`
	Owner       User       `json:"owner"`
	Comments    []Comment  `json:"comments"`
}

// Swap is a request to trade for a book. Book title and requester name are
// snapshots so the request history survives later edits and deletions.
type Swap struct {
	ID                string     `json:"id"`
	BookID            string     `json:"bookId"`
	BookTitle         string     `json:"bookTitle"`
	RequesterID       string     `json:"requesterId"`
	RequesterName     string     `json:"requesterName"`
	OwnerID           string     `json:"ownerId"`
	Status            SwapStatus `json:"status"`
	RequestDate       time.Time  `json:"requestDate"`
	RequesterMessage  string     `json:"requesterMessage,omitempty"`
	RequesterLocation string     `json:"requesterLocation,omitempty"`
}
