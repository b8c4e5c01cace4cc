package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"bookswap/locker"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// app holds the session and the in-memory mirrors of the persisted state.
// Mutations update these mirrors directly instead of re-fetching.
type app struct {
	api      *locker.API
	enhancer *locker.Enhancer
	prefs    *locker.Prefs

	user  *locker.User
	books []locker.Book
	swaps []locker.Swap

	// Current marketplace view settings.
	category  string
	condition string
	sortMode  locker.SortMode

	// Books as last listed, so commands can refer to them by number.
	lastList []locker.Book
}

// readPassword reads a password with terminal echo disabled.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}
	cfg := locker.NewConfig()

	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store, err := locker.OpenStore(cfg.DBPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	prefs, err := locker.OpenPrefs(cfg.PrefsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening preferences: %v\n", err)
		os.Exit(1)
	}

	a := &app{
		api:       locker.NewAPI(store, prefs, locker.WithLatency(cfg.Latency)),
		enhancer:  locker.NewEnhancer(cfg.AIAPIKey, logger),
		prefs:     prefs,
		category:  locker.FilterAll,
		condition: locker.FilterAll,
		sortMode:  locker.SortNewest,
	}

	fmt.Println("Welcome to the Book Swap Marketplace!")
	if user, ok := a.api.CurrentSession(); ok {
		a.user = &user
		fmt.Printf("Welcome back, %s.\n", user.Name)
	}

	fmt.Println("Loading marketplace...")
	a.books = a.api.Books()
	a.swaps = a.api.Swaps()

	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("\n%s> ", a.promptLabel())
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "help":
			printHelp()
		case "login":
			a.handleLogin(scanner)
		case "register":
			a.handleRegister(scanner)
		case "logout":
			a.handleLogout()
		case "browse":
			a.handleBrowse()
		case "filter":
			a.handleFilter(scanner)
		case "sort":
			a.handleSort(scanner)
		case "view":
			a.handleView(scanner)
		case "comment":
			a.handleComment(scanner)
		case "swap":
			a.handleRequestSwap(scanner)
		case "my books":
			a.handleMyBooks()
		case "add book":
			a.handleAddBook(scanner)
		case "delete book":
			a.handleDeleteBook(scanner)
		case "requests":
			a.handleRequests(scanner)
		case "my swaps":
			a.handleMySwaps()
		case "users":
			a.handleUsers()
		case "role":
			a.handleRole(scanner)
		case "delete user":
			a.handleDeleteUser(scanner)
		case "theme":
			a.handleTheme()
		case "exit":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for the command list.")
		}
	}
}

func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  Marketplace: browse, filter, sort, view, comment, swap")
	fmt.Println("  Listings:    my books, add book, delete book")
	fmt.Println("  Swaps:       requests, my swaps")
	fmt.Println("  Account:     login, register, logout, theme")
	fmt.Println("  Admin:       users, role, delete user")
	fmt.Println("  System:      help, exit")
}

func (a *app) promptLabel() string {
	if a.user == nil {
		return "guest"
	}
	label := a.user.Name
	if n := locker.NotificationCount(a.swaps, a.user.ID); n > 0 {
		label = fmt.Sprintf("%s (%d pending request(s))", label, n)
	}
	return label
}

func (a *app) requireUser() bool {
	if a.user == nil {
		fmt.Println("Please 'login' or 'register' first.")
		return false
	}
	return true
}

func (a *app) requireAdmin() bool {
	if !a.requireUser() {
		return false
	}
	if !a.user.IsAdmin {
		fmt.Println("This command needs administrator rights.")
		return false
	}
	return true
}

func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func confirm(sc *bufio.Scanner, label string) bool {
	answer, ok := prompt(sc, label+" (y/N): ")
	return ok && strings.EqualFold(answer, "y")
}

// ------------------ Account ------------------

func (a *app) handleLogin(sc *bufio.Scanner) {
	email, ok := prompt(sc, "Email: ")
	if !ok {
		return
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	user, err := a.api.Login(email, password)
	if err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return
	}
	a.user = &user
	fmt.Printf("Welcome back, %s!\n", user.Name)
}

func (a *app) handleRegister(sc *bufio.Scanner) {
	name, ok := prompt(sc, "Name: ")
	if !ok {
		return
	}
	email, ok := prompt(sc, "Email: ")
	if !ok {
		return
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	user, err := a.api.Register(name, email, password)
	if err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		return
	}
	a.user = &user
	fmt.Printf("Account created. Welcome, %s!\n", user.Name)
}

func (a *app) handleLogout() {
	if a.user == nil {
		return
	}
	if err := a.api.Logout(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Goodbye, %s.\n", a.user.Name)
	a.user = nil
}

func (a *app) handleTheme() {
	next := locker.ThemeDark
	if a.prefs.Theme() == locker.ThemeDark {
		next = locker.ThemeLight
	}
	if err := a.prefs.SetTheme(next); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Theme set to %s.\n", next)
}

// ------------------ Marketplace ------------------

func (a *app) handleBrowse() {
	filtered := locker.FilterBooks(a.books, a.category, a.condition)
	sorted := locker.SortBooks(filtered, a.sortMode)
	a.lastList = sorted

	fmt.Printf("Filter: category=%s condition=%s | Sort: %s\n", a.category, a.condition, a.sortMode)
	if len(sorted) == 0 {
		fmt.Println("No books match the current filters.")
		return
	}

	fmt.Printf("%-4s %-32s %-22s %-10s %-12s %-9s %-10s %s\n",
		"#", "Title", "Author", "Price", "Category", "Cond.", "Status", "Owner")
	fmt.Println(strings.Repeat("-", 115))
	for i, b := range sorted {
		fmt.Printf("%-4d %-32s %-22s %-10s %-12s %-9s %-10s %s\n",
			i+1,
			truncateString(b.Title, 32),
			truncateString(b.Author, 22),
			truncateString(b.Price, 10),
			truncateString(b.Category, 12),
			truncateString(string(b.Condition), 9),
			b.Status,
			truncateString(b.Owner.Name, 20))
	}
	fmt.Printf("Showing %d result(s)\n", len(sorted))
}

func (a *app) handleFilter(sc *bufio.Scanner) {
	fmt.Printf("Categories: %s, %s\n", locker.FilterAll, strings.Join(locker.Categories, ", "))
	category, ok := prompt(sc, "Category: ")
	if !ok {
		return
	}
	if category == "" {
		category = locker.FilterAll
	}

	fmt.Printf("Conditions: %s", locker.FilterAll)
	for _, c := range locker.Conditions {
		fmt.Printf(", %s", c)
	}
	fmt.Println()
	condition, ok := prompt(sc, "Condition: ")
	if !ok {
		return
	}
	if condition == "" {
		condition = locker.FilterAll
	}

	a.category, a.condition = category, condition
	a.handleBrowse()
}

func (a *app) handleSort(sc *bufio.Scanner) {
	fmt.Println("Sort modes: newest, title_asc, title_desc, author_asc, author_desc, price_asc, price_desc")
	mode, ok := prompt(sc, "Sort by: ")
	if !ok {
		return
	}
	if mode == "" {
		mode = string(locker.SortNewest)
	}
	a.sortMode = locker.SortMode(mode)
	a.handleBrowse()
}

// pickBook resolves a number from the last listing into a book.
func (a *app) pickBook(sc *bufio.Scanner) (locker.Book, bool) {
	if len(a.lastList) == 0 {
		fmt.Println("Run 'browse' or 'my books' first.")
		return locker.Book{}, false
	}
	numStr, ok := prompt(sc, "Book #: ")
	if !ok {
		return locker.Book{}, false
	}
	num, err := strconv.Atoi(numStr)
	if err != nil || num < 1 || num > len(a.lastList) {
		fmt.Printf("Invalid book number: %s\n", numStr)
		return locker.Book{}, false
	}
	return a.lastList[num-1], true
}

func (a *app) handleView(sc *bufio.Scanner) {
	book, ok := a.pickBook(sc)
	if !ok {
		return
	}

	fmt.Printf("\n%s by %s\n", book.Title, book.Author)
	fmt.Printf("Price: %s | Category: %s | Condition: %s | Status: %s\n",
		book.Price, book.Category, book.Condition, book.Status)
	fmt.Printf("Listed by: %s (joined %s)\n", book.Owner.Name, book.Owner.JoinedDate.Format("Jan 2006"))
	fmt.Printf("Cover: %s\n\n%s\n", book.ImageURL, book.Description)

	if len(book.Comments) > 0 {
		fmt.Printf("\nComments (%d):\n", len(book.Comments))
		for _, c := range book.Comments {
			fmt.Printf("  [%s] %s: %s\n", c.Timestamp.Format("2006-01-02"), c.UserName, c.Text)
		}
	}
	if a.user != nil && locker.HasPendingSwap(a.swaps, book.ID, a.user.ID) {
		fmt.Println("\nYou already have a pending swap request for this book.")
	}
}

func (a *app) handleComment(sc *bufio.Scanner) {
	if !a.requireUser() {
		return
	}
	book, ok := a.pickBook(sc)
	if !ok {
		return
	}
	text, ok := prompt(sc, "Comment: ")
	if !ok || text == "" {
		return
	}

	comment, err := a.api.AddComment(book.ID, text, *a.user)
	if err != nil {
		fmt.Printf("Error adding comment: %v\n", err)
		return
	}
	for i := range a.books {
		if a.books[i].ID == book.ID {
			a.books[i].Comments = append(a.books[i].Comments, comment)
		}
	}
	fmt.Println("Comment posted.")
}

func (a *app) handleRequestSwap(sc *bufio.Scanner) {
	if !a.requireUser() {
		return
	}
	book, ok := a.pickBook(sc)
	if !ok {
		return
	}
	if book.Owner.ID == a.user.ID {
		fmt.Println("You can't request a swap on your own listing.")
		return
	}
	if book.Status != locker.BookAvailable {
		fmt.Println("This book has already been swapped.")
		return
	}
	if locker.HasPendingSwap(a.swaps, book.ID, a.user.ID) {
		fmt.Println("You already have a pending request for this book.")
		return
	}

	message, ok := prompt(sc, "Message to the owner (optional): ")
	if !ok {
		return
	}
	location, ok := prompt(sc, "Suggested meeting location (optional): ")
	if !ok {
		return
	}
	if !confirm(sc, fmt.Sprintf("Request a swap for '%s'?", book.Title)) {
		fmt.Println("Cancelled.")
		return
	}

	swap, err := a.api.CreateSwap(book, *a.user, message, location)
	if err != nil {
		fmt.Printf("Error requesting swap: %v\n", err)
		return
	}
	a.swaps = append(a.swaps, swap)
	fmt.Printf("Swap requested for '%s'. The owner will see your request.\n", book.Title)
}

// ------------------ Listings ------------------

func (a *app) handleMyBooks() {
	if !a.requireUser() {
		return
	}
	var mine []locker.Book
	for _, b := range a.books {
		if b.Owner.ID == a.user.ID {
			mine = append(mine, b)
		}
	}
	a.lastList = mine

	if len(mine) == 0 {
		fmt.Println("You have no listings yet. Use 'add book'.")
		return
	}
	fmt.Printf("%-4s %-32s %-22s %-10s %-10s %s\n", "#", "Title", "Author", "Price", "Status", "Comments")
	fmt.Println(strings.Repeat("-", 90))
	for i, b := range mine {
		fmt.Printf("%-4d %-32s %-22s %-10s %-10s %d\n",
			i+1, truncateString(b.Title, 32), truncateString(b.Author, 22),
			truncateString(b.Price, 10), b.Status, len(b.Comments))
	}
}

func (a *app) handleAddBook(sc *bufio.Scanner) {
	if !a.requireUser() {
		return
	}
	title, ok := prompt(sc, "Title: ")
	if !ok {
		return
	}
	author, ok := prompt(sc, "Author: ")
	if !ok {
		return
	}
	description, ok := prompt(sc, "Description (rough notes are fine): ")
	if !ok {
		return
	}
	price, ok := prompt(sc, "Estimated value (e.g. $20 or 'Swap Only'): ")
	if !ok {
		return
	}
	fmt.Printf("Categories: %s\n", strings.Join(locker.Categories, ", "))
	category, ok := prompt(sc, "Category: ")
	if !ok {
		return
	}
	condition, ok := prompt(sc, "Condition (New/Like New/Good/Fair): ")
	if !ok {
		return
	}
	if condition == "" {
		condition = string(locker.ConditionGood)
	}

	if confirm(sc, "Polish the description with the writing assistant?") {
		improved := a.enhancer.Enhance(context.Background(), title, author, description)
		if improved != description {
			fmt.Printf("Suggested description:\n%s\n", improved)
			if confirm(sc, "Use it?") {
				description = improved
			}
		} else {
			fmt.Println("Assistant unavailable, keeping your notes.")
		}
	}

	book, err := a.api.CreateBook(locker.BookInput{
		Title:       title,
		Author:      author,
		Description: description,
		Price:       price,
		Category:    category,
		Condition:   locker.Condition(condition),
	}, *a.user)
	if err != nil {
		fmt.Printf("Error adding listing: %v\n", err)
		return
	}
	// Mirror the newest-first ordering the marketplace uses.
	a.books = append([]locker.Book{book}, a.books...)
	fmt.Printf("Listed '%s'.\n", book.Title)
}

func (a *app) handleDeleteBook(sc *bufio.Scanner) {
	if !a.requireUser() {
		return
	}
	book, ok := a.pickBook(sc)
	if !ok {
		return
	}
	if book.Owner.ID != a.user.ID && !a.user.IsAdmin {
		fmt.Println("Only the owner or an administrator can remove a listing.")
		return
	}
	if !confirm(sc, fmt.Sprintf("Delete listing '%s'?", book.Title)) {
		fmt.Println("Cancelled.")
		return
	}

	if err := a.api.DeleteBook(book.ID); err != nil {
		fmt.Printf("Error deleting listing: %v\n", err)
		return
	}
	a.books = removeBook(a.books, book.ID)
	a.lastList = removeBook(a.lastList, book.ID)
	fmt.Println("Listing removed.")
}

// ------------------ Swaps ------------------

func (a *app) handleRequests(sc *bufio.Scanner) {
	if !a.requireUser() {
		return
	}
	var incoming []locker.Swap
	for _, s := range a.swaps {
		if s.OwnerID == a.user.ID && s.Status == locker.SwapPending {
			incoming = append(incoming, s)
		}
	}
	if len(incoming) == 0 {
		fmt.Println("No pending swap requests.")
		return
	}

	fmt.Printf("%-4s %-32s %-20s %-12s %s\n", "#", "Book", "Requested by", "Date", "Message")
	fmt.Println(strings.Repeat("-", 100))
	for i, s := range incoming {
		fmt.Printf("%-4d %-32s %-20s %-12s %s\n",
			i+1, truncateString(s.BookTitle, 32), truncateString(s.RequesterName, 20),
			s.RequestDate.Format("2006-01-02"), truncateString(s.RequesterMessage, 30))
		if s.RequesterLocation != "" {
			fmt.Printf("     suggested meeting: %s\n", s.RequesterLocation)
		}
	}

	numStr, ok := prompt(sc, "Request # (or Enter to go back): ")
	if !ok || numStr == "" {
		return
	}
	num, err := strconv.Atoi(numStr)
	if err != nil || num < 1 || num > len(incoming) {
		fmt.Printf("Invalid request number: %s\n", numStr)
		return
	}
	picked := incoming[num-1]

	action, ok := prompt(sc, "accept or reject? ")
	if !ok {
		return
	}
	var status locker.SwapStatus
	switch strings.ToLower(action) {
	case "accept":
		status = locker.SwapAccepted
	case "reject":
		status = locker.SwapRejected
	default:
		fmt.Println("Expected 'accept' or 'reject'.")
		return
	}
	if !confirm(sc, fmt.Sprintf("Really %s the request for '%s'?", strings.ToLower(action), picked.BookTitle)) {
		fmt.Println("Cancelled.")
		return
	}

	updated, err := a.api.UpdateSwapStatus(picked.ID, status)
	if err != nil {
		fmt.Printf("Error updating swap: %v\n", err)
		return
	}
	for i := range a.swaps {
		if a.swaps[i].ID == updated.ID {
			a.swaps[i] = updated
		}
	}
	if updated.Status == locker.SwapAccepted {
		for i := range a.books {
			if a.books[i].ID == updated.BookID {
				a.books[i].Status = locker.BookSwapped
			}
		}
		fmt.Printf("Swap accepted. '%s' is now marked as swapped — arrange the handover with %s.\n",
			updated.BookTitle, updated.RequesterName)
	} else {
		fmt.Println("Request declined.")
	}
}

func (a *app) handleMySwaps() {
	if !a.requireUser() {
		return
	}
	var outgoing []locker.Swap
	for _, s := range a.swaps {
		if s.RequesterID == a.user.ID {
			outgoing = append(outgoing, s)
		}
	}
	if len(outgoing) == 0 {
		fmt.Println("You haven't requested any swaps.")
		return
	}
	fmt.Printf("%-32s %-12s %s\n", "Book", "Date", "Status")
	fmt.Println(strings.Repeat("-", 60))
	for _, s := range outgoing {
		fmt.Printf("%-32s %-12s %s\n",
			truncateString(s.BookTitle, 32), s.RequestDate.Format("2006-01-02"), s.Status)
	}
}

// ------------------ Admin ------------------

func (a *app) handleUsers() {
	if !a.requireAdmin() {
		return
	}
	users := a.api.Users()
	fmt.Printf("%-12s %-24s %-28s %-8s %s\n", "ID", "Name", "Email", "Admin", "Joined")
	fmt.Println(strings.Repeat("-", 90))
	for _, u := range users {
		fmt.Printf("%-12s %-24s %-28s %-8t %s\n",
			truncateString(u.ID, 12), truncateString(u.Name, 24),
			truncateString(u.Email, 28), u.IsAdmin, u.JoinedDate.Format("2006-01-02"))
	}
}

func (a *app) handleRole(sc *bufio.Scanner) {
	if !a.requireAdmin() {
		return
	}
	id, ok := prompt(sc, "User ID: ")
	if !ok || id == "" {
		return
	}
	makeAdmin := confirm(sc, "Grant administrator rights?")

	user, err := a.api.UpdateUserRole(id, makeAdmin)
	if err != nil {
		fmt.Printf("Error updating role: %v\n", err)
		return
	}
	fmt.Printf("%s is now admin=%t.\n", user.Name, user.IsAdmin)
}

func (a *app) handleDeleteUser(sc *bufio.Scanner) {
	if !a.requireAdmin() {
		return
	}
	id, ok := prompt(sc, "User ID: ")
	if !ok || id == "" {
		return
	}
	if id == a.user.ID {
		fmt.Println("You can't delete your own account while signed in.")
		return
	}
	if !confirm(sc, "Delete this user and all their listings?") {
		fmt.Println("Cancelled.")
		return
	}

	if err := a.api.DeleteUser(id); err != nil {
		fmt.Printf("Error deleting user: %v\n", err)
		return
	}
	// Prune the in-memory mirrors; swaps are only pruned here, not in storage.
	var books []locker.Book
	for _, b := range a.books {
		if b.Owner.ID != id {
			books = append(books, b)
		}
	}
	a.books = books
	var swaps []locker.Swap
	for _, s := range a.swaps {
		if s.RequesterID != id && s.OwnerID != id {
			swaps = append(swaps, s)
		}
	}
	a.swaps = swaps
	fmt.Println("User and their listings removed.")
}

// ------------------ Utilities ------------------

func removeBook(books []locker.Book, id string) []locker.Book {
	out := make([]locker.Book, 0, len(books))
	for _, b := range books {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
