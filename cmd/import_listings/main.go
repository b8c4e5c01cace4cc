package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"bookswap/locker"

	"github.com/spf13/cobra"
)

var (
	dbPath    string
	ownerMail string
	inputPath string
	reset     bool
)

// listing mirrors locker.BookInput so import files stay decoupled from
// the storage model.
type listing struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
}

func main() {
	cmd := &cobra.Command{
		Use:   "import_listings",
		Short: "Bulk-import book listings from a JSON file",
		Long: "Reads a JSON array of listings and adds each one to the marketplace\n" +
			"database under the given owner's account.",
		RunE: runImport,
	}

	cmd.Flags().StringVar(&dbPath, "db", "bookswap.db", "path to the marketplace database")
	cmd.Flags().StringVar(&ownerMail, "owner", "", "email of the account that will own the listings")
	cmd.Flags().StringVar(&inputPath, "file", "", "JSON file with listings (use - for stdin)")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the database files before importing")
	cmd.MarkFlagRequired("owner")
	cmd.MarkFlagRequired("file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	if reset {
		fmt.Println("Cleaning up existing database files...")
		for _, suffix := range []string{"", "-shm", "-wal"} {
			if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
				fmt.Printf("Warning: Could not remove %s: %v\n", dbPath+suffix, err)
			}
		}
	}

	listings, err := readListings(inputPath)
	if err != nil {
		return fmt.Errorf("reading listings: %w", err)
	}
	if len(listings) == 0 {
		return fmt.Errorf("no listings found in %s", inputPath)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store, err := locker.OpenStore(dbPath, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	prefs, err := locker.OpenPrefs(dbPath + ".prefs.json")
	if err != nil {
		return fmt.Errorf("opening preferences: %w", err)
	}
	api := locker.NewAPI(store, prefs, locker.WithLatency(0))

	owner, ok := findUserByEmail(api, ownerMail)
	if !ok {
		return fmt.Errorf("no account with email %s", ownerMail)
	}

	successCount := 0
	errorCount := 0
	for _, l := range listings {
		fmt.Printf("Importing: %s by %s... ", l.Title, l.Author)
		book, err := api.CreateBook(locker.BookInput{
			Title:       l.Title,
			Author:      l.Author,
			Description: l.Description,
			Price:       l.Price,
			Category:    l.Category,
			Condition:   locker.Condition(l.Condition),
		}, owner)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (ID: %s)\n", book.ID)
		successCount++
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d listing(s)\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Printf("\n%s now owns:\n", owner.Name)
		fmt.Printf("%-14s %-40s %-25s %s\n", "ID", "Title", "Author", "Price")
		fmt.Println(strings.Repeat("-", 90))
		for _, b := range api.Books() {
			if b.Owner.ID != owner.ID {
				continue
			}
			fmt.Printf("%-14s %-40s %-25s %s\n",
				truncateString(b.ID, 14), truncateString(b.Title, 40),
				truncateString(b.Author, 25), b.Price)
		}
	}
	return nil
}

func readListings(path string) ([]listing, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var listings []listing
	if err := json.NewDecoder(r).Decode(&listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func findUserByEmail(api *locker.API, email string) (locker.User, bool) {
	for _, u := range api.Users() {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return locker.User{}, false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
