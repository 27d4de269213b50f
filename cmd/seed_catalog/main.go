// Command seed_catalog resets the library data file and fills it with a
// small demo catalog and membership, so the CLI has something to show on a
// fresh install.
package main

import (
	"fmt"
	"os"

	"library-ledger/config"
	"library-ledger/library"
	"library-ledger/logger"
)

type seedBook struct {
	title, author, category, isbn string
}

var seedBooks = []seedBook{
	{"Dune", "Frank Herbert", "Fiction", "978-0441172719"},
	{"1984", "George Orwell", "Fiction", "978-0451524935"},
	{"A Brief History of Time", "Stephen Hawking", "Science", "978-0553380163"},
	{"The Selfish Gene", "Richard Dawkins", "Science", "978-0198788607"},
	{"SPQR", "Mary Beard", "History", "978-1631494222"},
	{"The Pragmatic Programmer", "David Thomas", "Technology", "978-0135957059"},
	{"Hamlet", "William Shakespeare", "Literature", "978-0743477123"},
	{"Sapiens", "Yuval Noah Harari", "Non-Fiction", "978-0062316097"},
}

type seedMember struct {
	name, email, phone string
}

var seedMembers = []seedMember{
	{"Ada Lovelace", "ada@example.com", "555-0001"},
	{"Grace Hopper", "grace@example.com", "555-0002"},
	{"Alan Turing", "alan@example.com", "555-0003"},
}

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	fmt.Printf("Resetting %s...\n", cfg.DataFile)
	if err := os.Remove(cfg.DataFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error removing %s: %v\n", cfg.DataFile, err)
		os.Exit(1)
	}

	manager := library.NewManager(cfg.DataFile, log)

	bookIDs := make([]string, 0, len(seedBooks))
	for _, b := range seedBooks {
		id := manager.AddBook(b.title, b.author, b.category, b.isbn)
		bookIDs = append(bookIDs, id)
		fmt.Printf("Added book %s: %s by %s\n", id, b.title, b.author)
	}

	memberIDs := make([]string, 0, len(seedMembers))
	for _, m := range seedMembers {
		id := manager.AddMember(m.name, m.email, m.phone)
		memberIDs = append(memberIDs, id)
		fmt.Printf("Added member %s: %s\n", id, m.name)
	}

	// Put a couple of books in circulation so loan views aren't empty.
	for i, pair := range [][2]int{{0, 0}, {2, 0}, {5, 1}} {
		msg, err := manager.Issue(bookIDs[pair[0]], memberIDs[pair[1]])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error issuing seed book %d: %v\n", i, err)
			os.Exit(1)
		}
		fmt.Println(msg)
	}

	if err := manager.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving seed data: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seed complete: %d books, %d members.\n", len(bookIDs), len(memberIDs))
}
