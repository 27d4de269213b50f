package library

import (
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RefChecker reports whether circulation state still references an entity.
// The EntityStore consults it before deleting so a record can never go away
// while a loan points at it.
type RefChecker interface {
	BookReferenced(bookID string) bool
	ActiveLoanCount(memberID string) int
}

// EntityStore owns the book and member records. It assigns ids, enforces
// per-entity invariants, and knows nothing about loans beyond what the
// RefChecker tells it at deletion time.
type EntityStore struct {
	books   map[string]*Book
	members map[string]*Member

	// Ids are fixed-width zero-padded sequence numbers drawn from
	// per-collection counters. The counters only ever move forward within
	// a process, so a deleted id is never handed out again while any live
	// state could still reference it.
	nextBookID   int
	nextMemberID int

	now func() time.Time
	log *zap.Logger
}

// NewEntityStore returns an empty store.
func NewEntityStore(log *zap.Logger) *EntityStore {
	return &EntityStore{
		books:        make(map[string]*Book),
		members:      make(map[string]*Member),
		nextBookID:   1,
		nextMemberID: 1,
		now:          time.Now,
		log:          log.Named("store"),
	}
}

// formatID renders a sequence number in the 4-digit zero-padded scheme
// ("0001"). Numbers past 9999 widen rather than wrap.
func formatID(n int) string {
	return fmt.Sprintf("%04d", n)
}

// AddBook registers a new book. It always succeeds; the new record starts
// Available with no holder.
func (s *EntityStore) AddBook(title, author, category, isbn string) string {
	id := formatID(s.nextBookID)
	s.nextBookID++
	s.books[id] = &Book{
		ID:       id,
		Title:    title,
		Author:   author,
		Category: category,
		ISBN:     isbn,
		Status:   StatusAvailable,
	}
	s.log.Debug("book added", zap.String("id", id), zap.String("title", title))
	return id
}

// AddMember registers a new member with today's date as the join date.
func (s *EntityStore) AddMember(name, email, phone string) string {
	id := formatID(s.nextMemberID)
	s.nextMemberID++
	y, m, d := s.now().Date()
	s.members[id] = &Member{
		ID:       id,
		Name:     name,
		Email:    email,
		Phone:    phone,
		JoinDate: time.Date(y, m, d, 0, 0, 0, 0, time.Local),
	}
	s.log.Debug("member added", zap.String("id", id), zap.String("name", name))
	return id
}

// DeleteBook removes a book permanently. It fails with ErrBookNotFound for
// an unknown id and ErrBookIssued while the book is on loan. The ledger scan
// via refs is redundant with the status check but stays as a guard against
// the two drifting apart.
func (s *EntityStore) DeleteBook(id string, refs RefChecker) (string, error) {
	book, ok := s.books[id]
	if !ok {
		return "", errors.Wrap(ErrBookNotFound, id)
	}
	if book.Status == StatusIssued {
		return "", errors.Wrap(ErrBookIssued, id)
	}
	if refs.BookReferenced(id) {
		return "", errors.Wrap(ErrBookIssued, id)
	}
	delete(s.books, id)
	s.log.Debug("book deleted", zap.String("id", id), zap.String("title", book.Title))
	return fmt.Sprintf("Book '%s' has been deleted from the library", book.Title), nil
}

// DeleteMember removes a member permanently. It fails with
// ErrMemberNotFound for an unknown id and ErrMemberHasLoans while the member
// still holds books.
func (s *EntityStore) DeleteMember(id string, refs RefChecker) (string, error) {
	member, ok := s.members[id]
	if !ok {
		return "", errors.Wrap(ErrMemberNotFound, id)
	}
	if refs.ActiveLoanCount(id) > 0 {
		return "", errors.Wrap(ErrMemberHasLoans, id)
	}
	delete(s.members, id)
	s.log.Debug("member deleted", zap.String("id", id), zap.String("name", member.Name))
	return fmt.Sprintf("Member '%s' has been deleted from the library", member.Name), nil
}

// Book looks up a single book.
func (s *EntityStore) Book(id string) (*Book, bool) {
	b, ok := s.books[id]
	return b, ok
}

// Member looks up a single member.
func (s *EntityStore) Member(id string) (*Member, bool) {
	m, ok := s.members[id]
	return m, ok
}

// Books returns the catalog in id order.
func (s *EntityStore) Books() []*Book {
	ids := make([]string, 0, len(s.books))
	for id := range s.books {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	books := make([]*Book, 0, len(ids))
	for _, id := range ids {
		books = append(books, s.books[id])
	}
	return books
}

// Members returns all members in id order.
func (s *EntityStore) Members() []*Member {
	ids := make([]string, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	members := make([]*Member, 0, len(ids))
	for _, id := range ids {
		members = append(members, s.members[id])
	}
	return members
}

// restore replaces the store contents with loaded state and advances the id
// counters past every numeric id present, so later additions cannot collide
// with live records.
func (s *EntityStore) restore(books map[string]*Book, members map[string]*Member) {
	s.books = books
	s.members = members
	s.nextBookID = highestID(books) + 1
	s.nextMemberID = highestID(members) + 1
}

func highestID[T any](m map[string]*T) int {
	max := 0
	for id := range m {
		if n, err := parseID(id); err == nil && n > max {
			max = n
		}
	}
	return max
}

func parseID(id string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(id, "%d", &n); err != nil {
		return 0, err
	}
	return n, nil
}
