package library

import (
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// IssuanceLedger owns the mapping from member id to that member's active
// loans. Entries keep creation order; a member id is present as a key only
// while it has at least one active loan (emptied entries are pruned).
type IssuanceLedger struct {
	store *EntityStore
	loans map[string][]Issuance

	now func() time.Time
	log *zap.Logger
}

// NewIssuanceLedger returns an empty ledger backed by store for entity
// existence and status.
func NewIssuanceLedger(store *EntityStore, log *zap.Logger) *IssuanceLedger {
	return &IssuanceLedger{
		store: store,
		loans: make(map[string][]Issuance),
		now:   time.Now,
		log:   log.Named("ledger"),
	}
}

// Issue lends a book to a member. Checks run in a fixed order: member
// exists, member under the loan limit, book exists, book available. On
// success the book moves to Issued and a loan due in LoanPeriodDays is
// appended to the member's entry.
func (l *IssuanceLedger) Issue(bookID, memberID string) (string, error) {
	member, ok := l.store.Member(memberID)
	if !ok {
		return "", errors.Wrap(ErrMemberNotFound, memberID)
	}
	if len(l.loans[memberID]) >= MaxLoansPerMember {
		return "", errors.Wrap(ErrLimitReached, memberID)
	}
	book, ok := l.store.Book(bookID)
	if !ok {
		return "", errors.Wrap(ErrBookNotFound, bookID)
	}
	if book.Status != StatusAvailable {
		return "", errors.Wrap(ErrBookUnavailable, bookID)
	}

	issueDate := l.now()
	l.loans[memberID] = append(l.loans[memberID], Issuance{
		BookID:    bookID,
		IssueDate: issueDate,
		DueDate:   issueDate.AddDate(0, 0, LoanPeriodDays),
	})
	book.Status = StatusIssued
	book.IssuedTo = memberID

	l.log.Debug("book issued",
		zap.String("book_id", bookID),
		zap.String("member_id", memberID),
		zap.Time("due", issueDate.AddDate(0, 0, LoanPeriodDays)))
	return fmt.Sprintf("Book '%s' issued to %s", book.Title, member.Name), nil
}

// Return takes a book back from a member, computes the late fee, and makes
// the book available again. The fee counts whole days elapsed since the
// issue date beyond the loan period, at LateFeePerDay.
func (l *IssuanceLedger) Return(bookID, memberID string) (string, error) {
	entry, ok := l.loans[memberID]
	if !ok {
		return "", errors.Wrap(ErrNoLoans, memberID)
	}
	for i, issued := range entry {
		if issued.BookID != bookID {
			continue
		}
		fee := lateFee(issued.IssueDate, l.now())

		entry = append(entry[:i], entry[i+1:]...)
		if len(entry) == 0 {
			delete(l.loans, memberID)
		} else {
			l.loans[memberID] = entry
		}
		if book, ok := l.store.Book(bookID); ok {
			book.Status = StatusAvailable
			book.IssuedTo = ""
		}

		l.log.Debug("book returned",
			zap.String("book_id", bookID),
			zap.String("member_id", memberID),
			zap.Float64("fee", fee))
		if fee > 0 {
			return fmt.Sprintf("Book returned. Late fee: $%.2f", fee), nil
		}
		return "Book returned on time", nil
	}
	return "", errors.Wrap(ErrNotIssuedToMember, bookID)
}

// Loans returns a member's active loans in creation order. The returned
// slice is a copy.
func (l *IssuanceLedger) Loans(memberID string) []Issuance {
	entry := l.loans[memberID]
	out := make([]Issuance, len(entry))
	copy(out, entry)
	return out
}

// AllLoans returns every active loan: members in id order, loans per member
// in creation order.
func (l *IssuanceLedger) AllLoans() []Loan {
	var out []Loan
	for _, memberID := range l.memberIDs() {
		for _, issued := range l.loans[memberID] {
			out = append(out, Loan{MemberID: memberID, Issuance: issued})
		}
	}
	return out
}

// BookReferenced reports whether any active loan points at bookID. Part of
// the RefChecker deletion guard.
func (l *IssuanceLedger) BookReferenced(bookID string) bool {
	for _, entry := range l.loans {
		for _, issued := range entry {
			if issued.BookID == bookID {
				return true
			}
		}
	}
	return false
}

// ActiveLoanCount reports how many books memberID currently holds. Part of
// the RefChecker deletion guard.
func (l *IssuanceLedger) ActiveLoanCount(memberID string) int {
	return len(l.loans[memberID])
}

// Prune drops an empty ledger entry for memberID, if one exists. Entries are
// already pruned on return; this is the belt-and-suspenders hook deletion
// uses.
func (l *IssuanceLedger) Prune(memberID string) {
	if entry, ok := l.loans[memberID]; ok && len(entry) == 0 {
		delete(l.loans, memberID)
	}
}

func (l *IssuanceLedger) memberIDs() []string {
	ids := make([]string, 0, len(l.loans))
	for id := range l.loans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// restore replaces the ledger contents with loaded state, pruning any empty
// entries so the key-present invariant holds from the start.
func (l *IssuanceLedger) restore(loans map[string][]Issuance) {
	for id, entry := range loans {
		if len(entry) == 0 {
			delete(loans, id)
		}
	}
	l.loans = loans
}

// elapsedDays is the whole-day truncation of to − from.
func elapsedDays(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// lateFee computes the fee owed for a loan issued at issueDate and returned
// at now. The due date is never consulted; it is derived state.
func lateFee(issueDate, now time.Time) float64 {
	overdue := elapsedDays(issueDate, now) - LoanPeriodDays
	if overdue < 0 {
		overdue = 0
	}
	return float64(overdue) * LateFeePerDay
}
