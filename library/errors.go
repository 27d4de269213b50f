package library

import "errors"

// Domain errors. Callers match these with errors.Is; the wrapped variants
// returned by operations add the offending id.
var (
	// ErrBookNotFound reports an unknown book id.
	ErrBookNotFound = errors.New("book not found")
	// ErrMemberNotFound reports an unknown member id.
	ErrMemberNotFound = errors.New("member not found")
	// ErrLimitReached reports that a member already holds the maximum
	// number of books.
	ErrLimitReached = errors.New("maximum book limit reached (3 books)")
	// ErrBookUnavailable reports an issue attempt on a book that is not
	// on the shelf.
	ErrBookUnavailable = errors.New("book not available")
	// ErrNoLoans reports a return attempt by a member with no active loans.
	ErrNoLoans = errors.New("no books issued to this member")
	// ErrNotIssuedToMember reports a return attempt for a book the member
	// does not hold.
	ErrNotIssuedToMember = errors.New("book not issued to this member")
	// ErrBookIssued blocks deletion of a book that is out on loan.
	ErrBookIssued = errors.New("cannot delete book that is currently issued")
	// ErrMemberHasLoans blocks deletion of a member holding books.
	ErrMemberHasLoans = errors.New("cannot delete member who has books currently issued")
)
