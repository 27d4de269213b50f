package library

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClock = time.Date(2026, 8, 1, 10, 0, 0, 0, time.Local)

// issueAt freezes the ledger clock at ts for the next calls.
func issueAt(m *Manager, ts time.Time) {
	m.ledger.now = func() time.Time { return ts }
}

func TestIssueSuccess(t *testing.T) {
	m := newTestManager(t)
	issueAt(m, testClock)
	bookID := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")

	msg, err := m.Issue(bookID, memberID)
	require.NoError(t, err)
	assert.Equal(t, "Book 'Dune' issued to Ada", msg)

	book, _ := m.Book(bookID)
	assert.Equal(t, StatusIssued, book.Status)
	assert.Equal(t, memberID, book.IssuedTo)

	loans := m.Loans(memberID)
	require.Len(t, loans, 1)
	assert.Equal(t, bookID, loans[0].BookID)
	assert.Equal(t, testClock, loans[0].IssueDate)
	assert.Equal(t, testClock.AddDate(0, 0, LoanPeriodDays), loans[0].DueDate)
}

func TestIssueUnknownMember(t *testing.T) {
	m := newTestManager(t)
	bookID := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")

	_, err := m.Issue(bookID, "0404")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestIssueUnknownBook(t *testing.T) {
	m := newTestManager(t)
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")

	_, err := m.Issue("0404", memberID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestIssueBookAlreadyOut(t *testing.T) {
	m := newTestManager(t)
	bookID := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	ada := m.AddMember("Ada", "ada@example.com", "555-0001")
	grace := m.AddMember("Grace", "grace@example.com", "555-0002")

	_, err := m.Issue(bookID, ada)
	require.NoError(t, err)

	_, err = m.Issue(bookID, grace)
	assert.ErrorIs(t, err, ErrBookUnavailable)
}

func TestIssueLimitReached(t *testing.T) {
	m := newTestManager(t)
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")

	for i := 0; i < MaxLoansPerMember; i++ {
		bookID := m.AddBook(fmt.Sprintf("Book %d", i), "Author", "Fiction", "x")
		_, err := m.Issue(bookID, memberID)
		require.NoError(t, err)
	}

	fourth := m.AddBook("One Too Many", "Author", "Fiction", "x")
	_, err := m.Issue(fourth, memberID)
	assert.ErrorIs(t, err, ErrLimitReached)

	// The fourth book is untouched by the failed issue.
	book, _ := m.Book(fourth)
	assert.Equal(t, StatusAvailable, book.Status)
	assert.Len(t, m.Loans(memberID), MaxLoansPerMember)
}

func TestReturnOnTime(t *testing.T) {
	m := newTestManager(t)
	issueAt(m, testClock)
	bookID := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")
	_, err := m.Issue(bookID, memberID)
	require.NoError(t, err)

	issueAt(m, testClock.AddDate(0, 0, 5))
	msg, err := m.Return(bookID, memberID)
	require.NoError(t, err)
	assert.Equal(t, "Book returned on time", msg)

	book, _ := m.Book(bookID)
	assert.Equal(t, StatusAvailable, book.Status)
	assert.Empty(t, book.IssuedTo)
	// The emptied ledger entry is pruned with the last return.
	assert.NotContains(t, m.ledger.loans, memberID)
}

func TestReturnExactlyAtLoanPeriodIsFree(t *testing.T) {
	m := newTestManager(t)
	issueAt(m, testClock)
	bookID := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")
	_, err := m.Issue(bookID, memberID)
	require.NoError(t, err)

	issueAt(m, testClock.AddDate(0, 0, LoanPeriodDays))
	msg, err := m.Return(bookID, memberID)
	require.NoError(t, err)
	assert.Equal(t, "Book returned on time", msg)
}

// A few hours past the 14-day mark is still day 14: whole-day truncation.
func TestReturnFeeUsesWholeDayTruncation(t *testing.T) {
	m := newTestManager(t)
	issueAt(m, testClock)
	bookID := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")
	_, err := m.Issue(bookID, memberID)
	require.NoError(t, err)

	issueAt(m, testClock.AddDate(0, 0, LoanPeriodDays).Add(7*time.Hour))
	msg, err := m.Return(bookID, memberID)
	require.NoError(t, err)
	assert.Equal(t, "Book returned on time", msg)
}

func TestReturnLateFee(t *testing.T) {
	m := newTestManager(t)
	issueAt(m, testClock)
	bookID := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")
	_, err := m.Issue(bookID, memberID)
	require.NoError(t, err)

	issueAt(m, testClock.AddDate(0, 0, 17))
	msg, err := m.Return(bookID, memberID)
	require.NoError(t, err)
	assert.Equal(t, "Book returned. Late fee: $3.00", msg)
}

func TestReturnNoLoansForMember(t *testing.T) {
	m := newTestManager(t)
	bookID := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")

	_, err := m.Return(bookID, memberID)
	assert.ErrorIs(t, err, ErrNoLoans)
}

func TestReturnBookNotHeldByMember(t *testing.T) {
	m := newTestManager(t)
	held := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	other := m.AddBook("1984", "George Orwell", "Fiction", "x")
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")
	_, err := m.Issue(held, memberID)
	require.NoError(t, err)

	_, err = m.Return(other, memberID)
	assert.ErrorIs(t, err, ErrNotIssuedToMember)
}

func TestReturnRemovesOnlyMatchingLoan(t *testing.T) {
	m := newTestManager(t)
	first := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	second := m.AddBook("1984", "George Orwell", "Fiction", "x")
	third := m.AddBook("Hamlet", "William Shakespeare", "Literature", "x")
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")
	for _, id := range []string{first, second, third} {
		_, err := m.Issue(id, memberID)
		require.NoError(t, err)
	}

	_, err := m.Return(second, memberID)
	require.NoError(t, err)

	loans := m.Loans(memberID)
	require.Len(t, loans, 2)
	// Creation order of the remaining loans is preserved.
	assert.Equal(t, first, loans[0].BookID)
	assert.Equal(t, third, loans[1].BookID)
}

func TestReturnThenReissue(t *testing.T) {
	m := newTestManager(t)
	bookID := m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	memberID := m.AddMember("Ada", "ada@example.com", "555-0001")

	_, err := m.Issue(bookID, memberID)
	require.NoError(t, err)
	_, err = m.Return(bookID, memberID)
	require.NoError(t, err)
	_, err = m.Issue(bookID, memberID)
	require.NoError(t, err)

	assert.Len(t, m.Books(), 1)
	assert.Len(t, m.Loans(memberID), 1)
	book, _ := m.Book(bookID)
	assert.Equal(t, StatusIssued, book.Status)
	assert.Equal(t, memberID, book.IssuedTo)
}

func TestAllLoansOrdering(t *testing.T) {
	m := newTestManager(t)
	ada := m.AddMember("Ada", "ada@example.com", "555-0001")
	grace := m.AddMember("Grace", "grace@example.com", "555-0002")

	b1 := m.AddBook("A", "a", "Fiction", "x")
	b2 := m.AddBook("B", "b", "Fiction", "x")
	b3 := m.AddBook("C", "c", "Fiction", "x")

	// Interleave so creation order differs from book id order per member.
	_, err := m.Issue(b2, grace)
	require.NoError(t, err)
	_, err = m.Issue(b3, ada)
	require.NoError(t, err)
	_, err = m.Issue(b1, ada)
	require.NoError(t, err)

	loans := m.AllLoans()
	require.Len(t, loans, 3)
	// Members in id order, per-member loans in creation order.
	assert.Equal(t, []string{ada, ada, grace}, []string{loans[0].MemberID, loans[1].MemberID, loans[2].MemberID})
	assert.Equal(t, b3, loans[0].BookID)
	assert.Equal(t, b1, loans[1].BookID)
	assert.Equal(t, b2, loans[2].BookID)
}
