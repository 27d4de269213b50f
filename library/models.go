package library

import "time"

// BookStatus tracks whether a book sits on the shelf or with a member.
type BookStatus string

const (
	StatusAvailable BookStatus = "Available"
	StatusIssued    BookStatus = "Issued"
)

// Circulation rules.
const (
	// MaxLoansPerMember caps how many books one member may hold at once.
	MaxLoansPerMember = 3
	// LoanPeriodDays is the loan period; a book kept longer accrues fees.
	LoanPeriodDays = 14
	// LateFeePerDay is the fee in dollars per whole day past the loan period.
	LateFeePerDay = 1.0
)

// Book represents one catalog record. While the book is issued, IssuedTo
// holds the borrowing member's id; it is empty while the book is available.
type Book struct {
	ID       string
	Title    string
	Author   string
	Category string
	ISBN     string
	Status   BookStatus
	IssuedTo string
}

// Member represents a registered library member.
type Member struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	JoinDate time.Time // calendar date, time component always midnight
}

// Issuance is a single active loan. The ledger owns these records
// exclusively; a Book only carries the member-id back-reference.
type Issuance struct {
	BookID    string
	IssueDate time.Time
	DueDate   time.Time // IssueDate + LoanPeriodDays, stored for display only
}

// Loan pairs an issuance with the member holding it, for rendering.
type Loan struct {
	MemberID string
	Issuance
}

// OverdueLoan is one entry of the overdue report.
type OverdueLoan struct {
	MemberID    string
	BookID      string
	IssueDate   time.Time
	DueDate     time.Time
	DaysOverdue int
}

// Categories lists the shelving categories the library uses. The list is
// informational; book records are not validated against it.
var Categories = []string{
	"Fiction",
	"Non-Fiction",
	"Science",
	"History",
	"Technology",
	"Literature",
}

// Rules lists the house rules shown to members.
var Rules = []string{
	"Maximum 3 books per member",
	"14 days loan period",
	"Late fee: $1 per day",
	"No food or drinks",
	"Quiet zone",
}
