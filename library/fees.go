package library

import "time"

// FeeCalculator derives overdue reports from the ledger. It holds no state
// of its own; every call recomputes from the current loans.
type FeeCalculator struct {
	ledger *IssuanceLedger
	now    func() time.Time
}

// NewFeeCalculator returns a calculator reading from ledger.
func NewFeeCalculator(ledger *IssuanceLedger) *FeeCalculator {
	return &FeeCalculator{ledger: ledger, now: time.Now}
}

// OverdueLoans returns every active loan whose elapsed whole days since
// issue exceed the loan period, in ledger order (member id order, then
// per-member creation order).
func (f *FeeCalculator) OverdueLoans() []OverdueLoan {
	now := f.now()
	var overdue []OverdueLoan
	for _, loan := range f.ledger.AllLoans() {
		days := elapsedDays(loan.IssueDate, now) - LoanPeriodDays
		if days <= 0 {
			continue
		}
		overdue = append(overdue, OverdueLoan{
			MemberID:    loan.MemberID,
			BookID:      loan.BookID,
			IssueDate:   loan.IssueDate,
			DueDate:     loan.DueDate,
			DaysOverdue: days,
		})
	}
	return overdue
}

// TotalLateFees sums the fees across all overdue loans. An empty overdue
// set yields 0.
func (f *FeeCalculator) TotalLateFees() float64 {
	total := 0.0
	for _, loan := range f.OverdueLoans() {
		total += float64(loan.DaysOverdue) * LateFeePerDay
	}
	return total
}
