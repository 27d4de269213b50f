package library

import (
	"go.uber.org/zap"
)

// Manager is a thin façade over the core components, keeping CLI code
// simple. Mutating operations never persist on their own; callers decide
// when to Save.
type Manager struct {
	store   *EntityStore
	ledger  *IssuanceLedger
	fees    *FeeCalculator
	catalog *CatalogSearch
	gateway *Gateway
	log     *zap.Logger
}

// NewManager wires an empty library persisting to dataFile. Call Load to
// pick up previously saved state.
func NewManager(dataFile string, log *zap.Logger) *Manager {
	store := NewEntityStore(log)
	ledger := NewIssuanceLedger(store, log)
	return &Manager{
		store:   store,
		ledger:  ledger,
		fees:    NewFeeCalculator(ledger),
		catalog: NewCatalogSearch(store),
		gateway: NewGateway(dataFile, log),
		log:     log.Named("manager"),
	}
}

// Load replaces in-memory state with the contents of the data file. On any
// load error the library stays empty and the error is returned; the caller
// decides whether an unreadable file is fatal.
func (m *Manager) Load() error {
	state, err := m.gateway.Load()
	m.store.restore(state.Books, state.Members)
	m.ledger.restore(state.Loans)
	return err
}

// Save writes the full current state to the data file.
func (m *Manager) Save() error {
	return m.gateway.Save(State{
		Books:   m.store.books,
		Members: m.store.members,
		Loans:   m.ledger.loans,
	})
}

// ------------------ Entities ------------------

func (m *Manager) AddBook(title, author, category, isbn string) string {
	return m.store.AddBook(title, author, category, isbn)
}

func (m *Manager) AddMember(name, email, phone string) string {
	return m.store.AddMember(name, email, phone)
}

func (m *Manager) DeleteBook(bookID string) (string, error) {
	return m.store.DeleteBook(bookID, m.ledger)
}

// DeleteMember removes a member and prunes any leftover empty ledger entry
// for the id.
func (m *Manager) DeleteMember(memberID string) (string, error) {
	msg, err := m.store.DeleteMember(memberID, m.ledger)
	if err != nil {
		return "", err
	}
	m.ledger.Prune(memberID)
	return msg, nil
}

func (m *Manager) Book(id string) (*Book, bool)     { return m.store.Book(id) }
func (m *Manager) Member(id string) (*Member, bool) { return m.store.Member(id) }
func (m *Manager) Books() []*Book                   { return m.store.Books() }
func (m *Manager) Members() []*Member               { return m.store.Members() }

// ------------------ Circulation ------------------

func (m *Manager) Issue(bookID, memberID string) (string, error) {
	return m.ledger.Issue(bookID, memberID)
}

func (m *Manager) Return(bookID, memberID string) (string, error) {
	return m.ledger.Return(bookID, memberID)
}

func (m *Manager) Loans(memberID string) []Issuance { return m.ledger.Loans(memberID) }
func (m *Manager) AllLoans() []Loan                 { return m.ledger.AllLoans() }

// ------------------ Reports ------------------

func (m *Manager) OverdueLoans() []OverdueLoan { return m.fees.OverdueLoans() }
func (m *Manager) TotalLateFees() float64      { return m.fees.TotalLateFees() }

// ------------------ Search ------------------

func (m *Manager) Search(query string) []string { return m.catalog.Search(query) }
