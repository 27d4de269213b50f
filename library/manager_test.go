package library

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks the whole lifecycle the way the CLI drives it: catalog and member
// management, circulation against the loan limit, search, and the deletion
// guards.
func TestLibraryLifecycle(t *testing.T) {
	m := newTestManager(t)

	dune := m.AddBook("Dune", "Herrick", "Fiction", "978-0441172719")
	ada := m.AddMember("Ada", "ada@example.com", "555-0001")

	msg, err := m.Issue(dune, ada)
	require.NoError(t, err)
	assert.Equal(t, "Book 'Dune' issued to Ada", msg)

	// Two more fill Ada's limit; the fourth is rejected.
	for i := 0; i < 2; i++ {
		id := m.AddBook(fmt.Sprintf("Filler %d", i), "Author", "Fiction", "x")
		_, err := m.Issue(id, ada)
		require.NoError(t, err)
	}
	fourth := m.AddBook("One Too Many", "Author", "Fiction", "x")
	_, err = m.Issue(fourth, ada)
	assert.ErrorIs(t, err, ErrLimitReached)

	// Case-insensitive search finds the issued book.
	assert.Equal(t, []string{dune}, m.Search("dune"))

	// Deletion is blocked until the book comes back.
	_, err = m.DeleteBook(dune)
	assert.ErrorIs(t, err, ErrBookIssued)

	_, err = m.Return(dune, ada)
	require.NoError(t, err)
	_, err = m.DeleteBook(dune)
	require.NoError(t, err)

	for _, b := range m.Books() {
		assert.NotEqual(t, dune, b.ID)
	}
	assert.Empty(t, m.Search("dune"))
}

func TestManagerSaveAfterEachMutation(t *testing.T) {
	m := newTestManager(t)

	// Mutations alone never touch the disk.
	m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	_, err := m.gateway.Load()
	require.NoError(t, err)

	fresh := NewManager(m.gateway.Path(), m.log)
	require.NoError(t, fresh.Load())
	assert.Empty(t, fresh.Books())

	// After an explicit save the state is visible to a new process.
	require.NoError(t, m.Save())
	require.NoError(t, fresh.Load())
	assert.Len(t, fresh.Books(), 1)
}

func TestManagerLoadErrorLeavesEmptyLibrary(t *testing.T) {
	m := newTestManager(t)
	m.AddBook("Dune", "Frank Herbert", "Fiction", "x")
	require.NoError(t, m.Save())

	// Corrupt the file; a reload must fail and reset to empty rather than
	// keep half-applied state.
	require.NoError(t, os.WriteFile(m.gateway.Path(), []byte("{broken"), 0o644))

	err := m.Load()
	assert.Error(t, err)
	assert.Empty(t, m.Books())
	assert.Empty(t, m.Members())
	assert.Empty(t, m.AllLoans())
}
