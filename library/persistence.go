package library

import (
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Timestamp formats fixed by the data file layout.
const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// State is the complete library state the gateway moves to and from disk.
type State struct {
	Books   map[string]*Book
	Members map[string]*Member
	Loans   map[string][]Issuance
}

// EmptyState returns a state with all collections allocated and empty.
func EmptyState() State {
	return State{
		Books:   make(map[string]*Book),
		Members: make(map[string]*Member),
		Loans:   make(map[string][]Issuance),
	}
}

// Gateway loads and saves the entire library state as one JSON document. It
// knows nothing about business rules; the target path is injected so tests
// can point it at temporary storage.
type Gateway struct {
	path string
	log  *zap.Logger
}

// NewGateway returns a gateway persisting to path.
func NewGateway(path string, log *zap.Logger) *Gateway {
	return &Gateway{path: path, log: log.Named("gateway")}
}

// Path returns the backing file path.
func (g *Gateway) Path() string { return g.path }

// On-disk document shape. Timestamps travel as fixed-format strings and
// issued_to as an explicit null while a book is on the shelf.
type bookRecord struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Category string  `json:"category"`
	ISBN     string  `json:"isbn"`
	Status   string  `json:"status"`
	IssuedTo *string `json:"issued_to"`
}

type memberRecord struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	JoinDate string `json:"join_date"`
}

type issuanceRecord struct {
	BookID    string `json:"book_id"`
	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date"`
}

type libraryFile struct {
	Books   map[string]bookRecord       `json:"books"`
	Members map[string]memberRecord     `json:"members"`
	Issued  map[string][]issuanceRecord `json:"issued_books"`
}

// Load reads the backing file. A missing file is a normal first run and
// yields an empty state with no error. Any read, parse, or timestamp error
// yields an empty state plus the error; there is no partial recovery.
func (g *Gateway) Load() (State, error) {
	raw, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			g.log.Info("no data file, starting empty", zap.String("path", g.path))
			return EmptyState(), nil
		}
		return EmptyState(), errors.Wrapf(err, "read %s", g.path)
	}

	var doc libraryFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return EmptyState(), errors.Wrapf(err, "parse %s", g.path)
	}

	state := EmptyState()
	for id, rec := range doc.Books {
		switch BookStatus(rec.Status) {
		case StatusAvailable, StatusIssued:
		default:
			return EmptyState(), errors.Errorf("book %s: unknown status %q", id, rec.Status)
		}
		book := &Book{
			ID:       id,
			Title:    rec.Title,
			Author:   rec.Author,
			Category: rec.Category,
			ISBN:     rec.ISBN,
			Status:   BookStatus(rec.Status),
		}
		if rec.IssuedTo != nil {
			book.IssuedTo = *rec.IssuedTo
		}
		state.Books[id] = book
	}
	for id, rec := range doc.Members {
		joined, err := time.ParseInLocation(dateLayout, rec.JoinDate, time.Local)
		if err != nil {
			return EmptyState(), errors.Wrapf(err, "member %s: bad join_date", id)
		}
		state.Members[id] = &Member{
			ID:       id,
			Name:     rec.Name,
			Email:    rec.Email,
			Phone:    rec.Phone,
			JoinDate: joined,
		}
	}
	for memberID, records := range doc.Issued {
		entry := make([]Issuance, 0, len(records))
		for _, rec := range records {
			issued, err := time.ParseInLocation(timestampLayout, rec.IssueDate, time.Local)
			if err != nil {
				return EmptyState(), errors.Wrapf(err, "member %s, book %s: bad issue_date", memberID, rec.BookID)
			}
			due, err := time.ParseInLocation(timestampLayout, rec.DueDate, time.Local)
			if err != nil {
				return EmptyState(), errors.Wrapf(err, "member %s, book %s: bad due_date", memberID, rec.BookID)
			}
			entry = append(entry, Issuance{BookID: rec.BookID, IssueDate: issued, DueDate: due})
		}
		state.Loans[memberID] = entry
	}

	g.log.Info("data loaded",
		zap.String("path", g.path),
		zap.Int("books", len(state.Books)),
		zap.Int("members", len(state.Members)))
	return state, nil
}

// Save serializes the whole state and atomically replaces the backing file.
// The document lands in a temp file in the same directory first and is
// renamed over the target, so a failed write never leaves a truncated file.
func (g *Gateway) Save(state State) error {
	doc := libraryFile{
		Books:   make(map[string]bookRecord, len(state.Books)),
		Members: make(map[string]memberRecord, len(state.Members)),
		Issued:  make(map[string][]issuanceRecord, len(state.Loans)),
	}
	for id, book := range state.Books {
		rec := bookRecord{
			Title:    book.Title,
			Author:   book.Author,
			Category: book.Category,
			ISBN:     book.ISBN,
			Status:   string(book.Status),
		}
		if book.IssuedTo != "" {
			holder := book.IssuedTo
			rec.IssuedTo = &holder
		}
		doc.Books[id] = rec
	}
	for id, member := range state.Members {
		doc.Members[id] = memberRecord{
			Name:     member.Name,
			Email:    member.Email,
			Phone:    member.Phone,
			JoinDate: member.JoinDate.Format(dateLayout),
		}
	}
	for memberID, entry := range state.Loans {
		records := make([]issuanceRecord, 0, len(entry))
		for _, issued := range entry {
			records = append(records, issuanceRecord{
				BookID:    issued.BookID,
				IssueDate: issued.IssueDate.Format(timestampLayout),
				DueDate:   issued.DueDate.Format(timestampLayout),
			})
		}
		doc.Issued[memberID] = records
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize library data")
	}

	dir := filepath.Dir(g.path)
	tmp, err := os.CreateTemp(dir, ".library-*.json")
	if err != nil {
		return errors.Wrapf(err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, g.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "replace %s", g.path)
	}

	g.log.Info("data saved",
		zap.String("path", g.path),
		zap.Int("books", len(state.Books)),
		zap.Int("members", len(state.Members)))
	return nil
}
