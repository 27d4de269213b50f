package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"library-ledger/config"
	"library-ledger/library"
	"library-ledger/logger"
)

// app carries the wired core plus the flags shared by every command.
type app struct {
	manager *library.Manager
	log     *zap.Logger

	dataFile string // --data override, empty means use config/env
	yes      bool   // --yes skips destructive-action confirmation
}

func main() {
	a := &app{}
	root := newRootCmd(a)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "library-ledger",
		Short:         "Track a library's catalog, members, and loans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.dataFile, "data", "", "path of the library data file (overrides LIBRARY_DATA_FILE)")
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "answer yes to confirmation prompts")

	root.AddCommand(
		newAddBookCmd(a),
		newDeleteBookCmd(a),
		newListBooksCmd(a),
		newSearchCmd(a),
		newAddMemberCmd(a),
		newDeleteMemberCmd(a),
		newListMembersCmd(a),
		newIssueCmd(a),
		newReturnCmd(a),
		newLoansCmd(a),
		newOverdueCmd(a),
		newFeesCmd(a),
		newCategoriesCmd(a),
		newRulesCmd(a),
	)
	return root
}

// setup loads the environment, builds the logger, and loads library state.
// An unreadable or malformed data file is reported but not fatal: the
// library starts empty, exactly as if the file were absent.
func (a *app) setup() error {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if a.dataFile == "" {
		a.dataFile = cfg.DataFile
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.log = log

	a.manager = library.NewManager(a.dataFile, log)
	if err := a.manager.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s (%v); starting with an empty library\n", a.dataFile, err)
	}
	return nil
}

// save persists after a successful mutation. A failed save must reach the
// user, otherwise they would believe their change is on disk.
func (a *app) save() error {
	if err := a.manager.Save(); err != nil {
		return fmt.Errorf("save library data: %w", err)
	}
	return nil
}

// confirm asks before a destructive action unless --yes was given.
func (a *app) confirm(prompt string) bool {
	if a.yes {
		return true
	}
	fmt.Printf("%s This action cannot be undone! [y/N]: ", prompt)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}

// ------------------ Books ------------------

func newAddBookCmd(a *app) *cobra.Command {
	var title, author, category, isbn string
	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Add a book to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			id := a.manager.AddBook(title, author, category, isbn)
			if err := a.save(); err != nil {
				return err
			}
			fmt.Printf("Book added with ID: %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "book author")
	cmd.Flags().StringVar(&category, "category", "", "shelving category")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("isbn")
	return cmd
}

func newDeleteBookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-book <book-id>",
		Short: "Delete a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.confirm("Are you sure you want to delete this book?") {
				fmt.Println("Cancelled.")
				return nil
			}
			msg, err := a.manager.DeleteBook(args[0])
			if err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func newListBooksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-books",
		Short: "List the whole catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			books := a.manager.Books()
			if len(books) == 0 {
				fmt.Println("No books in the catalog.")
				return nil
			}
			fmt.Printf("%-6s %-35s %-25s %-12s %-10s %s\n", "ID", "Title", "Author", "Category", "Status", "Issued To")
			for _, b := range books {
				fmt.Printf("%-6s %-35s %-25s %-12s %-10s %s\n", b.ID, b.Title, b.Author, b.Category, b.Status, b.IssuedTo)
			}
			fmt.Printf("Total books: %d\n", len(books))
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by title, author, or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := a.manager.Search(args[0])
			if len(ids) == 0 {
				fmt.Printf("No books found matching '%s'\n", args[0])
				return nil
			}
			fmt.Printf("Found %d books matching '%s':\n", len(ids), args[0])
			for _, id := range ids {
				if b, ok := a.manager.Book(id); ok {
					fmt.Printf("  %s: %s by %s (%s)\n", b.ID, b.Title, b.Author, b.Status)
				}
			}
			return nil
		},
	}
}

// ------------------ Members ------------------

func newAddMemberCmd(a *app) *cobra.Command {
	var name, email, phone string
	cmd := &cobra.Command{
		Use:   "add-member",
		Short: "Register a library member",
		RunE: func(cmd *cobra.Command, args []string) error {
			id := a.manager.AddMember(name, email, phone)
			if err := a.save(); err != nil {
				return err
			}
			fmt.Printf("Member added with ID: %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "member name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func newDeleteMemberCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-member <member-id>",
		Short: "Delete a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.confirm("Are you sure you want to delete this member?") {
				fmt.Println("Cancelled.")
				return nil
			}
			msg, err := a.manager.DeleteMember(args[0])
			if err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func newListMembersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-members",
		Short: "List all members",
		RunE: func(cmd *cobra.Command, args []string) error {
			members := a.manager.Members()
			if len(members) == 0 {
				fmt.Println("No registered members.")
				return nil
			}
			fmt.Printf("%-6s %-25s %-30s %-15s %s\n", "ID", "Name", "Email", "Phone", "Joined")
			for _, m := range members {
				fmt.Printf("%-6s %-25s %-30s %-15s %s\n", m.ID, m.Name, m.Email, m.Phone, m.JoinDate.Format("2006-01-02"))
			}
			fmt.Printf("Total members: %d\n", len(members))
			return nil
		},
	}
}

// ------------------ Circulation ------------------

func newIssueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "issue <book-id> <member-id>",
		Short: "Issue a book to a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.manager.Issue(args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func newReturnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "return <book-id> <member-id>",
		Short: "Return a book and settle any late fee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.manager.Return(args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.save(); err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func newLoansCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "List every active loan",
		RunE: func(cmd *cobra.Command, args []string) error {
			loans := a.manager.AllLoans()
			if len(loans) == 0 {
				fmt.Println("No books are currently issued.")
				return nil
			}
			fmt.Printf("%-10s %-35s %-12s %-12s %s\n", "Member", "Book", "Issued", "Due", "Status")
			for _, loan := range loans {
				title := loan.BookID
				if b, ok := a.manager.Book(loan.BookID); ok {
					title = b.Title
				}
				member := loan.MemberID
				if m, ok := a.manager.Member(loan.MemberID); ok {
					member = m.Name
				}
				status := "On Time"
				if int(time.Since(loan.IssueDate)/(24*time.Hour)) > library.LoanPeriodDays {
					status = "Overdue"
				}
				fmt.Printf("%-10s %-35s %-12s %-12s %s\n",
					member, title,
					loan.IssueDate.Format("2006-01-02"),
					loan.DueDate.Format("2006-01-02"),
					status)
			}
			return nil
		},
	}
}

// ------------------ Reports ------------------

func newOverdueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List overdue loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			overdue := a.manager.OverdueLoans()
			if len(overdue) == 0 {
				fmt.Println("No overdue books found.")
				return nil
			}
			fmt.Printf("Found %d overdue books:\n", len(overdue))
			for _, loan := range overdue {
				title := loan.BookID
				if b, ok := a.manager.Book(loan.BookID); ok {
					title = b.Title
				}
				member := loan.MemberID
				if m, ok := a.manager.Member(loan.MemberID); ok {
					member = m.Name
				}
				fmt.Printf("  %s - %s (%d days overdue)\n", title, member, loan.DaysOverdue)
			}
			return nil
		},
	}
}

func newFeesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fees",
		Short: "Show the total outstanding late fees",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Total late fees: $%.2f\n", a.manager.TotalLateFees())
			return nil
		},
	}
}

// ------------------ Info ------------------

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the shelving categories",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available Categories:")
			for _, c := range library.Categories {
				fmt.Printf("  - %s\n", c)
			}
		},
	}
}

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the library rules",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Library Rules:")
			for _, r := range library.Rules {
				fmt.Printf("  - %s\n", r)
			}
		},
	}
}
