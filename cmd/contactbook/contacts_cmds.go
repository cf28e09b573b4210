package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lrtraviteja/contact-book-app/pkg/client"
	"github.com/lrtraviteja/contact-book-app/pkg/config"
	"github.com/lrtraviteja/contact-book-app/pkg/contacts"
	"github.com/lrtraviteja/contact-book-app/pkg/logger"
	"github.com/lrtraviteja/contact-book-app/pkg/tui"
)

var (
	listPage  int
	listLimit int

	addName  string
	addEmail string
	addPhone string

	assumeYes bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of contacts",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a contact",
	Example: `  contactbook add --name "Ada Lovelace" --email ada@example.com --phone 555-0100`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var deleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete every contact",
	Args:  cobra.NoArgs,
	RunE:  runDeleteAll,
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse and edit contacts in a terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", contacts.DefaultPage, "page number")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "contacts per page (default from config)")

	addCmd.Flags().StringVar(&addName, "name", "", "contact name")
	addCmd.Flags().StringVar(&addEmail, "email", "", "contact email")
	addCmd.Flags().StringVar(&addPhone, "phone", "", "contact phone")

	deleteAllCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
}

func pageLimit(flag int) int {
	if flag > 0 {
		return flag
	}
	return cfg.Client.PageSize
}

func runList(cmd *cobra.Command, args []string) error {
	page, err := newClient().FetchContacts(cmd.Context(), listPage, pageLimit(listLimit))
	if err != nil {
		return err
	}
	printPage(cmd.OutOrStdout(), page)
	return nil
}

func printPage(out io.Writer, page *contacts.Page) {
	if len(page.Contacts) == 0 {
		fmt.Fprintln(out, "No contacts found.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE")
		for _, c := range page.Contacts {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
		}
		tw.Flush()
	}
	p := page.Pagination
	fmt.Fprintf(out, "\nPage %d of %d (%d contacts)\n", p.CurrentPage, p.TotalPages, p.TotalContacts)
}

func runAdd(cmd *cobra.Command, args []string) error {
	c, err := newClient().CreateContact(cmd.Context(), contacts.Input{
		Name:  addName,
		Email: addEmail,
		Phone: addPhone,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created contact %d: %s <%s> %s\n", c.ID, c.Name, c.Email, c.Phone)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid contact id: %s", args[0])
	}
	if err := newClient().DeleteContact(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted contact %d\n", id)
	return nil
}

func runDeleteAll(cmd *cobra.Command, args []string) error {
	if !assumeYes {
		ok, err := confirm("Delete ALL contacts?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}
	if err := newClient().DeleteAllContacts(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All contacts deleted")
	return nil
}

func runUI(cmd *cobra.Command, args []string) error {
	// Keep log lines off the terminal while the UI owns it.
	logPath := filepath.Join(config.DefaultDataDir(), "ui.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer logFile.Close()
	if err := logger.Init(logger.Options{Level: cfg.Logging.Level, JSON: true, Output: logFile}); err != nil {
		return err
	}

	state := client.NewState(newClient())
	model := tui.NewModel(cmd.Context(), state, cfg.Client.PageSize)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
