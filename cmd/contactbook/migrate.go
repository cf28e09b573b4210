package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lrtraviteja/contact-book-app/pkg/config"
	"github.com/lrtraviteja/contact-book-app/pkg/storage"
	"github.com/lrtraviteja/contact-book-app/pkg/storage/repository"
)

// migrateBatch is how many contacts are read from the source per List call.
const migrateBatch = 100

var (
	exportOutput string

	fromType string
	fromPath string
	fromURL  string
	toType   string
	toPath   string
	toURL    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every contact in the configured store to a JSON file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy contacts from one storage backend to another",
	Long: `Copies every contact from the source store into the destination store.
The source defaults to the configured storage. Destination ids are assigned by
the destination; contacts whose email or phone already exist there are skipped.`,
	Example: `  contactbook migrate --to-type postgres --to-url postgres://app@localhost/contacts
  contactbook migrate --from-type file --from-path contacts.json --to-type sqlite --to-path contacts.db`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "contacts-export.json", "output file")

	migrateCmd.Flags().StringVar(&fromType, "from-type", "", "source storage type (default: configured)")
	migrateCmd.Flags().StringVar(&fromPath, "from-path", "", "source file path for sqlite or file storage")
	migrateCmd.Flags().StringVar(&fromURL, "from-url", "", "source database URL for postgres")
	migrateCmd.Flags().StringVar(&toType, "to-type", "", "destination storage type: sqlite, postgres, file")
	migrateCmd.Flags().StringVar(&toPath, "to-path", "", "destination file path for sqlite or file storage")
	migrateCmd.Flags().StringVar(&toURL, "to-url", "", "destination database URL for postgres")
	migrateCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	_ = migrateCmd.MarkFlagRequired("to-type")
}

// exportFile is the on-disk export format.
type exportFile struct {
	ExportedAt time.Time            `json:"exported_at"`
	Total      int                  `json:"total"`
	Contacts   []repository.Contact `json:"contacts"`
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := exportContacts(ctx, store.Contacts(), exportOutput)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contacts to %s\n", n, exportOutput)
	return nil
}

func exportContacts(ctx context.Context, repo repository.ContactsRepository, filename string) (int, error) {
	all, err := listAll(ctx, repo)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, err
		}
	}
	err = writeJSON(filename, exportFile{
		ExportedAt: time.Now().UTC(),
		Total:      len(all),
		Contacts:   all,
	})
	return len(all), err
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sourceCfg, err := cfg.ToStorageConfig()
	if err != nil {
		return err
	}
	if fromType != "" {
		sourceCfg = storage.DefaultConfig(fromType)
	}
	if fromPath != "" {
		sourceCfg.FilePath = fromPath
	}
	if fromURL != "" {
		sourceCfg.DatabaseURL = fromURL
	}

	destCfg := storage.DefaultConfig(toType)
	destCfg.FilePath = toPath
	destCfg.DatabaseURL = toURL

	fmt.Fprintf(out, "Source:      %s\n", describe(sourceCfg))
	fmt.Fprintf(out, "Destination: %s\n", describe(destCfg))

	if !assumeYes {
		ok, err := confirm("Copy all contacts?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Migration cancelled")
			return nil
		}
	}

	source, err := connectStorage(ctx, sourceCfg)
	if err != nil {
		return fmt.Errorf("connect source: %w", err)
	}
	defer source.Close()

	dest, err := connectStorage(ctx, destCfg)
	if err != nil {
		return fmt.Errorf("connect destination: %w", err)
	}
	defer dest.Close()

	copied, skipped, err := migrateContacts(ctx, source.Contacts(), dest.Contacts(), out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d contacts (%d skipped as duplicates)\n", copied, skipped)
	return nil
}

// migrateContacts copies every source contact in ascending id order. Contacts
// the destination rejects as duplicates are counted and skipped.
func migrateContacts(ctx context.Context, source, dest repository.ContactsRepository, out io.Writer) (copied, skipped int, err error) {
	total, err := source.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	fmt.Fprintf(out, "Found %d contacts\n", total)

	for offset := 0; ; offset += migrateBatch {
		batch, err := source.List(ctx, offset, migrateBatch)
		if err != nil {
			return copied, skipped, fmt.Errorf("failed to list contacts: %w", err)
		}
		for _, c := range batch {
			if _, err := dest.Insert(ctx, c.Name, c.Email, c.Phone); err != nil {
				if errors.Is(err, repository.ErrConstraint) {
					skipped++
					fmt.Fprintf(out, "  skip %d %s (already exists)\n", c.ID, c.Email)
					continue
				}
				return copied, skipped, fmt.Errorf("failed to save contact %d: %w", c.ID, err)
			}
			copied++
		}
		if len(batch) < migrateBatch {
			return copied, skipped, nil
		}
	}
}

func listAll(ctx context.Context, repo repository.ContactsRepository) ([]repository.Contact, error) {
	all := []repository.Contact{}
	for offset := 0; ; offset += migrateBatch {
		batch, err := repo.List(ctx, offset, migrateBatch)
		if err != nil {
			return nil, fmt.Errorf("failed to list contacts: %w", err)
		}
		all = append(all, batch...)
		if len(batch) < migrateBatch {
			return all, nil
		}
	}
}

func describe(sc storage.Config) string {
	if sc.DatabaseURL != "" {
		return fmt.Sprintf("%s (%s)", sc.Type, config.MaskDatabaseURL(sc.DatabaseURL))
	}
	return fmt.Sprintf("%s (%s)", sc.Type, sc.FilePath)
}

func writeJSON(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
