package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// InitDataCommand creates the data directory and an empty file for every
// collection that does not exist yet. Existing data is left untouched.
type InitDataCommand struct {
	DataDir string

	out io.Writer
}

func NewInitDataCommand() *InitDataCommand {
	return &InitDataCommand{out: os.Stdout}
}

func (cmd *InitDataCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("init-data", flag.ContinueOnError)

	fs.StringVar(&cmd.DataDir, "dir", dataDirDefault(), "Directory holding the collection files")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s init-data [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the data directory and empty collections.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s init-data\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s init-data -dir /var/lib/bookshelf\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.DataDir == "" {
		fs.Usage()
		return fmt.Errorf("data directory is required")
	}

	return nil
}

func (cmd *InitDataCommand) Run() error {
	store, err := database.NewFileStore(cmd.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data directory: %w", err)
	}

	existing := make(map[string]bool, len(entities.AllCollections))
	for _, c := range entities.AllCollections {
		ok, err := store.Exists(c)
		if err != nil {
			return fmt.Errorf("failed to inspect data directory: %w", err)
		}
		existing[c] = ok
	}

	if err := database.New(store).Init(entities.AllCollections...); err != nil {
		return fmt.Errorf("failed to initialize collections: %w", err)
	}

	fmt.Fprintf(cmd.out, "Data directory: %s\n", store.Dir())
	for _, c := range entities.AllCollections {
		status := "created"
		if existing[c] {
			status = "exists"
		}
		fmt.Fprintf(cmd.out, "  %-10s %s\n", c, status)
	}
	return nil
}

// dataDirDefault reads the data directory the server would use.
func dataDirDefault() string {
	return config.NewConfig().Storage.DataDir
}
