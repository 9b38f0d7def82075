package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/relations"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// ReconcileCommand repairs favourite and read relations so the per-book
// arrays and the relation collections agree.
type ReconcileCommand struct {
	DataDir string
	DryRun  bool
	JSON    bool

	out io.Writer
}

func NewReconcileCommand() *ReconcileCommand {
	return &ReconcileCommand{out: os.Stdout}
}

func (cmd *ReconcileCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)

	fs.StringVar(&cmd.DataDir, "dir", dataDirDefault(), "Directory holding the collection files")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Report what would change without writing")
	fs.BoolVar(&cmd.JSON, "json", false, "Print the report as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s reconcile [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Make favourites and read marks consistent between books and relation files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s reconcile -dry-run\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s reconcile -dir /var/lib/bookshelf -json\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ReconcileCommand) Run() error {
	store, err := database.NewFileStore(cmd.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data directory: %w", err)
	}

	db := database.New(store)
	if !cmd.DryRun {
		if err := db.Init(entities.AllCollections...); err != nil {
			return fmt.Errorf("failed to initialize collections: %w", err)
		}
	}

	report, err := relations.NewManager(db).Reconcile(cmd.DryRun)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if cmd.JSON {
		enc := json.NewEncoder(cmd.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	cmd.printReport(report)
	return nil
}

func (cmd *ReconcileCommand) printReport(report relations.Report) {
	if report.DryRun {
		fmt.Fprintln(cmd.out, "Dry run: relations were not modified.")
	}
	printKind(cmd.out, "Favorites", report.Favorites)
	printKind(cmd.out, "Reads", report.Reads)
	if !report.Changed() {
		fmt.Fprintln(cmd.out, "Relations are consistent.")
	}
}

func printKind(w io.Writer, label string, r relations.KindReport) {
	fmt.Fprintf(w, "%s:\n", label)
	fmt.Fprintf(w, "  pairs:              %d\n", r.Pairs)
	fmt.Fprintf(w, "  added to books:     %d\n", r.AddedToBooks)
	fmt.Fprintf(w, "  added to relations: %d\n", r.AddedToRelations)
	fmt.Fprintf(w, "  dropped dangling:   %d\n", r.DroppedDangling)
	fmt.Fprintf(w, "  dropped duplicates: %d\n", r.DroppedDuplicates)
}
