package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Faqahat/cloudup/internal/clip"
	"github.com/Faqahat/cloudup/internal/store"
	"github.com/Faqahat/cloudup/internal/transform"
	"github.com/Faqahat/cloudup/internal/tui"
	"github.com/Faqahat/cloudup/internal/view"
	"github.com/Faqahat/cloudup/pkg/table"
	"github.com/Faqahat/cloudup/pkg/util"
)

// HistoryService is the subset of the store the history commands use.
type HistoryService interface {
	List() ([]store.UploadRecord, error)
	DeleteByID(id string) ([]store.UploadRecord, error)
	Clear() error
}

// HistoryCmd handles upload-history operations.
type HistoryCmd struct {
	history   HistoryService
	transform transform.Config

	// confirmFn asks whether to load another page. Nil means a pterm
	// interactive confirm.
	confirmFn func(remaining int) bool
}

// HistoryListInput holds input for listing history.
type HistoryListInput struct {
	All         bool
	Output      string
	Interactive bool
}

// List renders the history, newest first, ten records at a time.
func (h HistoryCmd) List(in HistoryListInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	records, err := h.history.List()
	if err != nil {
		return err
	}

	if in.Output == "json" {
		return util.PrintPrettyJSON(records)
	}

	if len(records) == 0 {
		pterm.Info.Println("No uploads yet")
		return nil
	}

	state := view.NewState()
	if in.All {
		state.DisplayCount = len(records)
	}

	confirm := h.confirmFn
	if confirm == nil {
		confirm = func(remaining int) bool {
			more, _ := pterm.DefaultInteractiveConfirm.
				WithDefaultValue(true).
				Show(fmt.Sprintf("Load more (%d remaining)?", remaining))
			return more
		}
	}

	// Each iteration prints only the rows the last LoadMore revealed, so
	// nothing repeats in the scrollback.
	shown := 0
	for {
		visible, remaining := state.Page(records)

		var rows pterm.TableData
		if shown == 0 {
			rows = append(rows, []string{"URL", "Uploaded", "ID"})
		}
		for _, record := range visible[shown:] {
			rows = append(rows, []string{
				util.TruncateURL(record.URL),
				util.RelativeTime(record.Time()),
				record.ID,
			})
		}
		table.PrintTableNoPad(rows, shown == 0)
		shown = len(visible)

		if remaining == 0 {
			return nil
		}
		if !in.Interactive {
			pterm.Info.Printf("%d remaining (rerun with --all to see everything)\n", remaining)
			return nil
		}
		if !confirm(remaining) {
			return nil
		}
		state = state.LoadMore()
	}
}

// HistoryDeleteInput holds input for deleting a record.
type HistoryDeleteInput struct {
	ID string
}

// Delete removes one record. An unknown id is reported but not an error,
// matching the store's no-op semantics.
func (h HistoryCmd) Delete(in HistoryDeleteInput) error {
	before, err := h.history.List()
	if err != nil {
		return err
	}

	remaining, err := h.history.DeleteByID(in.ID)
	if err != nil {
		return err
	}

	if len(remaining) == len(before) {
		pterm.Info.Printf("No record with id %s\n", in.ID)
		return nil
	}
	pterm.Success.Printf("Deleted %s (%d records left)\n", in.ID, len(remaining))
	return nil
}

// Clear empties the history.
func (h HistoryCmd) Clear() error {
	if err := h.history.Clear(); err != nil {
		return err
	}
	pterm.Success.Println("Upload history cleared")
	return nil
}

type exportUpload struct {
	URL            string `json:"url"`
	TransformedURL string `json:"transformedUrl"`
	Timestamp      int64  `json:"timestamp"`
	Date           string `json:"date"`
}

type exportDocument struct {
	Exported string         `json:"exported"`
	Count    int            `json:"count"`
	Uploads  []exportUpload `json:"uploads"`
}

// ExportDocument builds the export payload over the full, unpaginated
// history.
func (h HistoryCmd) ExportDocument() (exportDocument, error) {
	records, err := h.history.List()
	if err != nil {
		return exportDocument{}, err
	}

	uploads := lo.Map(records, func(record store.UploadRecord, _ int) exportUpload {
		return exportUpload{
			URL:            record.URL,
			TransformedURL: transform.Apply(record.URL, h.transform),
			Timestamp:      record.Timestamp,
			Date:           record.Time().UTC().Format(time.RFC3339),
		}
	})

	return exportDocument{
		Exported: time.Now().UTC().Format(time.RFC3339),
		Count:    len(uploads),
		Uploads:  uploads,
	}, nil
}

// HistoryExportInput holds input for exporting history.
type HistoryExportInput struct {
	Path string // "-" writes to stdout
}

// Export writes the history as a JSON document.
func (h HistoryCmd) Export(in HistoryExportInput) error {
	doc, err := h.ExportDocument()
	if err != nil {
		return err
	}
	if doc.Count == 0 {
		pterm.Info.Println("No history to export")
		return nil
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if in.Path == "-" {
		fmt.Println(string(data))
		return nil
	}

	path := in.Path
	if path == "" {
		path = fmt.Sprintf("cloudup-uploads-%s.json", time.Now().Format("2006-01-02"))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	pterm.Success.Printf("Exported %d uploads to %s\n", doc.Count, path)
	return nil
}

// --- Cobra wiring ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage your upload history",
	Long:  "Commands for listing, browsing, pruning and exporting the local upload history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded images",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse history interactively",
	Long:  "Open an interactive browser over the upload history. Enter copies the (transformed) URL, d deletes the selected record.",
	Args:  cobra.NoArgs,
	RunE:  runHistoryBrowse,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one history record",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export history as JSON",
	Long:  "Export the full upload history, with transformed URLs, as a JSON document. Pass '-' to write to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryExport,
}

var historyOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open an uploaded image in the browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryOpen,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyBrowseCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyOpenCmd)
	rootCmd.AddCommand(historyCmd)

	historyListCmd.Flags().Bool("all", false, "Show every record, not just the first pages")
	historyListCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func historyCmdFromStore(db *store.DB) (HistoryCmd, error) {
	settings, err := db.LoadSettings()
	if err != nil {
		return HistoryCmd{}, err
	}
	return HistoryCmd{history: db, transform: settings.Transformations}, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	output, _ := cmd.Flags().GetString("output")

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	h, err := historyCmdFromStore(db)
	if err != nil {
		return err
	}
	return h.List(HistoryListInput{
		All:         all,
		Output:      output,
		Interactive: term.IsTerminal(int(os.Stdout.Fd())),
	})
}

func runHistoryBrowse(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings, err := db.LoadSettings()
	if err != nil {
		return err
	}

	model, err := tui.NewHistory(db, settings.Transformations, clip.Copy)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.HistoryModel); ok {
		return m.Err()
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	h, err := historyCmdFromStore(db)
	if err != nil {
		return err
	}
	return h.Delete(HistoryDeleteInput{ID: args[0]})
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	confirmed, _ := pterm.DefaultInteractiveConfirm.Show("Clear all upload history?")
	if !confirmed {
		pterm.Info.Println("Aborted")
		return nil
	}

	h, err := historyCmdFromStore(db)
	if err != nil {
		return err
	}
	return h.Clear()
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	h, err := historyCmdFromStore(db)
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	return h.Export(HistoryExportInput{Path: path})
}

func runHistoryOpen(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.List()
	if err != nil {
		return err
	}

	record, ok := lo.Find(records, func(r store.UploadRecord) bool {
		return r.ID == args[0]
	})
	if !ok {
		return fmt.Errorf("no record with id %s", args[0])
	}
	return browser.OpenURL(record.URL)
}
