package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/boyter/gocodewalker"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Faqahat/cloudup/internal/clip"
	"github.com/Faqahat/cloudup/internal/cloudinary"
	"github.com/Faqahat/cloudup/internal/notify"
	"github.com/Faqahat/cloudup/internal/store"
	"github.com/Faqahat/cloudup/internal/transform"
	"github.com/Faqahat/cloudup/pkg/util"
)

// Uploader is the subset of the Cloudinary client the upload command uses.
type Uploader interface {
	Upload(ctx context.Context, params cloudinary.UploadParams) (*cloudinary.UploadResult, error)
}

// HistoryAppender saves completed uploads.
type HistoryAppender interface {
	Append(url string) (store.UploadRecord, error)
}

// UploadCmd runs the upload pipeline.
type UploadCmd struct {
	uploader Uploader
	history  HistoryAppender
	settings store.Settings
	copyFn   func(string) error
	notifyFn func(title, message string)
	openFn   func(url string) error
}

// UploadInput holds input for uploading.
type UploadInput struct {
	Sources []string
	Folder  string
	NoCopy  bool
	Open    bool
	Output  string
}

type uploadOutcome struct {
	Source         string `json:"source"`
	URL            string `json:"url,omitempty"`
	TransformedURL string `json:"transformedUrl,omitempty"`
	Bytes          int64  `json:"bytes,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Run uploads each source in turn. A failure aborts the remaining pipeline
// steps for that source only; the batch moves on and the command reports
// one error at the end if anything failed.
func (u UploadCmd) Run(ctx context.Context, in UploadInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	if len(in.Sources) == 0 {
		return fmt.Errorf("nothing to upload")
	}

	folder := u.settings.Folder
	if in.Folder != "" {
		folder = in.Folder
	}

	jsonOutput := in.Output == "json"
	var outcomes []uploadOutcome
	failures := 0

	for _, source := range in.Sources {
		outcome := u.uploadOne(ctx, source, folder, in, jsonOutput)
		if outcome.Error != "" {
			failures++
		}
		outcomes = append(outcomes, outcome)
	}

	if jsonOutput {
		if err := util.PrintPrettyJSON(outcomes); err != nil {
			return err
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d uploads failed", failures, len(outcomes))
	}
	return nil
}

func (u UploadCmd) uploadOne(ctx context.Context, source, folder string, in UploadInput, jsonOutput bool) uploadOutcome {
	outcome := uploadOutcome{Source: source}

	var spinner *pterm.SpinnerPrinter
	if !jsonOutput {
		spinner, _ = pterm.DefaultSpinner.Start("Uploading " + source)
	}
	// The busy indicator always comes back down, whichever way the
	// pipeline exits.
	defer func() {
		if spinner != nil && spinner.IsActive {
			_ = spinner.Stop()
		}
	}()

	params, err := u.buildParams(ctx, source, folder)
	if err != nil {
		return u.fail(spinner, outcome, err)
	}
	if params.File != nil {
		if closer, ok := params.File.(io.Closer); ok {
			defer closer.Close()
		}
	}

	result, err := u.uploader.Upload(ctx, params)
	if err != nil {
		return u.fail(spinner, outcome, err)
	}

	if _, err := u.history.Append(result.SecureURL); err != nil {
		return u.fail(spinner, outcome, err)
	}

	finalURL := transform.Apply(result.SecureURL, u.settings.Transformations)

	outcome.URL = result.SecureURL
	outcome.TransformedURL = finalURL
	outcome.Bytes = result.Bytes

	copied := false
	if !in.NoCopy && u.copyFn != nil {
		if err := u.copyFn(finalURL); err != nil {
			pterm.Warning.Printf("Could not copy to clipboard: %v\n", err)
		} else {
			copied = true
		}
	}

	if spinner != nil {
		msg := fmt.Sprintf("Uploaded %s (%s)", source, util.FormatBytes(result.Bytes))
		if copied {
			msg += " — URL copied"
		}
		spinner.Success(msg)
		pterm.Println("  " + finalURL)
	}
	if u.notifyFn != nil {
		u.notifyFn("Upload successful", finalURL)
	}

	if in.Open && u.openFn != nil {
		_ = u.openFn(finalURL)
	}
	return outcome
}

func (u UploadCmd) fail(spinner *pterm.SpinnerPrinter, outcome uploadOutcome, err error) uploadOutcome {
	outcome.Error = err.Error()
	if spinner != nil {
		spinner.Fail(fmt.Sprintf("Upload failed for %s: %v", outcome.Source, err))
	}
	if u.notifyFn != nil {
		u.notifyFn("Upload failed", err.Error())
	}
	return outcome
}

// buildParams turns a source (local file or URL) into upload parameters.
// An unreachable URL is not fatal: the URL string itself goes up as the
// file field and Cloudinary fetches it server-side.
func (u UploadCmd) buildParams(ctx context.Context, source, folder string) (cloudinary.UploadParams, error) {
	params := cloudinary.UploadParams{
		Preset: u.settings.UploadPreset,
		Folder: folder,
	}

	if isURL(source) {
		body, err := fetchImage(ctx, source)
		if err != nil {
			params.RemoteURL = source
			return params, nil
		}
		params.File = body
		params.Filename = filepath.Base(source)
		return params, nil
	}

	file, err := os.Open(source)
	if err != nil {
		return cloudinary.UploadParams{}, fmt.Errorf("cannot read %s: %w", source, err)
	}
	params.File = file
	params.Filename = filepath.Base(source)
	return params, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func fetchImage(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 1 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch failed: %s", resp.Status)
	}
	return resp.Body, nil
}

// imageExtensions are the file types picked up when a directory is
// uploaded.
var imageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "bmp", "svg", "avif"}

// collectImageFiles walks dir and returns the image files beneath it,
// honoring .gitignore files along the way.
func collectImageFiles(dir string) ([]string, error) {
	fileQueue := make(chan *gocodewalker.File, 256)
	walker := gocodewalker.NewFileWalker(dir, fileQueue)
	walker.AllowListExtensions = append(walker.AllowListExtensions, imageExtensions...)

	errChan := make(chan error, 1)
	go func() {
		errChan <- walker.Start()
	}()

	var files []string
	for f := range fileQueue {
		files = append(files, f.Location)
	}
	if err := <-errChan; err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// expandSources resolves directory arguments into the image files they
// contain. Files and URLs pass through untouched.
func expandSources(args []string) ([]string, error) {
	var sources []string
	for _, arg := range args {
		if isURL(arg) {
			sources = append(sources, arg)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			sources = append(sources, arg)
			continue
		}

		files, err := collectImageFiles(arg)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no image files found under %s", arg)
		}
		sources = append(sources, files...)
	}
	return sources, nil
}

// --- Cobra wiring ---

var uploadCmd = &cobra.Command{
	Use:   "upload [<file|url|dir>...]",
	Short: "Upload images to Cloudinary",
	Long: `Upload one or more images to Cloudinary via your unsigned upload preset.

Sources can be local files, directories (all images beneath are uploaded),
or http(s) URLs. URL sources are downloaded first; if the download fails,
the URL is handed to Cloudinary to fetch server-side.

The hosted URL is copied to your clipboard, with your configured
transformations applied.`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().String("folder", "", "Target folder on Cloudinary (overrides the configured default)")
	uploadCmd.Flags().Bool("no-copy", false, "Do not copy the resulting URL to the clipboard")
	uploadCmd.Flags().Bool("open", false, "Open the uploaded image in your browser")
	uploadCmd.Flags().Bool("from-clipboard", false, "Take the source path or URL from the clipboard")
	uploadCmd.Flags().StringP("output", "o", "", "Output format (json)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	folder, _ := cmd.Flags().GetString("folder")
	noCopy, _ := cmd.Flags().GetBool("no-copy")
	open, _ := cmd.Flags().GetBool("open")
	fromClipboard, _ := cmd.Flags().GetBool("from-clipboard")
	output, _ := cmd.Flags().GetString("output")

	if fromClipboard {
		source, err := clip.Paste()
		if err != nil {
			return err
		}
		if source == "" {
			return fmt.Errorf("clipboard is empty")
		}
		args = append(args, source)
	}
	if len(args) == 0 {
		return fmt.Errorf("requires at least one file, directory or URL (or --from-clipboard)")
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings, err := db.LoadSettings()
	if err != nil {
		return err
	}
	// Configuration gate: nothing is fetched, uploaded or recorded until
	// cloud name and preset exist.
	if !settings.Configured() {
		pterm.Error.Println("Cloud name and upload preset are not configured. Run 'cloudup configure' first.")
		notify.Send("Configuration missing", "Set your cloud name and upload preset.")
		_ = browser.OpenURL(consoleSettingsURL)
		return fmt.Errorf("not configured")
	}

	sources, err := expandSources(args)
	if err != nil {
		return err
	}

	u := UploadCmd{
		uploader: cloudinary.New(settings.CloudName),
		history:  db,
		settings: settings,
		copyFn:   clip.Copy,
		notifyFn: notify.Send,
		openFn:   browser.OpenURL,
	}
	return u.Run(cmd.Context(), UploadInput{
		Sources: sources,
		Folder:  folder,
		NoCopy:  noCopy,
		Open:    open,
		Output:  output,
	})
}
