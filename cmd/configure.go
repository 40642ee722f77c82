package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Faqahat/cloudup/internal/store"
	"github.com/Faqahat/cloudup/pkg/table"
	"github.com/Faqahat/cloudup/pkg/util"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure Cloudinary credentials and URL transformations",
	Long: `Configure the Cloudinary cloud name, unsigned upload preset, default
folder, history limit and URL transformation parameters.

With no flags, missing required values are prompted for interactively.
Values can also come from the environment (CLOUDUP_CLOUD_NAME,
CLOUDUP_UPLOAD_PRESET, CLOUDUP_FOLDER) or a .env file, which override the
stored configuration at run time.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

var configureShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigureShow,
}

// configureFlagSet builds the settings flags. A fresh set per caller keeps
// parse state out of the package-level command.
func configureFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("configure", pflag.ContinueOnError)
	flags.String("cloud-name", "", "Cloudinary cloud name")
	flags.String("upload-preset", "", "Unsigned upload preset name")
	flags.String("folder", "", "Default folder for uploads")
	flags.Int("history-limit", 0, fmt.Sprintf("How many uploads to keep in history (%d-%d)", store.HistoryLimitMin, store.HistoryLimitMax))

	flags.Bool("transform", false, "Enable URL transformations")
	flags.Bool("no-transform", false, "Disable URL transformations")
	flags.Int("width", 0, "Transformation width in pixels")
	flags.Int("height", 0, "Transformation height in pixels")
	flags.String("quality", "", "Transformation quality (e.g. 80, auto)")
	flags.String("format", "", "Transformation format (e.g. webp, auto)")
	flags.String("crop", "", "Transformation crop mode (e.g. fill, fit)")
	return flags
}

func init() {
	configureCmd.AddCommand(configureShowCmd)
	rootCmd.AddCommand(configureCmd)

	configureCmd.Flags().AddFlagSet(configureFlagSet())
	configureCmd.MarkFlagsMutuallyExclusive("transform", "no-transform")
}

// applySettingsFlags merges the configure flags onto settings. String fields
// that can be cleared use Changed so an explicit empty value wins; the rest
// treat the zero value as "not given".
func applySettingsFlags(flags *pflag.FlagSet, settings *store.Settings) {
	if v, _ := flags.GetString("cloud-name"); v != "" {
		settings.CloudName = v
	}
	if v, _ := flags.GetString("upload-preset"); v != "" {
		settings.UploadPreset = v
	}
	if flags.Changed("folder") {
		settings.Folder, _ = flags.GetString("folder")
	}
	if v, _ := flags.GetInt("history-limit"); v != 0 {
		settings.HistoryLimit = v
	}

	if enabled, _ := flags.GetBool("transform"); enabled {
		settings.Transformations.Enabled = true
	}
	if disabled, _ := flags.GetBool("no-transform"); disabled {
		settings.Transformations.Enabled = false
	}
	if v, _ := flags.GetInt("width"); v != 0 {
		settings.Transformations.Width = v
	}
	if v, _ := flags.GetInt("height"); v != 0 {
		settings.Transformations.Height = v
	}
	if flags.Changed("quality") {
		settings.Transformations.Quality, _ = flags.GetString("quality")
	}
	if flags.Changed("format") {
		settings.Transformations.Format, _ = flags.GetString("format")
	}
	if flags.Changed("crop") {
		settings.Transformations.Crop, _ = flags.GetString("crop")
	}
}

func runConfigure(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings, err := db.LoadSettings()
	if err != nil {
		return err
	}

	applySettingsFlags(cmd.Flags(), &settings)

	// Interactive fill-in for anything required that is still missing.
	if settings.CloudName == "" {
		settings.CloudName, _ = pterm.DefaultInteractiveTextInput.Show("Cloud name")
	}
	if settings.UploadPreset == "" {
		settings.UploadPreset, _ = pterm.DefaultInteractiveTextInput.Show("Upload preset")
	}
	if settings.CloudName == "" || settings.UploadPreset == "" {
		return fmt.Errorf("cloud name and upload preset are required")
	}

	if err := db.SaveSettings(settings); err != nil {
		return err
	}
	pterm.Success.Println("Settings saved")
	return nil
}

func runConfigureShow(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings, err := db.LoadSettings()
	if err != nil {
		return err
	}

	rows := pterm.TableData{{"Setting", "Value"}}
	rows = append(rows, []string{"Cloud Name", util.OrDash(settings.CloudName)})
	rows = append(rows, []string{"Upload Preset", util.OrDash(settings.UploadPreset)})
	rows = append(rows, []string{"Folder", util.OrDash(settings.Folder)})
	rows = append(rows, []string{"History Limit", strconv.Itoa(settings.HistoryLimit)})
	rows = append(rows, []string{"Transformations", fmt.Sprintf("%t", settings.Transformations.Enabled)})

	t := settings.Transformations
	if t.Width > 0 {
		rows = append(rows, []string{"  Width", strconv.Itoa(t.Width)})
	}
	if t.Height > 0 {
		rows = append(rows, []string{"  Height", strconv.Itoa(t.Height)})
	}
	if t.Crop != "" {
		rows = append(rows, []string{"  Crop", t.Crop})
	}
	if t.Quality != "" {
		rows = append(rows, []string{"  Quality", t.Quality})
	}
	if t.Format != "" {
		rows = append(rows, []string{"  Format", t.Format})
	}

	table.PrintTableNoPad(rows, true)

	if !settings.Configured() {
		pterm.Warning.Println("Cloud name and upload preset are required before uploading")
	}
	return nil
}
