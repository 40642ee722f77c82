package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faqahat/cloudup/internal/transform"
)

var transformCmd = &cobra.Command{
	Use:   "transform <url>",
	Short: "Apply the configured URL transformations to a Cloudinary URL",
	Long: `Print the given Cloudinary delivery URL rewritten with transformation
parameters. Flags override the stored configuration; with no flags, the
configured transformations apply. Non-Cloudinary URLs pass through
unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().Int("width", 0, "Width in pixels")
	transformCmd.Flags().Int("height", 0, "Height in pixels")
	transformCmd.Flags().String("quality", "", "Quality (e.g. 80, auto)")
	transformCmd.Flags().String("format", "", "Format (e.g. webp, auto)")
	transformCmd.Flags().String("crop", "", "Crop mode (e.g. fill, fit)")
	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings, err := db.LoadSettings()
	if err != nil {
		return err
	}

	cfg := settings.Transformations
	overridden := false
	if v, _ := cmd.Flags().GetInt("width"); v != 0 {
		cfg.Width, overridden = v, true
	}
	if v, _ := cmd.Flags().GetInt("height"); v != 0 {
		cfg.Height, overridden = v, true
	}
	if v, _ := cmd.Flags().GetString("quality"); v != "" {
		cfg.Quality, overridden = v, true
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		cfg.Format, overridden = v, true
	}
	if v, _ := cmd.Flags().GetString("crop"); v != "" {
		cfg.Crop, overridden = v, true
	}
	if overridden {
		cfg.Enabled = true
	}

	fmt.Println(transform.Apply(args[0], cfg))
	return nil
}
