// Package cmd implements the cloudup command line interface.
package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Faqahat/cloudup/internal/store"
)

// Set via ldflags at release time.
var metadata = struct {
	Version string
}{
	Version: "dev",
}

// Cloudinary console page where cloud name and upload presets live. Opened
// when a command needs configuration that is missing.
const consoleSettingsURL = "https://console.cloudinary.com/settings/upload"

var rootCmd = &cobra.Command{
	Use:   "cloudup",
	Short: "Upload images to Cloudinary from your terminal",
	Long: `cloudup uploads images to Cloudinary using an unsigned upload preset,
keeps a local history of everything you upload, and copies the hosted URL
(optionally rewritten with transformation parameters) to your clipboard.

Get started:
  cloudup configure --cloud-name <name> --upload-preset <preset>
  cloudup upload screenshot.png`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	// A .env next to the working directory may carry CLOUDUP_* overrides.
	_ = godotenv.Load()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(metadata.Version)); err != nil {
		os.Exit(1)
	}
}

// openStore opens the shared settings/history database.
func openStore() (*store.DB, error) {
	path, err := store.DefaultPath()
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}
