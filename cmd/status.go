package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/Faqahat/cloudup/pkg/util"
)

type statusComponent struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type statusSummary struct {
	Status struct {
		Indicator   string `json:"indicator"`
		Description string `json:"description"`
	} `json:"status"`
	Components []statusComponent `json:"components"`
}

const defaultStatusBaseURL = "https://status.cloudinary.com"

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the operational status of Cloudinary services",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringP("output", "o", "", "Output format (json)")
	rootCmd.AddCommand(statusCmd)
}

func getStatusBaseURL() string {
	if u := os.Getenv("CLOUDUP_STATUS_URL"); strings.TrimSpace(u) != "" {
		return strings.TrimRight(u, "/")
	}
	return defaultStatusBaseURL
}

func runStatus(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(getStatusBaseURL() + "/api/v2/summary.json")
	if err != nil {
		pterm.Error.Println("Could not reach the Cloudinary status page. Check https://status.cloudinary.com for updates.")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		pterm.Error.Println("Could not reach the Cloudinary status page. Check https://status.cloudinary.com for updates.")
		return fmt.Errorf("status request failed: %s", resp.Status)
	}

	var summary statusSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}

	if output == "json" {
		return util.PrintPrettyJSON(summary)
	}

	printStatus(summary)
	return nil
}

// Statuspage indicator / component status colors.
var statusDisplay = map[string]struct {
	label string
	rgb   pterm.RGB
}{
	"none":                 {label: "Operational", rgb: pterm.NewRGB(31, 163, 130)},
	"operational":          {label: "Operational", rgb: pterm.NewRGB(31, 163, 130)},
	"minor":                {label: "Minor Outage", rgb: pterm.NewRGB(245, 158, 11)},
	"degraded_performance": {label: "Degraded Performance", rgb: pterm.NewRGB(245, 158, 11)},
	"partial_outage":       {label: "Partial Outage", rgb: pterm.NewRGB(242, 85, 51)},
	"major":                {label: "Major Outage", rgb: pterm.NewRGB(239, 68, 68)},
	"major_outage":         {label: "Major Outage", rgb: pterm.NewRGB(239, 68, 68)},
	"critical":             {label: "Critical Outage", rgb: pterm.NewRGB(239, 68, 68)},
	"maintenance":          {label: "Maintenance", rgb: pterm.NewRGB(36, 99, 235)},
	"under_maintenance":    {label: "Maintenance", rgb: pterm.NewRGB(36, 99, 235)},
}

func getStatusDisplay(status string) (string, pterm.RGB) {
	if d, ok := statusDisplay[status]; ok {
		return d.label, d.rgb
	}
	return "Unknown", pterm.NewRGB(128, 128, 128)
}

func coloredDot(rgb pterm.RGB) string {
	return rgb.Sprint("●")
}

func printStatus(summary statusSummary) {
	label, rgb := getStatusDisplay(summary.Status.Indicator)
	if summary.Status.Description != "" {
		label = summary.Status.Description
	}
	pterm.Println()
	pterm.Println("  " + fmt.Sprintf("Cloudinary Status: %s", rgb.Sprint(label)))
	pterm.Println()

	for _, comp := range summary.Components {
		compLabel, compColor := getStatusDisplay(comp.Status)
		pterm.Printf("    %s %-30s %s\n", coloredDot(compColor), comp.Name, compLabel)
	}
	pterm.Println()
}
