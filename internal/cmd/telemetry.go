package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/renato0307/shellbox/internal/services"
	"github.com/renato0307/shellbox/internal/theme"
)

// TelemetryCmd reports on locally recorded runs
type TelemetryCmd struct {
	Stats TelemetryStatsCmd `cmd:"stats" help:"Show run statistics" default:"1"`
}

// TelemetryStatsCmd prints the run summary
type TelemetryStatsCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Top    int    `help:"Number of error codes to list" default:"3"`
}

// Run executes the stats command
func (t *TelemetryStatsCmd) Run(container *Container) error {
	if !container.TelemetryService.Enabled() {
		fmt.Println("Telemetry is disabled. Set \"telemetry_enabled\": true in settings.json to record runs.")
		return nil
	}

	top := t.Top
	if top <= 0 {
		top = services.DefaultTopErrorCodes
	}
	summary, err := container.TelemetryService.Summary(context.Background(), top)
	if err != nil {
		return fmt.Errorf("failed to read telemetry: %w", err)
	}

	if t.Format == "json" {
		return printJSON(summary)
	}

	if summary.Total == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Println(theme.TitleStyle.Render("Runs"))
	fmt.Printf("%s %d\n", theme.LabelStyle.Render("Total:       "), summary.Total)
	fmt.Printf("%s %d\n", theme.LabelStyle.Render("Succeeded:   "), summary.Successes)
	fmt.Printf("%s %d\n", theme.LabelStyle.Render("Failed:      "), summary.Failures)
	fmt.Printf("%s %.1f%%\n", theme.LabelStyle.Render("Success rate:"), summary.SuccessRate*100)
	fmt.Printf("%s %s\n", theme.LabelStyle.Render("Avg duration:"), summary.AverageDuration.Round(time.Millisecond))

	if len(summary.TopErrorCodes) > 0 {
		rows := make([][]string, 0, len(summary.TopErrorCodes))
		for _, c := range summary.TopErrorCodes {
			rows = append(rows, []string{string(c.Code), fmt.Sprintf("%d", c.Count)})
		}
		fmt.Println()
		fmt.Println(renderTable([]string{"ERROR CODE", "COUNT"}, rows))
	}
	return nil
}
