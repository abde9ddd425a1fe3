package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/renato0307/shellbox/internal/config"
)

// SettingsCmd manages settings
type SettingsCmd struct {
	Meta SettingsMetaCmd `cmd:"meta" help:"Show settings file location and available options" default:"1"`
}

// SettingsMetaCmd displays settings metadata
type SettingsMetaCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the meta command
func (s *SettingsMetaCmd) Run() error {
	settingsFile := config.GetSettingsPath()
	example := config.GetSettingsExample()

	if s.Format == "json" {
		return printJSON(map[string]any{
			"settings_file": settingsFile,
			"format":        example,
		})
	}

	fmt.Printf("Settings file: %s\n\n", settingsFile)
	fmt.Println("Example settings.json:")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	writeExample(w, "", example)
	w.Flush()

	fmt.Println()
	fmt.Println("Create or edit this file to configure shellbox.")
	fmt.Println("All settings are optional and have sensible defaults.")

	return nil
}

// writeExample prints keys in sorted order, flattening nested objects to dotted keys
func writeExample(w *tabwriter.Writer, prefix string, example map[string]any) {
	keys := make([]string, 0, len(example))
	for key := range example {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch v := example[key].(type) {
		case map[string]any:
			writeExample(w, prefix+key+".", v)
		case []string:
			data, _ := json.Marshal(v)
			fmt.Fprintf(w, "%s%s\t%s\n", prefix, key, data)
		default:
			fmt.Fprintf(w, "%s%s\t%v\n", prefix, key, v)
		}
	}
}
