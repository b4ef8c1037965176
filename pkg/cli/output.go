package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// outputJSON controls whether commands should output JSON instead of styled text
var outputJSON bool

// SetJSONOutput sets the JSON output mode
func SetJSONOutput(enabled bool) {
	outputJSON = enabled
}

// PrintJSON outputs data as JSON if JSON mode is enabled, returns true if it did
func PrintJSON(data interface{}) bool {
	if !outputJSON {
		return false
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(data)
	return true
}

// PrintSuccess prints a success message with a green checkmark
func PrintSuccess(msg string) {
	fmt.Printf("  %s %s\n", SuccessStyle.Render(SymbolSuccess), msg)
}

// PrintError prints an error message with a red X
func PrintError(err error) {
	fmt.Printf("  %s %s\n", ErrorStyle.Render(SymbolError), ErrorStyle.Render(err.Error()))
}

// PrintInfo prints an info message with an arrow
func PrintInfo(msg string) {
	fmt.Printf("  %s %s\n", InfoStyle.Render(SymbolInfo), msg)
}

// PrintKeyValue prints a key-value pair with consistent alignment
func PrintKeyValue(key, value string) {
	styledKey := KeyStyle.Render(key)
	fmt.Printf("  %s %s\n", styledKey, value)
}

// PrintHint prints a subtle hint/suggestion
func PrintHint(msg string) {
	fmt.Printf("\n  %s\n", HintStyle.Render(msg))
}
