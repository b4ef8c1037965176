package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check gateway health",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	c := getClient()

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var status map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("unexpected response (%d): %w", resp.StatusCode, err)
	}

	if PrintJSON(status) {
		return nil
	}

	fmt.Println()
	if status["status"] == "ok" {
		PrintSuccess("gateway is healthy")
	} else {
		PrintError(fmt.Errorf("gateway unhealthy: %s", status["error"]))
	}
	fmt.Println()
	return nil
}
