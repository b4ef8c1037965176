package cli

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/Titan-M/mailsift/pkg/types"
)

var (
	syncLimit        int
	syncAccessToken  string
	syncRefreshToken string
)

var syncCmd = &cobra.Command{
	Use:   "sync <user-id>",
	Short: "Sync and classify recent emails for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runSync,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status <user-id>",
	Short: "Show a user's last sync time",
	Args:  cobra.ExactArgs(1),
	RunE:  runSyncStatus,
}

func init() {
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "Maximum messages to sync (0 uses the server default)")
	syncCmd.Flags().StringVar(&syncAccessToken, "access-token", "", "Gmail access token (otherwise stored credentials are used)")
	syncCmd.Flags().StringVar(&syncRefreshToken, "refresh-token", "", "Gmail refresh token to store alongside the access token")
	syncCmd.AddCommand(syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	userId := args[0]

	body := map[string]any{}
	if syncLimit > 0 {
		body["limit"] = syncLimit
	}
	if syncAccessToken != "" {
		body["access_token"] = syncAccessToken
	}
	if syncRefreshToken != "" {
		body["refresh_token"] = syncRefreshToken
	}

	var report types.SyncReport
	path := fmt.Sprintf("/users/%s/sync", url.PathEscape(userId))
	if err := getClient().do(cmd.Context(), http.MethodPost, path, body, &report); err != nil {
		return err
	}

	if PrintJSON(report) {
		return nil
	}

	fmt.Println()
	PrintSuccess(fmt.Sprintf("synced %d messages", report.Total))
	PrintKeyValue("Processed", fmt.Sprintf("%d", report.Processed))
	PrintKeyValue("Skipped", fmt.Sprintf("%d", report.Skipped))
	fmt.Println()
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	userId := args[0]

	var status struct {
		UserID        string `json:"user_id"`
		LastEmailSync string `json:"last_email_sync"`
	}
	path := fmt.Sprintf("/users/%s/sync/status", url.PathEscape(userId))
	if err := getClient().do(cmd.Context(), http.MethodGet, path, nil, &status); err != nil {
		return err
	}

	if PrintJSON(status) {
		return nil
	}

	fmt.Println()
	PrintKeyValue("User", status.UserID)
	if status.LastEmailSync != "" {
		PrintKeyValue("Last sync", status.LastEmailSync)
	} else {
		PrintKeyValue("Last sync", DimStyle.Render("never"))
		PrintHint(fmt.Sprintf("Run 'mailsift sync %s' to sync", userId))
	}
	fmt.Println()
	return nil
}
