package cli

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	listCategory string
	listPriority string
	listPage     int
	listLimit    int
)

var emailsCmd = &cobra.Command{
	Use:   "emails",
	Short: "Manage classified emails",
}

var emailsListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List classified emails for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmailsList,
}

var emailsDeleteCmd = &cobra.Command{
	Use:   "delete <user-id> <email-id>",
	Short: "Delete an email by ID",
	Args:  cobra.ExactArgs(2),
	RunE:  runEmailsDelete,
}

func init() {
	emailsListCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	emailsListCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority")
	emailsListCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	emailsListCmd.Flags().IntVar(&listLimit, "limit", 20, "Page size")

	emailsCmd.AddCommand(emailsListCmd)
	emailsCmd.AddCommand(emailsDeleteCmd)
	rootCmd.AddCommand(emailsCmd)
}

type emailListing struct {
	Emails []struct {
		ExternalID string `json:"external_id"`
		Subject    string `json:"subject"`
		Sender     string `json:"sender"`
		Category   string `json:"category"`
		Priority   string `json:"priority"`
		Summary    string `json:"summary"`
		ReceivedAt string `json:"received_at"`
	} `json:"emails"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func runEmailsList(cmd *cobra.Command, args []string) error {
	userId := args[0]

	query := url.Values{}
	if listCategory != "" {
		query.Set("category", listCategory)
	}
	if listPriority != "" {
		query.Set("priority", listPriority)
	}
	query.Set("page", fmt.Sprintf("%d", listPage))
	query.Set("limit", fmt.Sprintf("%d", listLimit))

	var listing emailListing
	path := fmt.Sprintf("/users/%s/emails?%s", url.PathEscape(userId), query.Encode())
	if err := getClient().do(cmd.Context(), http.MethodGet, path, nil, &listing); err != nil {
		return err
	}

	if PrintJSON(listing) {
		return nil
	}

	fmt.Println()
	if len(listing.Emails) == 0 {
		PrintInfo("no emails found")
		fmt.Println()
		return nil
	}

	for _, email := range listing.Emails {
		fmt.Printf("  %s  %s %s\n", DimStyle.Render(shortID(email.ExternalID)), email.Subject, DimStyle.Render("("+email.Sender+")"))
		fmt.Printf("            %s / %s  %s\n", email.Category, email.Priority, DimStyle.Render(email.ReceivedAt))
		if email.Summary != "" {
			fmt.Printf("            %s\n", HintStyle.Render(email.Summary))
		}
		fmt.Println()
	}
	PrintKeyValue("Total", fmt.Sprintf("%d (page %d)", listing.Total, listing.Page))
	fmt.Println()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runEmailsDelete(cmd *cobra.Command, args []string) error {
	userId, emailId := args[0], args[1]

	path := fmt.Sprintf("/users/%s/emails/%s", url.PathEscape(userId), url.PathEscape(emailId))
	if err := getClient().do(cmd.Context(), http.MethodDelete, path, nil, nil); err != nil {
		return err
	}

	if outputJSON {
		PrintJSON(map[string]bool{"deleted": true})
		return nil
	}
	PrintSuccess("email deleted")
	return nil
}
