package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Build information (injected at compile time via ldflags)
var Version = "dev"

const defaultGatewayHTTP = "http://localhost:1994"

var (
	gatewayHTTPAddr string
	authToken       string
	jsonOutput      bool
)

var rootCmd = &cobra.Command{
	Use:   "mailsift",
	Short: "Email classification pipeline",
	Long: lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render("mailsift") + ` - Email classification pipeline

Ingest recent Gmail messages, classify them by category and priority,
and store exactly one record per message.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		SetJSONOutput(jsonOutput)
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("  %s version %s\n", BrandStyle.Render("mailsift"), Version))

	rootCmd.PersistentFlags().StringVar(&gatewayHTTPAddr, "gateway-http", getEnv("MAILSIFT_GATEWAY_HTTP", defaultGatewayHTTP), "Gateway HTTP address")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", getEnv("MAILSIFT_TOKEN", ""), "Authentication token")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getClient() *Client {
	return NewClient(gatewayHTTPAddr, authToken)
}
