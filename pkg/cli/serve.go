package cli

import (
	"github.com/spf13/cobra"

	"github.com/Titan-M/mailsift/pkg/gateway"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway server",
	Long:  `Run the mailsift gateway server until interrupted.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	gw, err := gateway.NewGateway()
	if err != nil {
		return err
	}
	return gw.Start()
}
