package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helpdesk-labs/helpdesk-cli/internal/adapters/driving/web"
)

var (
	serveHost string
	servePort int
	serveTopK int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat web UI",
	Long: `Starts an HTTP server with a minimal chat page and a JSON API
(POST /api/chat) backed by the same retrieval pipeline as the CLI.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "interface to listen on")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8600, "port to listen on")
	serveCmd.Flags().IntVarP(&serveTopK, "top-k", "n", 5, "chunks to retrieve per question")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	server := web.NewServer(chatService, vectorStore, web.Config{
		DefaultTopK: serveTopK,
	})

	addr := fmt.Sprintf("%s:%d", serveHost, servePort)
	cmd.Printf("Serving on http://%s\n", addr)
	return server.Start(cmd.Context(), addr)
}
