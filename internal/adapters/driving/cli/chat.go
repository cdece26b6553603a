package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var chatTopK int

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Starts an interactive session. Each question is answered from the
indexed documents, with the sources used listed after the answer.
Type "exit" or press Ctrl-D to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "n", 5, "chunks to retrieve per question")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	cmd.Printf("helpdesk chat (%d chunks indexed). Type \"exit\" to quit.\n", vectorStore.Len())

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		resp, err := chatService.Ask(cmd.Context(), question, chatTopK)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}

		cmd.Println()
		cmd.Println(resp.Answer)
		if len(resp.References) > 0 {
			cmd.Println()
			cmd.Println("Sources:")
			for i, ref := range resp.References {
				citation := ref.Citation()
				if citation == "" {
					citation = ref.Chunk.ID
				}
				cmd.Printf("  [%d] %s (%.3f)\n", i+1, citation, ref.Score)
			}
		}
		cmd.Println()
	}
}
