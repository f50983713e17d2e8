package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"atomic-explorer/aihub/pkg/cli"
	"atomic-explorer/aihub/pkg/gateway"
	"atomic-explorer/aihub/pkg/providers"

	"github.com/spf13/cobra"
)

var chatFlags struct {
	interactive bool
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the AI lab assistant a question",
	Long: `Send a message through the provider chain and print the reply.

When every provider fails the fallback reply is printed and the command exits
non-zero. In interactive mode the conversation history is kept between turns
and failed turns are not added to it.

Examples:
  # One question
  aihub chat "Why do noble gases rarely react?"

  # Conversation
  aihub chat --interactive`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVarP(&chatFlags.interactive, "interactive", "i", false, "start an interactive session")
}

func runChat(cmd *cobra.Command, args []string) error {
	message := strings.TrimSpace(strings.Join(args, " "))
	if !chatFlags.interactive && message == "" {
		return fmt.Errorf("a message is required unless --interactive is set")
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	s, err := newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	spin := newSpinner(cmd.ErrOrStderr())

	if chatFlags.interactive {
		return chatLoop(ctx, s.gateway, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), spin)
	}

	reply, err := ask(ctx, s.gateway, spin, message, nil)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), gateway.ChatFallbackReply)
		return cli.NewCommandError("chat", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}

func ask(ctx context.Context, gw *gateway.Gateway, spin *cli.Spinner, message string, history []providers.HistoryEntry) (string, error) {
	spin.Start("asking providers")
	defer spin.Stop()
	return gw.ChatCompletion(ctx, message, history)
}

// chatLoop reads one message per line until EOF, "exit" or "quit".
func chatLoop(ctx context.Context, gw *gateway.Gateway, in io.Reader, out, errOut io.Writer, spin *cli.Spinner) error {
	var history []providers.HistoryEntry
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, `Lab assistant ready. Type "exit" to quit.`)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		reply, err := ask(ctx, gw, spin, line, history)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(errOut, "error:", err)
			fmt.Fprintln(out, gateway.ChatFallbackReply)
			continue
		}

		fmt.Fprintln(out, reply)
		history = append(history,
			providers.HistoryEntry{Role: providers.RoleUser, Content: line},
			providers.HistoryEntry{Role: providers.RoleModel, Content: reply},
		)
	}
}
