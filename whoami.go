package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated Box user",
		Args:  cobra.NoArgs,
		RunE:  runWhoami,
	}
}

// whoamiJSONOutput is the JSON output schema for the whoami command.
type whoamiJSONOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	session, logger, err := newSession(ctx)
	if err != nil {
		return err
	}

	logger.Debug("whoami")

	user, err := session.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("fetching current user: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(whoamiJSONOutput{ID: user.ID, Name: user.Name, Login: user.Login})
	}

	fmt.Printf("Name:  %s\n", user.Name)
	fmt.Printf("Login: %s\n", user.Login)
	fmt.Printf("ID:    %s\n", user.ID)

	return nil
}
