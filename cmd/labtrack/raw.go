package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rawCmd = &cobra.Command{
	Use:   "raw <path>",
	Short: "Fetch a backend path and print the response",
	Long: `Issue a GET against the backend and print the JSON response with
timestamp strings revived into time values, for inspecting endpoints the
other commands do not cover.`,
	Example: `  labtrack raw /projects/3
  labtrack raw /results`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		path := args[0]
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		body, err := a.client.GetRaw(cmd.Context(), path)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(body); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		return nil
	},
}
