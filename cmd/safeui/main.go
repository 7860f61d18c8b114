// Command safeui validates and renders card documents from the shell,
// the same two operations the library exposes in-process (§6).
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/devforai-creator/safe-ugc-ui"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:     "safeui",
		Short:   "Validate and render safe-ugc-ui card documents",
		Version: "dev",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "limits config file (yaml)")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newRenderCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadLimits() (safeui.Limits, error) {
	if configPath == "" {
		return safeui.DefaultLimits(), nil
	}
	return safeui.LoadLimitsFile(configPath)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <card.json>",
		Short: "Run the full validation pipeline over a card document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			limits, err := loadLimits()
			if err != nil {
				return err
			}
			result := safeui.ValidateRaw(raw, safeui.ValidateOptions{Limits: limits})
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			if !result.Valid {
				os.Exit(1)
			}
			return nil
		},
	}
}

func newRenderCmd() *cobra.Command {
	var view string
	var stateFile string
	var containerStyle string

	cmd := &cobra.Command{
		Use:   "render <card.json>",
		Short: "Render a view to sandboxed HTML (the bundled reference host adapter)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			limits, err := loadLimits()
			if err != nil {
				return err
			}

			var state map[string]interface{}
			if stateFile != "" {
				stateRaw, err := os.ReadFile(stateFile)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(stateRaw, &state); err != nil {
					return err
				}
			}

			var failed bool
			host := safeui.Render(safeui.RenderInput{
				Raw:            raw,
				ViewName:       view,
				State:          state,
				Limits:         limits,
				ContainerStyle: containerStyle,
				OnError: func(errs []safeui.Error) {
					failed = true
					for _, e := range errs {
						fmt.Fprintln(os.Stderr, e.Error())
					}
				},
			})
			if failed || host == nil {
				os.Exit(1)
			}
			fmt.Println(safeui.RenderHTML(host))
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", "", "view name (defaults to the first view in document order)")
	cmd.Flags().StringVar(&stateFile, "state", "", "JSON file supplying the card's runtime state")
	cmd.Flags().StringVar(&containerStyle, "container-style", "", "host CSS appended to the sandbox container's non-negotiable rules")
	return cmd
}
