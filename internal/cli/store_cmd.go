package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/loadplan/internal/domain"
	"github.com/spf13/cobra"
)

func newStoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Back up or restore the whole store as JSON",
	}

	cmd.AddCommand(
		newStoreDumpCmd(app),
		newStoreLoadCmd(app),
	)

	return cmd
}

func newStoreDumpCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write every plan and staged import as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Exports.Dump(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding store: %w", err)
			}
			data = append(data, '\n')

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			return writeFile(cmd, output, func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			})
		},
	}

	addOutputFlag(cmd.Flags(), &output)
	return cmd
}

func newStoreLoadCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Replace the store with a JSON dump",
		Long: `Replace the store with a JSON dump.

Every existing plan and staged import is removed. The dump is validated
before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var doc domain.Document
			if err := json.Unmarshal([]byte(text), &doc); err != nil {
				return fmt.Errorf("decoding %s: %w", args[0], err)
			}

			if !yes && app.interactive() {
				ok, err := app.confirm(fmt.Sprintf("Replace the store with %d plan(s) from %s?", len(doc.Plans), args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			if err := app.Exports.Load(cmd.Context(), &doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d plan(s)\n", len(doc.Plans))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
