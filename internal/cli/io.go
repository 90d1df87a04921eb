package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/loadplan/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// stdinPath is the FILE argument that reads from standard input.
const stdinPath = "-"

func addPlanFlag(fs *pflag.FlagSet, target *string, usage string) {
	fs.StringVarP(target, "plan", "p", "", usage)
}

func addOutputFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "output", "o", "", "Write to FILE instead of stdout")
}

// readInput returns the text of path, or of stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// writeCSV prints content to stdout, or writes it to path with a UTF-8 BOM
// so spreadsheet applications detect the encoding.
func writeCSV(cmd *cobra.Command, path, content string) error {
	if path == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	return writeFile(cmd, path, func(w io.Writer) error {
		return export.WriteWithBOM(w, content)
	})
}

// writeFile creates path and hands it to write.
func writeFile(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
