package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/dialektlab/entn/internal/logger"
	"github.com/spf13/cobra"
)

type splitOptions struct {
	fromID int64
}

func newSplitCmd() *cobra.Command {
	opts := splitOptions{}
	cmd := &cobra.Command{
		Use:   "split <input.tsv> <output.tsv>",
		Short: "Copy the input from a given sentence id onward into a new file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(logger.LevelInfo, nil)
			written, err := splitFromID(args[0], args[1], opts.fromID)
			if err != nil {
				return err
			}
			logger.Info("Split complete", "from_id", opts.fromID, "lines", written, "output", args[1])
			return nil
		},
		SilenceUsage: true,
	}
	cmd.Flags().Int64Var(&opts.fromID, "from-id", 0, "Sentence id to start from (required)")
	cmd.MarkFlagRequired("from-id")
	return cmd
}

// splitFromID copies every line of the input starting at the first line
// whose id column equals startID. If the id never appears the partial
// output is removed and an error returned.
func splitFromID(inputPath, outputPath string, startID int64) (int, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	prefix := strconv.FormatInt(startID, 10) + "\t"
	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	found := false
	written := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !found && len(line) >= len(prefix) && line[:len(prefix)] == prefix {
			found = true
		}
		if found {
			if _, err := w.WriteString(line + "\n"); err != nil {
				out.Close()
				os.Remove(outputPath)
				return 0, fmt.Errorf("failed to write output: %w", err)
			}
			written++
		}
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		os.Remove(outputPath)
		return 0, fmt.Errorf("failed to read input: %w", err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		os.Remove(outputPath)
		return 0, fmt.Errorf("failed to flush output: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return 0, fmt.Errorf("failed to close output: %w", err)
	}
	if !found {
		os.Remove(outputPath)
		return 0, fmt.Errorf("id %d not found in %s", startID, inputPath)
	}
	return written, nil
}
