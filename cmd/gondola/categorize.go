package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gondola/backend/internal/infrastructure/jsonfile"
)

func newCategorizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize [input] [output]",
		Short: "Categorize a JSON product file into a JSON category file",
		Long: `Reads a JSON array of {"title", "supermarket"} records, validates every
record, groups them by signature and writes the categories as JSON.
Paths are resolved against the working directory and default to the
configured categorize.input_file and categorize.output_file.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := a.cfg.Categorize.InputFile
			output := a.cfg.Categorize.OutputFile
			if len(args) > 0 {
				input = args[0]
			}
			if len(args) > 1 {
				output = args[1]
			}
			return a.categorizeFile(cmd, input, output)
		},
	}
}

func (a *app) categorizeFile(cmd *cobra.Command, input, output string) error {
	inputPath, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolving input path: %w", err)
	}
	outputPath, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}

	if _, err := os.Stat(inputPath); errors.Is(err, os.ErrNotExist) {
		a.logger.Error("input file not found",
			zap.String("path", inputPath),
			zap.Strings("available", availableFiles(filepath.Dir(inputPath))),
		)
		return fmt.Errorf("input file %s not found", inputPath)
	}

	a.logger.Info("reading products", zap.String("path", inputPath))

	records, err := jsonfile.LoadFile(inputPath)
	if err != nil {
		return err
	}
	a.logger.Info("input validated", zap.Int("records", len(records)))

	service, memoryCache := a.newService()
	if memoryCache != nil {
		defer memoryCache.Close()
	}

	groups, err := service.Categorize(cmd.Context(), records)
	if err != nil {
		return err
	}

	if err := jsonfile.WriteFile(outputPath, groups); err != nil {
		return err
	}

	a.logger.Info("categories written", zap.String("path", outputPath), zap.Int("categories", len(groups)))
	fmt.Fprintf(cmd.OutOrStdout(), "Total categories found: %d\n", len(groups))
	return nil
}

// availableFiles lists the regular files of dir, for the not-found hint
func availableFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
