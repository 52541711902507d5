package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/writetutor/internal/progress"
	"github.com/ziadkadry99/writetutor/internal/terminal"
	"github.com/ziadkadry99/writetutor/internal/tutor"
	"github.com/ziadkadry99/writetutor/internal/walker"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text|-]",
	Short: "Analyze a text once and print every suggestion",
	Long: `Analyzes a text without the interactive review. The text comes from the
argument, from stdin when the argument is "-", from the files named with
--file, or from the files matched by --glob under --dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringSlice("file", nil, "analyze these files, whatever their extension")
	analyzeCmd.Flags().StringSlice("glob", nil, "analyze files matching these doublestar patterns")
	analyzeCmd.Flags().StringSlice("exclude", nil, "skip files matching these patterns")
	analyzeCmd.Flags().String("dir", ".", "root directory for --glob")
	analyzeCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

// analysisResult is one analyzed document.
type analysisResult struct {
	Source      string             `json:"source"`
	Corrections []tutor.Correction `json:"corrections"`
	Error       string             `json:"error,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var in analyzeInput
	in.files, _ = cmd.Flags().GetStringSlice("file")
	in.globs, _ = cmd.Flags().GetStringSlice("glob")
	in.excludes, _ = cmd.Flags().GetStringSlice("exclude")
	in.dir, _ = cmd.Flags().GetString("dir")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	docs, err := collectDocuments(cmd.InOrStdin(), args, in)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No documents matched.")
		return nil
	}

	setup, err := setupTutor()
	if err != nil {
		return err
	}
	defer setup.close()

	ctx := context.Background()
	results := make([]analysisResult, 0, len(docs))
	reporter := progress.NewReporter(cmd.ErrOrStderr())
	if len(docs) > 1 {
		reporter.Start(len(docs))
	}
	var failed int
	for i, doc := range docs {
		if len(docs) > 1 {
			reporter.Update(i, doc.RelPath)
		}
		res := analysisResult{Source: doc.RelPath, Corrections: []tutor.Correction{}}
		corrections, err := setup.client.Analyze(ctx, doc.Text)
		if err != nil {
			logger.Warn("analysis failed", "source", doc.RelPath, "error", err)
			res.Error = err.Error()
			failed++
		} else {
			res.Corrections = corrections
		}
		results = append(results, res)
	}
	if len(docs) > 1 {
		reporter.Update(len(docs), "done")
		reporter.Finish()
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printAnalysis(cmd.OutOrStdout(), results)
	}

	if failed == len(docs) {
		return fmt.Errorf("%d of %d analyses failed", failed, len(docs))
	}
	return nil
}

// analyzeInput holds the file selection flags of analyze.
type analyzeInput struct {
	files    []string
	globs    []string
	excludes []string
	dir      string
}

// collectDocuments resolves the input: an inline text, stdin, named files,
// or a glob walk. Named files come first, in the order given.
func collectDocuments(stdin io.Reader, args []string, in analyzeInput) ([]walker.Document, error) {
	if len(in.files) > 0 || len(in.globs) > 0 {
		if len(args) > 0 {
			return nil, errors.New("pass either a text or --file/--glob, not both")
		}
		var docs []walker.Document
		for _, path := range in.files {
			doc, err := walker.ReadDocument(path)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		if len(in.globs) > 0 {
			walked, err := walker.Walk(walker.Config{RootDir: in.dir, Include: in.globs, Exclude: in.excludes})
			if err != nil {
				return nil, err
			}
			docs = append(docs, walked...)
		}
		return docs, nil
	}

	if len(args) == 0 {
		return nil, errors.New("nothing to analyze: pass a text, \"-\" for stdin, --file or --glob")
	}

	text := args[0]
	source := "argument"
	if text == "-" {
		data, err := io.ReadAll(io.LimitReader(stdin, walker.DefaultMaxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if int64(len(data)) > walker.DefaultMaxFileSize {
			return nil, fmt.Errorf("stdin is larger than %d bytes", walker.DefaultMaxFileSize)
		}
		text = string(data)
		source = "stdin"
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, tutor.ErrEmptyText
	}
	return []walker.Document{{RelPath: source, Text: text}}, nil
}

func printAnalysis(w io.Writer, results []analysisResult) {
	r := terminal.NewRenderer(w)
	for _, res := range results {
		if len(results) > 1 {
			fmt.Fprintf(w, "\n== %s ==\n", res.Source)
		}
		switch {
		case res.Error != "":
			fmt.Fprintf(w, "Error: %s\n", res.Error)
		case len(res.Corrections) == 0:
			fmt.Fprintln(w, "Sin sugerencias.")
		default:
			fmt.Fprintf(w, "%d sugerencia(s):\n", len(res.Corrections))
			for _, c := range res.Corrections {
				r.RenderCorrection(c)
			}
		}
	}
}

