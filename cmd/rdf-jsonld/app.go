package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/geoknoesis/rdf-jsonld/rdf"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON     = "json"
	outputYAML     = "yaml"
	outputNTriples = "ntriples"
)

// parseOutput is the document written by the parse command in json and yaml mode.
type parseOutput struct {
	Format   string       `json:"format" yaml:"format"`
	Triples  int          `json:"triples" yaml:"triples"`
	Metadata rdf.Metadata `json:"metadata" yaml:"metadata"`
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Detect and parse JSON-LD documents",
		Long: `rdf-jsonld detects JSON-LD content and converts it to RDF.

Documents must carry a top-level @context. Remote @context references are
fetched unless --disable-remote-contexts is set. Use "-" to read stdin.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), logLevel))
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newDetectCmd(), newParseCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})
	return cmd
}

func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Report whether a document is JSON-LD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			registry := rdf.NewRegistry(rdf.NewJSONLDHandler(rdf.WithLogger(slog.Default())))
			h, ok := registry.Detect(content)
			if !ok {
				return fmt.Errorf("%s: %w", args[0], rdf.ErrUnsupportedFormat)
			}
			fmt.Fprintln(cmd.OutOrStdout(), h.FormatName())
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	var (
		configPath            string
		base                  string
		disableRemoteContexts bool
		output                string
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a JSON-LD document",
		Long: `Parse converts a JSON-LD document to RDF and prints the result.

Options from --config are applied first; --base and --disable-remote-contexts
override them when given.

Examples:
  rdf-jsonld parse doc.jsonld
  rdf-jsonld parse --base http://example.org/ --output ntriples doc.jsonld
  cat doc.jsonld | rdf-jsonld parse --disable-remote-contexts -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("base") {
				opts.Base = base
			}
			if cmd.Flags().Changed("disable-remote-contexts") {
				opts.DisableRemoteContexts = disableRemoteContexts
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			switch output {
			case outputJSON, outputYAML, outputNTriples:
			default:
				return fmt.Errorf("unknown output format %q (want json, yaml or ntriples)", output)
			}

			content, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			h := rdf.NewJSONLDHandler(rdf.WithLogger(slog.Default()), rdf.WithConcurrentExtraction(true))
			result, err := h.ParseWithOptions(cmd.Context(), content, opts)
			if err != nil {
				return fmt.Errorf("%s [%s]: %w", args[0], rdf.Code(err), err)
			}
			return writeResult(cmd.OutOrStdout(), result, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Parse options file (YAML or JSON)")
	cmd.Flags().StringVar(&base, "base", "", "Base IRI for relative references")
	cmd.Flags().BoolVar(&disableRemoteContexts, "disable-remote-contexts", false, "Reject documents that reference a remote @context")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format (json, yaml, ntriples)")
	return cmd
}

func loadOptions(path string) (rdf.ParseOptions, error) {
	if path == "" {
		return rdf.ParseOptions{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return rdf.ParseOptions{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	opts, err := rdf.LoadParseOptions(f)
	if err != nil {
		return rdf.ParseOptions{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return opts, nil
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func writeResult(w io.Writer, result *rdf.ParsedResult, output string) error {
	doc := parseOutput{
		Format:   result.Format(),
		Triples:  result.Graph().Len(),
		Metadata: result.Metadata(),
	}
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case outputNTriples:
		return result.Graph().WriteNTriples(w)
	default:
		return fmt.Errorf("unknown output format %q (want json, yaml or ntriples)", output)
	}
}
