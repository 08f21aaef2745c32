package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"spl2cql/internal/translate"
)

var (
	translateFile   string
	translateSample string
	translateName   string
	translateDesc   string
)

// translateCmd converts a single SPL query.
var translateCmd = &cobra.Command{
	Use:   "translate [spl-query]",
	Short: "Translate one SPL query to CQL",
	Long: `Translates a single Splunk SPL query to Falcon LogScale CQL and
prints the result. The query is taken from the argument, from --file,
or from a bundled sample via --sample.

Example:
  spl2cql translate 'index=main EventCode=4625 | stats count by src_ip'
  spl2cql translate --sample failed-logins`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringVarP(&translateFile, "file", "f", "", "read the SPL query from a file")
	translateCmd.Flags().StringVar(&translateSample, "sample", "", "use a bundled sample query (see 'spl2cql samples')")
	translateCmd.Flags().StringVar(&translateName, "name", "", "detection rule name, passed to the model as context")
	translateCmd.Flags().StringVar(&translateDesc, "description", "", "detection rule description, passed to the model as context")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	query, err := resolveQuery(args)
	if err != nil {
		return err
	}

	if ok, reason := translate.ValidateSPL(query); !ok {
		fmt.Fprintf(os.Stderr, "warning: %s\n", reason)
	}

	_, engine, _ := newSession()
	record := translate.NewQueryRecord(translateName, translateDesc, query)
	result := engine.Translate(cmd.Context(), record)

	if !result.Succeeded() {
		fmt.Fprintf(os.Stderr, "translation failed: %s\n", result.ErrorDetail)
		if result.RawOutput != "" {
			fmt.Fprintf(os.Stderr, "raw model output:\n%s\n", result.RawOutput)
		}
		return fmt.Errorf("translation failed")
	}

	fmt.Println(result.CQLQuery)
	return nil
}

func resolveQuery(args []string) (string, error) {
	switch {
	case translateSample != "":
		query, ok := translate.SampleQueries[translateSample]
		if !ok {
			return "", fmt.Errorf("unknown sample %q (valid: %s)",
				translateSample, strings.Join(translate.SampleNames(), ", "))
		}
		return query, nil
	case translateFile != "":
		data, err := os.ReadFile(translateFile)
		if err != nil {
			return "", fmt.Errorf("failed to read query file: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("provide an SPL query argument, --file or --sample")
	}
}
