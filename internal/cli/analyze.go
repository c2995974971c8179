package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/symptom-analyzer/internal/service"
)

func newAnalyzeCommand(rt *state) *cobra.Command {
	var (
		asJSON bool
		form   service.SymptomForm
	)

	cmd := &cobra.Command{
		Use:   "analyze [symptom description]",
		Short: "Analyze a symptom description",
		Long: `Analyze a free-text symptom description, or the symptom form when --main is
given. With no arguments and no form the description is read from stdin.`,
		Example: `  symptomctl analyze "I have a fever and a dry cough"
  symptomctl analyze --main headache --severity moderate --duration "2 days"
  echo "sore throat" | symptomctl analyze --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := analysisText(cmd, args, form)
			if err != nil {
				return err
			}

			a, err := rt.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Analyzer.Analyze(cmd.Context(), text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			_, err = fmt.Fprintln(out, RenderResult(result))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&form.MainSymptom, "main", "", "main symptom (form mode)")
	cmd.Flags().StringVar(&form.AdditionalInfo, "additional", "", "additional information (form mode)")
	cmd.Flags().StringVar(&form.Severity, "severity", "", "mild, moderate or severe (form mode)")
	cmd.Flags().StringVar(&form.Duration, "duration", "", "how long the symptoms have lasted (form mode)")
	return cmd
}

func analysisText(cmd *cobra.Command, args []string, form service.SymptomForm) (string, error) {
	if cmd.Flags().Changed("main") {
		if len(args) > 0 {
			return "", fmt.Errorf("give either a description or --main, not both")
		}
		if err := form.Validate(); err != nil {
			return "", err
		}
		return form.Query(), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 64<<10))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
