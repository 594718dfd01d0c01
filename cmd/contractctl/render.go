package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/boddenberg/rastreio-bfa-go/internal/templating"
)

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a template file with a YAML or JSON variable table",
		Long: `Render a template file with the variables read from --vars.

The current date fills data_atual unless the table sets it, and the derived
name and address keys are computed as in the BFA. Unknown tokens are kept
in the output and listed on stderr.`,
		RunE: runRender,
	}

	cmd.Flags().StringP("template", "t", "", "Template file (required)")
	cmd.Flags().String("vars", "", "YAML or JSON file with the variable table")
	cmd.Flags().Bool("strict", false, "Fail when the template has unknown tokens")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine(cmd)
	if err != nil {
		return err
	}

	templatePath, _ := cmd.Flags().GetString("template")
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	template := string(raw)

	vars := templating.Variables{}
	if varsPath, _ := cmd.Flags().GetString("vars"); varsPath != "" {
		if vars, err = templating.LoadVariables(varsPath); err != nil {
			return err
		}
	}
	if _, ok := vars[templating.VarCurrentDate]; !ok {
		vars[templating.VarCurrentDate] = time.Now().Format(templating.DateLayout)
	}

	fmt.Fprint(cmd.OutOrStdout(), engine.Render(template, vars.WithDerived()))

	unresolved := engine.Unresolved(template)
	if len(unresolved) == 0 {
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: unknown tokens: %s\n", strings.Join(unresolved, ", "))
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		return fmt.Errorf("%d unknown token(s)", len(unresolved))
	}
	return nil
}
