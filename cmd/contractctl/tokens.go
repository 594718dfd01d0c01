package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/boddenberg/rastreio-bfa-go/internal/templating"
)

func tokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "List the template tokens and the variables they resolve to",
		RunE:  runTokens,
	}

	cmd.Flags().StringP("vocabulary", "v", "", "Only this vocabulary (snake, dotted, legacy, message)")
	cmd.Flags().Bool("all", false, "Include tokens without a description")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine(cmd)
	if err != nil {
		return err
	}

	vocab, _ := cmd.Flags().GetString("vocabulary")
	all, _ := cmd.Flags().GetBool("all")

	var rows []templating.Alias
	if all {
		for _, a := range engine.Aliases() {
			if vocab == "" || a.Vocabulary == templating.Vocabulary(vocab) {
				rows = append(rows, a)
			}
		}
	} else {
		rows = engine.Documented(templating.Vocabulary(vocab))
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOKEN\tVARIABLE\tVOCABULARY\tDESCRIPTION")
	for _, a := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Token, a.Variable, a.Vocabulary, a.Description)
	}
	return w.Flush()
}

// loadEngine builds the default engine, extended by --aliases when set.
func loadEngine(cmd *cobra.Command) (*templating.Engine, error) {
	engine := templating.Default()

	path, _ := cmd.Flags().GetString("aliases")
	if path == "" {
		return engine, nil
	}
	extra, err := templating.LoadAliases(path)
	if err != nil {
		return nil, err
	}
	return engine.With(extra)
}
