package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"symptom-checker/internal/catalog"
	"symptom-checker/internal/scoring"
)

func scoreCmd() *cobra.Command {
	var (
		condition   string
		symptoms    []string
		riskFactors []string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a symptom selection without starting the server",
		Example: `  symptom-checker score -d coronaryheartdisease -s "Chest pain" -s "Fatigue"
  symptom-checker score -d livercirrhosis -s Jaundice,Nausea -r "Alcohol abuse"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			engine := scoring.NewEngine(cat)

			id := catalog.ConditionKey(condition)
			res, err := engine.Score(id, symptoms, riskFactors)
			if err != nil {
				return fmt.Errorf("%w (known: %s)", err, joinKeys(cat.Keys()))
			}
			cond, _ := cat.Get(id)
			printResult(cmd.OutOrStdout(), cond, res, engine.Recommendations(res.Risk, id))
			return nil
		},
	}

	cmd.Flags().StringVarP(&condition, "condition", "d", "", "condition id")
	cmd.Flags().StringSliceVarP(&symptoms, "symptom", "s", nil, "selected symptom (repeatable)")
	cmd.Flags().StringSliceVarP(&riskFactors, "risk-factor", "r", nil, "present risk factor (repeatable)")
	_ = cmd.MarkFlagRequired("condition")

	return cmd
}

func conditionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conditions",
		Short: "List the condition catalog",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, c := range catalog.Default().All() {
				fmt.Fprintf(w, "%s %s\n", color.CyanString("%-22s", c.ID), c.Name)
				fmt.Fprintf(w, "  %s\n", color.HiBlackString(c.Description))
				fmt.Fprintf(w, "  symptoms: %s\n", strings.Join(c.Symptoms, ", "))
				fmt.Fprintf(w, "  risk factors: %s\n", strings.Join(c.RiskFactors, ", "))
			}
		},
	}
}

func printResult(w io.Writer, cond catalog.Condition, res scoring.Result, recs []string) {
	fmt.Fprintln(w, color.CyanString(cond.Name))
	fmt.Fprintf(w, "  Score:        %d%% (%d of %d symptoms)\n", res.Score, res.Matches, res.TotalSymptoms)
	fmt.Fprintf(w, "  Risk factors: %d%%\n", res.RiskFactorScore)
	fmt.Fprintf(w, "  Risk:         %s\n", riskColor(res.Risk))
	fmt.Fprintln(w, "  Recommendations:")
	for _, r := range recs {
		fmt.Fprintf(w, "    - %s\n", r)
	}
}

func riskColor(r scoring.RiskLevel) string {
	switch r {
	case scoring.RiskHigh:
		return color.RedString(string(r))
	case scoring.RiskModerate:
		return color.YellowString(string(r))
	default:
		return color.GreenString(string(r))
	}
}

func joinKeys(keys []catalog.ConditionKey) string {
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = string(k)
	}
	return strings.Join(s, ", ")
}
