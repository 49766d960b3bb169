package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wayfarer-labs/itinerary-planner/internal/planner/model"
	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a single trip from the command line",
	Long: `Asks for any field not given as a flag, requests an itinerary and prints it.
Output is rendered as markdown when stdout is a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readPlanInput(cmd, bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), appCfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.runner.Invoke(cmd.Context(), in)
		if err != nil {
			return err
		}

		out := res.Itinerary
		if isTerminal(cmd.OutOrStdout()) {
			out = renderMarkdown(out)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)

		if res.Usage != nil {
			logx.Info().
				Str("session_id", res.SessionID).
				Int("total_tokens", res.Usage.TotalTokens).
				Float64("total_cost_usd", res.Usage.TotalCostUSD).
				Msg("Itinerary usage")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().String("city", "", "Destination city")
	planCmd.Flags().String("interests", "", "Comma-separated interests, e.g. \"museums, food\"")
	planCmd.Flags().String("details", "", "Additional details such as number of days or budget")
}

// readPlanInput takes each field from its flag, or prompts on r when the
// flag was not set. Details may be left blank.
func readPlanInput(cmd *cobra.Command, r *bufio.Reader, w io.Writer) (model.PlanInput, error) {
	var in model.PlanInput
	fields := []struct {
		flag   string
		prompt string
		dst    *string
	}{
		{"city", "Enter the city for your trip", &in.City},
		{"interests", "Enter your interests (comma-separated)", &in.Interests},
		{"details", "Enter additional details (e.g., number of days, budget)", &in.AdditionalDetails},
	}

	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			*f.dst, _ = cmd.Flags().GetString(f.flag)
			continue
		}
		fmt.Fprintf(w, "%s: ", f.prompt)
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return in, fmt.Errorf("read %s: %w", f.flag, err)
		}
		*f.dst = strings.TrimRight(line, "\r\n")
	}
	return in, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderMarkdown falls back to the raw text if glamour cannot render it.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
