package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hipaaguard/hipaaguard/internal/config"
	"github.com/hipaaguard/hipaaguard/internal/policy"
	"github.com/hipaaguard/hipaaguard/internal/policy/hipaa"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule library after applying the policy overlay.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOptionalDB()
		if err != nil {
			return err
		}
		library, err := buildLibrary(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range library.Rules() {
			fmt.Fprintf(out, "%-40s %-8s %-24s %s\n", r.ID, r.Severity, r.Citation, r.Title)
		}
		fmt.Fprintf(out, "\n%d rules\n", library.Len())
		return nil
	},
}

// buildLibrary assembles the HIPAA rule library with the deployment's policy
// overlay applied.
func buildLibrary(cfg config.Config) (*policy.Library, error) {
	overlay, err := policy.LoadOverlay(cfg.PolicyOverlayPath)
	if err != nil {
		return nil, err
	}
	return hipaa.Library().Apply(overlay)
}
