package main

import (
	"fmt"

	"backlinks/internal/config"

	"github.com/spf13/cobra"
)

func rulesCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Lists the active classification rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClassifier(cfg)
			if err != nil {
				return err
			}
			for i, name := range c.Rules() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, name)
			}

			return nil
		},
	}
}
