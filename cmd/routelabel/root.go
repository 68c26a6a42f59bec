package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:   "routelabel",
		Short: "Label dashcam route frames with model suggestions",
		Long: "routelabel walks a tree of extracted dashcam routes, scores every frame with a\n" +
			"classification model and lets a reviewer file each frame into a label folder.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(
		newReviewCommand(ctx),
		newRoutesCommand(ctx),
		newStatsCommand(ctx),
		newCheckCommand(ctx),
		newConfigCommand(ctx),
	)
	return rootCmd
}
