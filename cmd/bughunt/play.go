package main

import (
	"github.com/metalagman/bughunt/internal/tui"
	"github.com/spf13/cobra"
)

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, closeFn, err := openSession()
			if err != nil {
				return err
			}
			defer closeFn()
			return tui.Run(cmd.Context(), sess)
		},
	}
}
