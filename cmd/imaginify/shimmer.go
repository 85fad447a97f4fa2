package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	ierrors "github.com/imaginify-dev/imaginify/internal/errors"
	"github.com/imaginify-dev/imaginify/pkg/shimmer"
)

func shimmerCmd() *cobra.Command {
	var dataURL bool

	cmd := &cobra.Command{
		Use:   "shimmer [width] [height]",
		Short: "Print a shimmer placeholder SVG",
		Long: `Print the animated shimmer SVG used as an image placeholder.

Without dimensions the default 1000x1000 placeholder is printed.
--data-url prints the base64 data URL instead of the SVG markup.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h := shimmer.DefaultSize, shimmer.DefaultSize
			switch len(args) {
			case 1:
				return ierrors.New("E120").WithExample("imaginify shimmer 700 475")
			case 2:
				var werr, herr error
				w, werr = strconv.Atoi(args[0])
				h, herr = strconv.Atoi(args[1])
				if werr != nil || herr != nil || w <= 0 || h <= 0 {
					return ierrors.New("E120").WithExample("imaginify shimmer 700 475")
				}
			}

			if dataURL {
				fmt.Fprintln(cmd.OutOrStdout(), shimmer.DataURL(w, h))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), shimmer.SVG(w, h))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dataURL, "data-url", false, "Print a data:image/svg+xml;base64 URL")

	return cmd
}
