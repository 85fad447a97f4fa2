package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/imaginify-dev/imaginify/pkg/transform"
)

func transformCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Inspect transformation types and build their configs",
	}
	cmd.AddCommand(transformListCmd(), transformConfigCmd(g))
	return cmd
}

func transformListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the transformation types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, info := range transform.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Type, info.Title, info.SubTitle)
			}
			tw.Flush()
		},
	}
}

func transformConfigCmd(g *globalFlags) *cobra.Command {
	var (
		in       transform.Input
		publicID string
		title    string
		width    int
		height   int
	)

	cmd := &cobra.Command{
		Use:   "config <type>",
		Short: "Build the config and delivery URL for a transformation",
		Long: `Merge the form choices over the type's default config and print it.

When --public-id is set and a Cloudinary cloud name is configured, the
delivery URL is printed too, followed by the image card summary.

Examples:
  imaginify transform config restore --public-id=samples/dog
  imaginify transform config recolor --prompt=shirt --color=#FF0000
  imaginify transform config fill --aspect-ratio=9:16`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := transform.Type(args[0])
			cfg, err := transform.BuildConfig(t, in, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(cfg); err != nil {
				return err
			}

			if publicID == "" {
				return nil
			}
			settings, err := g.load()
			if err != nil {
				return err
			}
			if cloud := settings.Cloudinary.CloudName; cloud != "" {
				fmt.Fprintln(out, transform.DeliveryURL(cloud, publicID, cfg, in.AspectRatio))
			}

			card := transform.NewCard(&transform.Image{
				Title:              title,
				PublicID:           publicID,
				TransformationType: t,
				Width:              width,
				Height:             height,
				Config:             cfg,
				AspectRatio:        in.AspectRatio,
				Prompt:             in.Prompt,
				Color:              in.Color,
			})
			for _, row := range card.Rows() {
				fmt.Fprintf(out, "%s: %s\n", row.Label, row.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Prompt, "prompt", "", "Object to remove or recolor")
	cmd.Flags().StringVar(&in.Color, "color", "", "Replacement color for recolor")
	cmd.Flags().StringVar(&in.AspectRatio, "aspect-ratio", "", "Target aspect ratio for fill (1:1, 3:4, 9:16)")
	cmd.Flags().StringVar(&publicID, "public-id", "", "Cloudinary public ID of the source image")
	cmd.Flags().StringVar(&title, "title", "", "Image title for the summary")
	cmd.Flags().IntVar(&width, "width", 0, "Source image width")
	cmd.Flags().IntVar(&height, "height", 0, "Source image height")

	return cmd
}
