package main

import (
	"github.com/spf13/cobra"

	"github.com/imaginify-dev/imaginify/pkg/download"
)

func downloadCmd(g *globalFlags) *cobra.Command {
	var (
		dir    string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "download <url> [name]",
		Short: "Download an image",
		Long: `Download an image into the download directory.

The file is saved as name with its first space replaced by "_" and
".png" appended. Without a name the URL's last path segment is used.
Failures are logged and ignored unless --strict is set.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.DownloadPath()
			}

			var name string
			if len(args) == 2 {
				name = args[1]
			}

			client := download.NewClient(
				download.WithTimeout(cfg.DownloadTimeout()),
				download.WithAllowedHosts(cfg.Download.AllowedHosts...),
				download.WithLogger(newLogger(cfg)),
			)

			if !strict {
				return client.Save(cmd.Context(), args[0], name, dir)
			}
			dest, err := client.Fetch(cmd.Context(), args[0], name, dir)
			if err != nil {
				return err
			}
			success(cmd, "Saved %s", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to save into (default from imaginify.json)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of logging when the download fails")

	return cmd
}
