package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	ierrors "github.com/imaginify-dev/imaginify/internal/errors"
	"github.com/imaginify-dev/imaginify/pkg/merge"
)

func mergeCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "merge <base> <overlay>",
		Short: "Deep merge two JSON or YAML documents",
		Long: `Deep merge overlay into base and print the result.

Nested objects merge recursively. When both documents set the same
leaf, the value from base wins. Files ending in .yaml or .yml are read
as YAML; anything else is read as JSON. Use "-" to read one of them
from stdin.

Examples:
  imaginify merge current.json defaults.json
  imaginify merge --yaml user.yaml defaults.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" && args[1] == "-" {
				return ierrors.New("E190").
					WithDetail("Only one of base and overlay can be read from stdin.").
					WithExample("imaginify merge - defaults.json")
			}
			base, err := readDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			overlay, err := readDocument(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), merge.Deep(base, overlay), asYAML)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the result as YAML")

	return cmd
}

// readDocument reads a top-level object from path, or from stdin for "-".
func readDocument(stdin io.Reader, path string) (merge.Map, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, ierrors.New("E190").WithDetail(err.Error()).Wrap(err)
	}

	var m merge.Map
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, ierrors.New("E121").WithDetail(path + ": " + err.Error()).Wrap(err)
	}
	if m == nil {
		m = merge.Map{}
	}
	return m, nil
}

func writeDocument(w io.Writer, m merge.Map, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
