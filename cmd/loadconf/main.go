package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ygrebnov/loadconf"
	"github.com/ygrebnov/loadconf/fsutil"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "loadconf",
		Short:        "Inspect configuration files the way loadconf reads them",
		SilenceUsage: true,
	}
	root.AddCommand(newFormatsCmd(), newShowCmd(), newCopyCmd())
	return root
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported formats, their file extension and accepted aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printFormats(cmd.OutOrStdout())
		},
	}
}

func printFormats(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXTENSION\tALIASES")
	for _, f := range loadconf.Formats() {
		aliases := make([]string, 0, len(f.Aliases()))
		for _, a := range f.Aliases() {
			aliases = append(aliases, fmt.Sprintf("%q", a))
		}
		fmt.Fprintf(tw, "%s\t%s\n", f.Extension(), strings.Join(aliases, ", "))
	}
	return tw.Flush()
}

type showOptions struct {
	dir    string
	name   string
	ext    string
	output string
}

func newShowCmd() *cobra.Command {
	o := &showOptions{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Load a config file and print its content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd.OutOrStdout(), o)
		},
	}
	cmd.Flags().StringVarP(&o.dir, "dir", "d", ".", "directory holding the config file")
	cmd.Flags().StringVarP(&o.name, "name", "n", "", "config file name without extension")
	cmd.Flags().StringVarP(&o.ext, "ext", "e", "yml", "extension token naming the format")
	cmd.Flags().StringVarP(&o.output, "output", "o", "yaml", "output encoding: yaml or json")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runShow(w io.Writer, o *showOptions) error {
	if o.output != "yaml" && o.output != "json" {
		return fmt.Errorf("unsupported output %q (must be 'yaml' or 'json')", o.output)
	}
	cfg, err := loadconf.Load[map[string]any](o.dir, o.name, o.ext)
	if err != nil {
		return err
	}
	if o.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(*cfg)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(*cfg); err != nil {
		return err
	}
	return enc.Close()
}

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy SRC DST",
		Short: "Recursively copy a directory tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fsutil.CopyDir(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %s to %s\n", args[0], args[1])
			return nil
		},
	}
}
