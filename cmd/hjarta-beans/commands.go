package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	hjarta "github.com/0xalexb/hjarta-beans"
	"github.com/0xalexb/hjarta-beans/beans"
	"github.com/0xalexb/hjarta-beans/blob"
	"github.com/0xalexb/hjarta-beans/blob/minio"
	"github.com/0xalexb/hjarta-beans/config"
	filefetcher "github.com/0xalexb/hjarta-beans/config/fetcher/file"
	propertiesparser "github.com/0xalexb/hjarta-beans/config/parser/properties"
	yamlparser "github.com/0xalexb/hjarta-beans/config/parser/yaml"
	"github.com/0xalexb/hjarta-beans/logging"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	errUnknownFormat = errors.New("unknown property format")
	errUnknownOutput = errors.New("unknown output format")
)

type resolveFlags struct {
	file      string
	format    string
	path      string
	namespace string
	failFast  bool
	output    string
	logLevel  string
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "hjarta-beans",
		Short: "Resolve and inspect property-driven beans",
		Long: `hjarta-beans reads bean definitions from a YAML or .properties file,
resolves them against the built-in type catalog and reports each bean's state.`,
		SilenceUsage: true,
	}

	root.AddCommand(newResolveCommand(), newVersionCommand())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "hjarta-beans %s (framework %s)\n", hjarta.Version, hjarta.FrameworkVersion)
			fmt.Fprintf(out, "Compiled at: %s\n", hjarta.CompiledAt)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newResolveCommand() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve every bean in a property file",
		Long: `Resolve loads the properties, builds every bean below <namespace>.beans and prints
one row per bean. The command fails when any bean could not be resolved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", `property file, "-" reads standard input`)
	cmd.Flags().StringVar(&flags.format, "format", "", "yaml or properties, detected from the file extension when empty")
	cmd.Flags().StringVar(&flags.path, "path", "", `location of the properties inside the file, e.g. "properties"`)
	cmd.Flags().StringVar(&flags.namespace, "namespace", beans.DefaultNamespace, "key namespace, beans live below <namespace>.beans")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "stop at the first failed bean")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "table", "table or json")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "warn", "debug, info, warn or error")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runResolve(cmd *cobra.Command, flags resolveFlags) error {
	settings := beans.Settings{Namespace: flags.namespace, FailFast: flags.failFast}

	err := settings.Validate()
	if err != nil {
		return err //nolint:wrapcheck
	}

	props, err := loadProperties(cmd, flags)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(logging.LoggerConfig{Level: flags.logLevel}, cmd.ErrOrStderr())

	catalog := beans.NewCatalog()
	blob.RegisterTypes(catalog)
	minio.RegisterTypes(catalog)

	registry := beans.NewRegistry(
		beans.WithCatalog(catalog),
		beans.WithLogger(logger),
		beans.FailFast(settings.FailFast),
	)

	resolveErr := registry.ResolveAll(beans.Descriptors(beans.NewStore(props...), settings.Prefix()))

	defer func() {
		closeErr := registry.Close(context.Background())
		if closeErr != nil {
			logger.Warn("closing beans", "error", closeErr)
		}
	}()

	err = printEntries(cmd.OutOrStdout(), flags.output, registry.Entries())
	if err != nil {
		return err
	}

	return resolveErr //nolint:wrapcheck
}

func loadProperties(cmd *cobra.Command, flags resolveFlags) (config.Properties, error) {
	var (
		fetcher *filefetcher.Fetcher
		err     error
	)

	if flags.file == filefetcher.StdinPath {
		fetcher, err = filefetcher.FromReader("stdin", cmd.InOrStdin())
	} else {
		fetcher, err = filefetcher.NewFetcher(flags.file)()
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	format := flags.format
	if format == "" {
		format = fetcher.Ext()
	}

	var parser config.PropertiesParser

	switch format {
	case "yaml", "yml":
		parser = yamlparser.NewParser()
	case "properties":
		parser = propertiesparser.NewParser()
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	data, err := fetcher.Fetch()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	props, err := parser.ParseProperties(data, flags.path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fetcher.Source(), err)
	}

	return props, nil
}

type entryRow struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Type  string `json:"type,omitempty"`
	Error string `json:"error,omitempty"`
}

func printEntries(out io.Writer, output string, entries []beans.Entry) error {
	rows := make([]entryRow, 0, len(entries))

	for _, entry := range entries {
		row := entryRow{Name: entry.Name, State: entry.State.String(), Type: entry.Type}
		if entry.Err != nil {
			row.Error = entry.Err.Error()
		}

		rows = append(rows, row)
	}

	switch output {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(rows) //nolint:wrapcheck
	case "table":
		writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(writer, "NAME\tSTATE\tTYPE\tERROR")

		for _, row := range rows {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", row.Name, row.State, row.Type, row.Error)
		}

		return writer.Flush() //nolint:wrapcheck
	default:
		return fmt.Errorf("%w: %q", errUnknownOutput, output)
	}
}
