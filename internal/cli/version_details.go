package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/util"
)

var versionShowCmd = &cobra.Command{
	Use:   "show <version-id>",
	Short: "Show a version with its files, results and metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionShow,
}

var versionAddFileCmd = &cobra.Command{
	Use:   "add-file <version-id> <path-or-url>",
	Short: "Attach a file reference to a version",
	Long: `Attach a file reference to a version.

Local files are hashed (SHA-256) and must be non-empty and at most 100 MB.
http, https and ftp references are stored without a hash.

Examples:
  labtrack version add-file 3f2a... data/runs.xlsx --source excel --type dataset
  labtrack version add-file 3f2a... https://example.org/model.bin --source cloud --type model`,
	Args: cobra.ExactArgs(2),
	RunE: runVersionAddFile,
}

var versionAddResultCmd = &cobra.Command{
	Use:     "add-result <version-id> <json-object>",
	Short:   "Record a result for a version",
	Example: `  labtrack version add-result 3f2a... '{"yield": 0.82}' --metrics "yield"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runVersionAddResult,
}

var versionSetMetaCmd = &cobra.Command{
	Use:   "set-meta <version-id> <key> <value>",
	Short: "Set a metadata value on a version",
	Args:  cobra.ExactArgs(3),
	RunE:  runVersionSetMeta,
}

var (
	verSource   string
	verFileType string
	verMetrics  string
)

func init() {
	versionCmd.AddCommand(versionShowCmd)
	versionCmd.AddCommand(versionAddFileCmd)
	versionCmd.AddCommand(versionAddResultCmd)
	versionCmd.AddCommand(versionSetMetaCmd)

	versionAddFileCmd.Flags().StringVarP(&verSource, "source", "s", "", "Source type: excel, sql, cloud or api (required)")
	versionAddFileCmd.Flags().StringVarP(&verFileType, "type", "t", "", "File type: dataset, model, config or other")
	_ = versionAddFileCmd.MarkFlagRequired("source")
	versionAddResultCmd.Flags().StringVarP(&verMetrics, "metrics", "m", "", "Metric names or summary")
}

func runVersionShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	v, err := app.Versions.GetByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}
	if v == nil {
		return fmt.Errorf("version %q not found", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "v%d %s [%s]\n", v.Number, v.Name, v.Status)
	if v.ChangeLog != "" {
		fmt.Fprintf(out, "Change log: %s\n", v.ChangeLog)
	}
	for _, p := range v.Parameters {
		fmt.Fprintf(out, "  %s = %s%s (%s)\n", p.Name, p.Value, p.Unit, p.Type)
	}

	if len(v.Files) > 0 {
		fmt.Fprintln(out, "\nFiles:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, f := range v.Files {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				f.SourceType, valueOrDash(string(f.FileType)), f.PathOrURL, util.FormatBytes(f.Size), valueOrDash(truncate(f.Hash, 12)))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(v.Results) > 0 {
		fmt.Fprintln(out, "\nResults:")
		for _, r := range v.Results {
			fmt.Fprintf(out, "  %s %s", util.FormatDateTime(r.CreatedAt.Local()), r.Data)
			if r.Metrics != "" {
				fmt.Fprintf(out, " (%s)", r.Metrics)
			}
			fmt.Fprintln(out)
		}
	}

	if len(v.Metadata) > 0 {
		keys := make([]string, 0, len(v.Metadata))
		for k := range v.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(out, "\nMetadata:")
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %s\n", k, v.Metadata[k])
		}
	}
	return nil
}

func runVersionAddFile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	source, err := domain.ParseSourceType(verSource)
	if err != nil {
		return err
	}
	fileType, err := domain.ParseFileType(verFileType)
	if err != nil {
		return err
	}
	f, err := domain.NewFileReference(uuid.New().String(), args[0], source, args[1], fileType, time.Now())
	if err != nil {
		return err
	}
	if !domain.IsRemote(f.PathOrURL) {
		if err := digestFile(f); err != nil {
			return err
		}
	}

	if err := requirePersistent("version add-file"); err != nil {
		return err
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	if err := app.Versions.AddFile(ctx, f); err != nil {
		return fmt.Errorf("failed to add file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s to version %s\n", f.PathOrURL, f.VersionID)
	return nil
}

func digestFile(f *domain.FileReference) error {
	fh, err := os.Open(f.PathOrURL)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.PathOrURL, err)
	}
	defer fh.Close()
	return f.Digest(fh)
}

func runVersionAddResult(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	res, err := domain.NewResult(uuid.New().String(), args[0], []byte(args[1]), verMetrics, time.Now())
	if err != nil {
		return err
	}

	if err := requirePersistent("version add-result"); err != nil {
		return err
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	if err := app.Versions.AddResult(ctx, res); err != nil {
		return fmt.Errorf("failed to add result: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded result for version %s\n", res.VersionID)
	return nil
}

func runVersionSetMeta(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if strings.TrimSpace(args[1]) == "" {
		return fmt.Errorf("%w: metadata key is required", domain.ErrInvalidParameter)
	}
	if err := requirePersistent("version set-meta"); err != nil {
		return err
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	if err := app.Versions.SetMetadata(ctx, args[0], args[1], args[2]); err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s on version %s\n", args[1], args[0])
	return nil
}
