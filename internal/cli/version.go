package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coBecT/MtsTrueTech/internal/domain"
	"github.com/coBecT/MtsTrueTech/internal/util"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Manage experiment versions",
	Long: `Record versions of an experiment with typed parameters.

Numeric parameters are checked against the critical ranges
(Temperature 10-40, Pressure 900-1100, pH 5-9, Sequence Length 50-5000).`,
}

var versionCreateCmd = &cobra.Command{
	Use:   "create <experiment-id> <name>",
	Short: "Create a version of an experiment",
	Long: `Create a draft version of an experiment.

Examples:
  labtrack version create 1 baseline --param Temperature=25:float:°C --param Runs=3:int`,
	Args: cobra.ExactArgs(2),
	RunE: runVersionCreate,
}

var versionForkCmd = &cobra.Command{
	Use:   "fork <version-id> <name>",
	Short: "Fork a version, copying its parameters",
	Args:  cobra.ExactArgs(2),
	RunE:  runVersionFork,
}

var versionStatusCmd = &cobra.Command{
	Use:   "status <version-id> <draft|active|completed|archived>",
	Short: "Change the status of a version",
	Args:  cobra.ExactArgs(2),
	RunE:  runVersionStatus,
}

var versionListCmd = &cobra.Command{
	Use:   "list <experiment-id>",
	Short: "List versions of an experiment with parameter medians",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersionList,
}

// Flags
var (
	verDescription string
	verParams      []string
	verChangeLog   string
)

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.AddCommand(versionCreateCmd)
	versionCmd.AddCommand(versionForkCmd)
	versionCmd.AddCommand(versionStatusCmd)
	versionCmd.AddCommand(versionListCmd)

	versionCreateCmd.Flags().StringVarP(&verDescription, "description", "d", "", "Description of the version")
	versionCreateCmd.Flags().StringArrayVarP(&verParams, "param", "P", nil, "Parameter NAME=VALUE[:TYPE[:UNIT]] (repeatable)")
	versionForkCmd.Flags().StringVarP(&verChangeLog, "change-log", "c", "", "What changed from the parent")
}

func runVersionCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := requirePersistent("version create"); err != nil {
		return err
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	exp, err := app.Experiments.GetByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get experiment: %w", err)
	}
	if exp == nil {
		return fmt.Errorf("experiment %q not found", args[0])
	}

	v, err := domain.NewVersion(uuid.New().String(), exp.ID, args[1], verDescription, time.Now())
	if err != nil {
		return err
	}
	for _, raw := range verParams {
		p, err := parseParamFlag(raw)
		if err != nil {
			return err
		}
		if err := v.AddParameter(p); err != nil {
			return err
		}
	}

	v.Number, err = app.Versions.NextNumber(ctx, exp.ID)
	if err != nil {
		return fmt.Errorf("failed to number version: %w", err)
	}
	return saveVersion(cmd, app, v)
}

func runVersionFork(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := requirePersistent("version fork"); err != nil {
		return err
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	parent, err := app.Versions.GetByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}
	if parent == nil {
		return fmt.Errorf("version %q not found", args[0])
	}

	child, err := parent.Fork(uuid.New().String(), args[1], verChangeLog, time.Now())
	if err != nil {
		return err
	}
	return saveVersion(cmd, app, child)
}

func saveVersion(cmd *cobra.Command, app *AppContext, v *domain.ExperimentVersion) error {
	ctx := cmd.Context()
	if err := app.Versions.Create(ctx, v); err != nil {
		return fmt.Errorf("failed to create version: %w", err)
	}

	alerts := domain.CheckParameters(v.Parameters, domain.DefaultCriticalRules)
	app.Metrics.VersionCreated(ctx, v.ExperimentID, len(alerts))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created version %d (%s): %s\n", v.Number, v.Name, v.ID)
	for _, a := range alerts {
		fmt.Fprintf(out, "warning: %s = %s: %s\n", a.Parameter, a.Value, a.Message)
	}
	return nil
}

func runVersionStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	status, err := domain.ParseVersionStatus(args[1])
	if err != nil {
		return err
	}

	if err := requirePersistent("version status"); err != nil {
		return err
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	if err := app.Versions.UpdateStatus(ctx, args[0], status); err != nil {
		return fmt.Errorf("failed to update version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Version %s is now %s\n", args[0], status)
	return nil
}

func runVersionList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	versions, err := app.Versions.ListByExperiment(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to list versions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(versions) == 0 {
		fmt.Fprintln(out, "No versions found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSTATUS\tPARAMS\tCREATED\tID")
	fmt.Fprintln(w, "-\t----\t------\t------\t-------\t--")
	for _, v := range versions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			v.Number, truncate(v.Name, 32), v.Status, len(v.Parameters), util.FormatDateTime(v.CreatedAt.Local()), v.ID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	medians := domain.ParameterMedians(versions)
	if len(medians) == 0 {
		return nil
	}
	names := make([]string, 0, len(medians))
	for name := range medians {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "\nMedians:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %s\n", name, util.FormatFloat(medians[name]))
	}
	return nil
}
