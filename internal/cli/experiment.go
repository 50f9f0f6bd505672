package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Manage experiments",
	Long:  `List, search, inspect, compare and create experiments.`,
}

var experimentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List experiments",
	Long: `List experiments, optionally filtered by a case-insensitive search on
title and goal.

Examples:
  labtrack experiment list
  labtrack experiment list --query polymer`,
	Args: cobra.NoArgs,
	RunE: runExperimentList,
}

var experimentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one experiment",
	Args:  cobra.ExactArgs(1),
	RunE:  runExperimentShow,
}

var experimentCompareCmd = &cobra.Command{
	Use:   "compare <id1> <id2>",
	Short: "Compare two experiments side by side",
	Long: `Compare two experiments section by section.

Examples:
  labtrack experiment compare 1 2
  labtrack experiment compare 1 2 --sections basic,resources`,
	Args: cobra.ExactArgs(domain.MaxCompared),
	RunE: runExperimentCompare,
}

var experimentCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new experiment",
	Long: `Create a new experiment, attaching local files.

Examples:
  labtrack experiment create "Catalyst screening" --goal "Find the best catalyst" \
    --hypothesis "Pd beats Ni" --start 2024-05-01 --end 2024-06-01 --file results.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExperimentCreate,
}

// Flags
var (
	expQuery      string
	expSections   string
	expGoal       string
	expHypothesis string
	expStart      string
	expEnd        string
	expEquipment  string
	expBudget     string
	expFiles      []string
)

func init() {
	rootCmd.AddCommand(experimentCmd)

	experimentCmd.AddCommand(experimentListCmd)
	experimentCmd.AddCommand(experimentShowCmd)
	experimentCmd.AddCommand(experimentCompareCmd)
	experimentCmd.AddCommand(experimentCreateCmd)

	experimentListCmd.Flags().StringVarP(&expQuery, "query", "q", "", "Search title and goal")

	experimentCompareCmd.Flags().StringVar(&expSections, "sections", strings.Join(domain.CompareSections, ","), "Sections to show")

	experimentCreateCmd.Flags().StringVarP(&expGoal, "goal", "g", "", "Goal of the experiment (required)")
	experimentCreateCmd.Flags().StringVarP(&expHypothesis, "hypothesis", "H", "", "Hypothesis to test (required)")
	experimentCreateCmd.Flags().StringVar(&expStart, "start", "", "Start date")
	experimentCreateCmd.Flags().StringVar(&expEnd, "end", "", "End date")
	experimentCreateCmd.Flags().StringVar(&expEquipment, "equipment", "", "Equipment used")
	experimentCreateCmd.Flags().StringVar(&expBudget, "budget", "", "Budget")
	experimentCreateCmd.Flags().StringArrayVarP(&expFiles, "file", "f", nil, "File to attach (repeatable)")
}

func runExperimentList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	exps, err := app.Experiments.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list experiments: %w", err)
	}
	exps = domain.FilterExperiments(expQuery, exps)

	out := cmd.OutOrStdout()
	if len(exps) == 0 {
		fmt.Fprintln(out, "No experiments found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tFILES\tLAST MODIFIED")
	fmt.Fprintln(w, "--\t-----\t------\t-----\t-------------")
	for _, e := range exps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			e.ID, truncate(e.Title, 48), e.Status.Label(), len(e.Files), valueOrDash(e.LastModified))
	}
	return w.Flush()
}

func runExperimentShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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
	versions, err := app.Versions.ListByExperiment(ctx, exp.ID)
	if err != nil {
		return fmt.Errorf("failed to list versions: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s [%s]\n\n", exp.Title, exp.Status.Label())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range experimentRows(domain.CompareSections...) {
		fmt.Fprintf(w, "%s:\t%s\n", row.label, valueOrDash(row.value(exp)))
	}
	fmt.Fprintf(w, "Versions:\t%d\n", len(versions))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(exp.Files) > 0 {
		fmt.Fprintln(out, "\nFiles:")
		for _, name := range exp.Files {
			fmt.Fprintf(out, "  %s\n", name)
		}
	}
	return nil
}

func runExperimentCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var sel domain.Selection
	for _, id := range args {
		sel.Toggle(id)
	}
	if sel.State() != domain.Comparing {
		return fmt.Errorf("select two different experiments to compare")
	}

	var sections []string
	for _, name := range domain.ParseIDSet(expSections).IDs() {
		if !domain.IsCompareSection(name) {
			return fmt.Errorf("unknown section %q (valid: %s)", name, strings.Join(domain.CompareSections, ", "))
		}
		sections = append(sections, name)
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	var exps []*domain.Experiment
	for _, id := range sel.IDs() {
		exp, err := app.Experiments.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get experiment: %w", err)
		}
		if exp == nil {
			return fmt.Errorf("experiment %q not found", id)
		}
		exps = append(exps, exp)
	}
	app.Metrics.ComparisonRendered(ctx)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\t%s\t%s\n", truncate(exps[0].Title, 40), truncate(exps[1].Title, 40))
	for _, section := range sections {
		fmt.Fprintf(w, "\n%s\t\t\n", strings.ToUpper(sectionTitles[section]))
		for _, row := range experimentRows(section) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", row.label, valueOrDash(row.value(exps[0])), valueOrDash(row.value(exps[1])))
		}
	}
	return w.Flush()
}

func runExperimentCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	draft := &domain.Draft{}
	fields := map[string]string{
		domain.FieldTitle:      args[0],
		domain.FieldGoal:       expGoal,
		domain.FieldHypothesis: expHypothesis,
		domain.FieldStartDate:  expStart,
		domain.FieldEndDate:    expEnd,
		domain.FieldEquipment:  expEquipment,
		domain.FieldBudget:     expBudget,
	}
	for _, name := range domain.DraftFields {
		if err := draft.Set(name, fields[name]); err != nil {
			return err
		}
	}

	staged, err := readFiles(expFiles)
	if err != nil {
		return err
	}
	var zone domain.DropZone
	draft.AddFiles(zone.Pick(staged)...)

	if err := draft.Validate(); err != nil {
		if errors.Is(err, domain.ErrRequiredField) {
			return fmt.Errorf("%w (use --goal and --hypothesis)", err)
		}
		return err
	}
	if err := requirePersistent("experiment create"); err != nil {
		return err
	}

	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	exp := draft.Experiment(uuid.New().String(), time.Now())
	for i, f := range draft.Files {
		if _, err := app.Files.Store(ctx, exp.ID, exp.Files[i], f.Content); err != nil {
			return fmt.Errorf("failed to store %s: %w", f.Name, err)
		}
	}
	if err := app.Experiments.Create(ctx, exp); err != nil {
		_ = app.Files.Delete(ctx, exp.ID)
		return fmt.Errorf("failed to create experiment: %w", err)
	}
	app.Metrics.ExperimentCreated(ctx, len(exp.Files))

	log.Info().Str("experiment_id", exp.ID).Strs("files", exp.Files).Msg("experiment created")
	fmt.Fprintf(cmd.OutOrStdout(), "Created experiment %s (%d file(s))\n", exp.ID, len(exp.Files))
	return nil
}

// readFiles loads local files into staged form, guessing the media type
// from the extension.
func readFiles(paths []string) ([]domain.StagedFile, error) {
	files := make([]domain.StagedFile, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		mediaType := mime.TypeByExtension(filepath.Ext(p))
		if i := strings.IndexByte(mediaType, ';'); i >= 0 {
			mediaType = mediaType[:i]
		}
		files = append(files, domain.StagedFile{
			Name:      filepath.Base(p),
			MediaType: mediaType,
			Size:      int64(len(content)),
			Content:   content,
		})
	}
	return files, nil
}

var sectionTitles = map[string]string{
	domain.SectionBasic:     "Basic information",
	domain.SectionTimeline:  "Timeline",
	domain.SectionResources: "Resources",
}

type experimentRow struct {
	label string
	value func(*domain.Experiment) string
}

var sectionRows = map[string][]experimentRow{
	domain.SectionBasic: {
		{"Goal", func(e *domain.Experiment) string { return e.Goal }},
		{"Hypothesis", func(e *domain.Experiment) string { return e.Hypothesis }},
		{"Status", func(e *domain.Experiment) string { return e.Status.Label() }},
	},
	domain.SectionTimeline: {
		{"Timeline", func(e *domain.Experiment) string { return e.Timeline }},
		{"Last modified", func(e *domain.Experiment) string { return e.LastModified }},
	},
	domain.SectionResources: {
		{"Equipment", func(e *domain.Experiment) string { return e.Equipment }},
		{"Budget", func(e *domain.Experiment) string { return e.Budget }},
		{"Files", func(e *domain.Experiment) string { return strings.Join(e.Files, ", ") }},
	},
}

func experimentRows(sections ...string) []experimentRow {
	var rows []experimentRow
	for _, s := range sections {
		rows = append(rows, sectionRows[s]...)
	}
	return rows
}
