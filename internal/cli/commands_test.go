package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

// resetFlags restores every flag to its default so runs of the shared
// rootCmd do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LABTRACK_FILES_DIR", t.TempDir())
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func libsqlArgs(t *testing.T) []string {
	t.Helper()
	return []string{"--driver", "libsql", "--database-url", "file:" + filepath.Join(t.TempDir(), "lab.db")}
}

func TestParseParamFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Parameter
		wantErr bool
	}{
		{in: "Catalyst=Pd", want: domain.Parameter{Name: "Catalyst", Value: "Pd", Type: domain.ParamString}},
		{in: "Temperature=25.5:float:°C", want: domain.Parameter{Name: "Temperature", Value: "25.5", Type: domain.ParamFloat, Unit: "°C"}},
		{in: "Runs=3:int", want: domain.Parameter{Name: "Runs", Value: "3", Type: domain.ParamInt}},
		{in: "Sterile=TRUE:bool", want: domain.Parameter{Name: "Sterile", Value: "TRUE", Type: domain.ParamBool}},
		{in: "Runs=three:int", wantErr: true},
		{in: "no-equals", wantErr: true},
		{in: "=5:int", wantErr: true},
		{in: "X=1:complex", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseParamFlag(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidParameter) {
					t.Errorf("expected ErrInvalidParameter, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("Температура реакции", 8); got != "Темпе..." {
		t.Errorf("truncate runes = %q", got)
	}
}

func TestExperimentList(t *testing.T) {
	out, err := run(t, "experiment", "list")
	if err != nil {
		t.Fatalf("experiment list: %v", err)
	}
	for _, want := range []string{"Effect of temperature", "Soil microbiome", "In progress"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "experiment", "list", "--query", "POLYMER")
	if err != nil {
		t.Fatalf("experiment list --query: %v", err)
	}
	if !strings.Contains(out, "Optimizing synthesis") || strings.Contains(out, "Soil microbiome") {
		t.Errorf("unexpected filtered output:\n%s", out)
	}

	out, err = run(t, "experiment", "list", "-q", "nothing-matches")
	if err != nil {
		t.Fatalf("experiment list: %v", err)
	}
	if !strings.Contains(out, "No experiments found") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
}

func TestExperimentShow(t *testing.T) {
	out, err := run(t, "experiment", "show", "1")
	if err != nil {
		t.Fatalf("experiment show: %v", err)
	}
	for _, want := range []string{"Thermostatic bath", "kinetics_raw.xlsx", "Versions:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "experiment", "show", "404"); err == nil {
		t.Error("expected error for unknown experiment")
	}
}

func TestExperimentCompare(t *testing.T) {
	out, err := run(t, "experiment", "compare", "1", "2")
	if err != nil {
		t.Fatalf("experiment compare: %v", err)
	}
	for _, want := range []string{"BASIC INFORMATION", "TIMELINE", "RESOURCES", "Thermostatic bath", "Reactor R-200"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "experiment", "compare", "1", "2", "--sections", "resources")
	if err != nil {
		t.Fatalf("experiment compare --sections: %v", err)
	}
	if strings.Contains(out, "BASIC INFORMATION") || !strings.Contains(out, "RESOURCES") {
		t.Errorf("sections not applied:\n%s", out)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"same id twice", []string{"experiment", "compare", "1", "1"}},
		{"unknown experiment", []string{"experiment", "compare", "1", "404"}},
		{"unknown section", []string{"experiment", "compare", "1", "2", "--sections", "budget"}},
		{"three ids", []string{"experiment", "compare", "1", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExperimentCreate_RequiresFields(t *testing.T) {
	_, err := run(t, "experiment", "create", "Only a title")
	if !errors.Is(err, domain.ErrRequiredField) {
		t.Errorf("expected ErrRequiredField, got %v", err)
	}
}

func TestMutatingCommands_RequireLibsql(t *testing.T) {
	tests := [][]string{
		{"experiment", "create", "Catalyst screening", "--goal", "g", "--hypothesis", "h"},
		{"version", "create", "1", "baseline"},
		{"version", "fork", "some-version", "child"},
		{"version", "status", "some-version", "active"},
		{"version", "add-file", "some-version", "https://example.org/a.csv", "--source", "cloud"},
		{"version", "add-result", "some-version", `{"yield": 1}`},
		{"version", "set-meta", "some-version", "operator", "A"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[:2], " "), func(t *testing.T) {
			files := t.TempDir()
			t.Setenv("LABTRACK_FILES_DIR", files)
			resetFlags(rootCmd)
			t.Cleanup(func() { resetFlags(rootCmd) })

			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(args)
			err := rootCmd.Execute()
			if !errors.Is(err, ErrEphemeralDriver) {
				t.Fatalf("expected ErrEphemeralDriver, got %v", err)
			}

			entries, err := os.ReadDir(files)
			if err != nil {
				t.Fatalf("ReadDir failed: %v", err)
			}
			if len(entries) != 0 {
				t.Errorf("nothing should be written, found %d entries", len(entries))
			}
		})
	}
}

var (
	idPattern      = regexp.MustCompile(`Created experiment (\S+)`)
	versionPattern = regexp.MustCompile(`Created version \d+ \([^)]*\): (\S+)`)
)

func TestExperimentAndVersionLifecycle_Libsql(t *testing.T) {
	db := libsqlArgs(t)

	attachment := filepath.Join(t.TempDir(), "results.csv")
	if err := os.WriteFile(attachment, []byte("t,rate\n20,0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, append([]string{"experiment", "create", "Catalyst screening",
		"--goal", "Find the best catalyst", "--hypothesis", "Pd beats Ni",
		"--start", "2024-05-01", "--end", "2024-06-01", "--file", attachment}, db...)...)
	if err != nil {
		t.Fatalf("experiment create: %v", err)
	}
	m := idPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no id in output:\n%s", out)
	}
	expID := m[1]
	if !strings.Contains(out, "(1 file(s))") {
		t.Errorf("expected one attached file:\n%s", out)
	}

	out, err = run(t, append([]string{"experiment", "show", expID}, db...)...)
	if err != nil {
		t.Fatalf("experiment show: %v", err)
	}
	if !strings.Contains(out, "2024-05-01 - 2024-06-01") || !strings.Contains(out, "results.csv") {
		t.Errorf("unexpected show output:\n%s", out)
	}

	out, err = run(t, append([]string{"version", "create", expID, "baseline",
		"--param", "Temperature=55:float:°C", "--param", "Runs=3:int"}, db...)...)
	if err != nil {
		t.Fatalf("version create: %v", err)
	}
	if !strings.Contains(out, "Created version 1") || !strings.Contains(out, "warning: Temperature") {
		t.Errorf("unexpected version create output:\n%s", out)
	}
	vm := versionPattern.FindStringSubmatch(out)
	if vm == nil {
		t.Fatalf("no version id in output:\n%s", out)
	}
	verID := vm[1]

	out, err = run(t, append([]string{"version", "fork", verID, "cooler", "--change-log", "lower temperature"}, db...)...)
	if err != nil {
		t.Fatalf("version fork: %v", err)
	}
	if !strings.Contains(out, "Created version 2") {
		t.Errorf("unexpected fork output:\n%s", out)
	}

	if _, err := run(t, append([]string{"version", "status", verID, "completed"}, db...)...); err != nil {
		t.Fatalf("version status: %v", err)
	}
	if _, err := run(t, append([]string{"version", "status", verID, "finished"}, db...)...); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := run(t, append([]string{"version", "status", "missing", "active"}, db...)...); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := run(t, append([]string{"version", "add-file", verID, attachment, "--source", "excel", "--type", "dataset"}, db...)...); err != nil {
		t.Fatalf("version add-file: %v", err)
	}
	if _, err := run(t, append([]string{"version", "add-file", verID, attachment, "--source", "excel", "--type", "photo"}, db...)...); !errors.Is(err, domain.ErrInvalidFileReference) {
		t.Errorf("expected ErrInvalidFileReference, got %v", err)
	}
	if _, err := run(t, append([]string{"version", "add-result", verID, `{"rate": 0.1}`, "--metrics", "rate"}, db...)...); err != nil {
		t.Fatalf("version add-result: %v", err)
	}
	if _, err := run(t, append([]string{"version", "add-result", verID, `[]`}, db...)...); !errors.Is(err, domain.ErrInvalidResult) {
		t.Errorf("expected ErrInvalidResult, got %v", err)
	}
	if _, err := run(t, append([]string{"version", "set-meta", verID, "operator", "Ivanova"}, db...)...); err != nil {
		t.Fatalf("version set-meta: %v", err)
	}
	if _, err := run(t, append([]string{"version", "set-meta", "missing", "operator", "x"}, db...)...); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	out, err = run(t, append([]string{"version", "show", verID}, db...)...)
	if err != nil {
		t.Fatalf("version show: %v", err)
	}
	for _, want := range []string{"results.csv", "dataset", "14 B", `{"rate": 0.1}`, "(rate)", "operator: Ivanova"} {
		if !strings.Contains(out, want) {
			t.Errorf("version show missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, append([]string{"version", "list", expID}, db...)...)
	if err != nil {
		t.Fatalf("version list: %v", err)
	}
	for _, want := range []string{"baseline", "cooler", "completed", "Medians:", "Temperature: 55", "Runs: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("version list missing %q:\n%s", want, out)
		}
	}
}

func TestMigrate_Libsql(t *testing.T) {
	db := libsqlArgs(t)

	out, err := run(t, append([]string{"migrate"}, db...)...)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "Current version: 0") || !strings.Contains(out, "Applied 4 migration(s)") {
		t.Errorf("unexpected migrate output:\n%s", out)
	}

	out, err = run(t, append([]string{"migrate", "status"}, db...)...)
	if err != nil {
		t.Fatalf("migrate status: %v", err)
	}
	if !strings.Contains(out, "Current version: 4") || !strings.Contains(out, "Dirty: false") {
		t.Errorf("unexpected status output:\n%s", out)
	}

	out, err = run(t, append([]string{"migrate", "0"}, db...)...)
	if err != nil {
		t.Fatalf("migrate 0: %v", err)
	}
	if !strings.Contains(out, "Migrated to version 0") {
		t.Errorf("unexpected rollback output:\n%s", out)
	}

	if _, err := run(t, "migrate"); err == nil {
		t.Error("expected error with the memory driver")
	}
}
