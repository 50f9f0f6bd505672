package domain

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

// Form field names accepted by Draft.Set.
const (
	FieldTitle      = "title"
	FieldGoal       = "goal"
	FieldHypothesis = "hypothesis"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldEquipment  = "equipment"
	FieldBudget     = "budget"
)

// DraftFields lists the scalar form fields in display order.
var DraftFields = []string{
	FieldTitle, FieldGoal, FieldHypothesis, FieldStartDate, FieldEndDate, FieldEquipment, FieldBudget,
}

// Draft is the state of the new-experiment form.
type Draft struct {
	Title      string
	Goal       string
	Hypothesis string
	StartDate  string
	EndDate    string
	Equipment  string
	Budget     string
	Files      []StagedFile
}

// Set updates a single field by its form name.
func (d *Draft) Set(name, value string) error {
	switch name {
	case FieldTitle:
		d.Title = value
	case FieldGoal:
		d.Goal = value
	case FieldHypothesis:
		d.Hypothesis = value
	case FieldStartDate:
		d.StartDate = value
	case FieldEndDate:
		d.EndDate = value
	case FieldEquipment:
		d.Equipment = value
	case FieldBudget:
		d.Budget = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Get reads a field by its form name. Unknown names read as empty.
func (d *Draft) Get(name string) string {
	switch name {
	case FieldTitle:
		return d.Title
	case FieldGoal:
		return d.Goal
	case FieldHypothesis:
		return d.Hypothesis
	case FieldStartDate:
		return d.StartDate
	case FieldEndDate:
		return d.EndDate
	case FieldEquipment:
		return d.Equipment
	case FieldBudget:
		return d.Budget
	}
	return ""
}

func (d *Draft) AddFiles(files ...StagedFile) {
	d.Files = append(d.Files, files...)
}

// RemoveFile drops the staged file at index i.
func (d *Draft) RemoveFile(i int) bool {
	if i < 0 || i >= len(d.Files) {
		return false
	}
	d.Files = append(d.Files[:i:i], d.Files[i+1:]...)
	return true
}

// Validate checks the fields the form marks as required.
func (d *Draft) Validate() error {
	for _, f := range []string{FieldTitle, FieldGoal, FieldHypothesis} {
		if strings.TrimSpace(d.Get(f)) == "" {
			return fmt.Errorf("%w: %s", ErrRequiredField, f)
		}
	}
	return nil
}

// Experiment builds the record to persist from the draft. Files[i] of the
// result is the stored name of d.Files[i]; repeated names get a numeric
// suffix so every attachment keeps its own file.
func (d *Draft) Experiment(id string, now time.Time) *Experiment {
	names := make([]string, 0, len(d.Files))
	for _, f := range d.Files {
		names = append(names, f.Name)
	}
	names = UniqueNames(names)
	return &Experiment{
		ID:           id,
		Title:        strings.TrimSpace(d.Title),
		Goal:         strings.TrimSpace(d.Goal),
		Hypothesis:   strings.TrimSpace(d.Hypothesis),
		Timeline:     timeline(d.StartDate, d.EndDate),
		Equipment:    strings.TrimSpace(d.Equipment),
		Budget:       strings.TrimSpace(d.Budget),
		Status:       StatusInProgress,
		LastModified: now.Format(LastModifiedLayout),
		Files:        names,
		CreatedAt:    now,
	}
}

// UniqueNames renames repeats in order: the second "data.csv" becomes
// "data-1.csv", the third "data-2.csv", skipping names already taken.
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if !seen[n] {
			seen[n] = true
			out[i] = n
			continue
		}
		ext := path.Ext(n)
		base := strings.TrimSuffix(n, ext)
		for k := 1; ; k++ {
			candidate := base + "-" + strconv.Itoa(k) + ext
			if !taken[candidate] {
				taken[candidate] = true
				seen[candidate] = true
				out[i] = candidate
				break
			}
		}
	}
	return out
}

func timeline(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start
	case start == "":
		return end
	}
	return start + " - " + end
}
