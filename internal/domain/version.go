package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type VersionStatus string

const (
	VersionDraft     VersionStatus = "draft"
	VersionActive    VersionStatus = "active"
	VersionCompleted VersionStatus = "completed"
	VersionArchived  VersionStatus = "archived"
)

func ParseVersionStatus(s string) (VersionStatus, error) {
	switch v := VersionStatus(s); v {
	case VersionDraft, VersionActive, VersionCompleted, VersionArchived:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q (valid: draft, active, completed, archived)", ErrInvalidStatus, s)
}

type ParamType string

const (
	ParamString ParamType = "string"
	ParamInt    ParamType = "int"
	ParamFloat  ParamType = "float"
	ParamText   ParamType = "text"
	ParamBool   ParamType = "bool"
)

type Parameter struct {
	Name  string    `json:"name"`
	Value string    `json:"value"`
	Type  ParamType `json:"type"`
	Unit  string    `json:"unit,omitempty"`
}

// NewParameter validates name, type and that value parses as type.
func NewParameter(name, value string, typ ParamType, unit string) (Parameter, error) {
	p := Parameter{Name: strings.TrimSpace(name), Value: value, Type: typ, Unit: unit}
	return p, p.Validate()
}

func (p Parameter) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name must be non-empty", ErrInvalidParameter)
	}
	var err error
	switch p.Type {
	case ParamString, ParamText:
	case ParamInt:
		_, err = strconv.ParseInt(p.Value, 10, 64)
	case ParamFloat:
		_, err = strconv.ParseFloat(p.Value, 64)
	case ParamBool:
		switch strings.ToLower(p.Value) {
		case "true", "false", "1", "0":
		default:
			err = strconv.ErrSyntax
		}
	default:
		return fmt.Errorf("%w: type %q (valid: string, int, float, text, bool)", ErrInvalidParameter, p.Type)
	}
	if err != nil {
		return fmt.Errorf("%w: value %q for type %q", ErrInvalidParameter, p.Value, p.Type)
	}
	return nil
}

// Float returns the numeric value of p, if it has one.
func (p Parameter) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(p.Value), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

type ExperimentVersion struct {
	ID           string        `json:"id"`
	ExperimentID string        `json:"experiment_id"`
	Number       int           `json:"number"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Status       VersionStatus `json:"status"`
	ParentID     *string       `json:"parent_id,omitempty"`
	ChangeLog    string        `json:"change_log,omitempty"`
	Parameters   []Parameter   `json:"parameters"`
	CreatedAt    time.Time     `json:"created_at"`

	// Loaded by VersionRepository.GetByID only.
	Files    []FileReference   `json:"file_references,omitempty"`
	Results  []Result          `json:"results,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewVersion starts a draft version of an experiment.
func NewVersion(id, experimentID, name, description string, now time.Time) (*ExperimentVersion, error) {
	if experimentID == "" {
		return nil, fmt.Errorf("%w: experiment id is required", ErrInvalidParameter)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: version name is required", ErrInvalidParameter)
	}
	return &ExperimentVersion{
		ID:           id,
		ExperimentID: experimentID,
		Name:         strings.TrimSpace(name),
		Description:  description,
		Status:       VersionDraft,
		CreatedAt:    now,
	}, nil
}

// AddParameter appends a validated parameter, rejecting duplicate names.
func (v *ExperimentVersion) AddParameter(p Parameter) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, existing := range v.Parameters {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateParameter, p.Name)
		}
	}
	v.Parameters = append(v.Parameters, p)
	return nil
}

// Fork derives a new draft from v: parameters are copied, the parent is
// linked and the number is one past the parent's.
func (v *ExperimentVersion) Fork(id, name, changeLog string, now time.Time) (*ExperimentVersion, error) {
	child, err := NewVersion(id, v.ExperimentID, name, v.Description, now)
	if err != nil {
		return nil, err
	}
	parentID := v.ID
	child.ParentID = &parentID
	child.Number = v.Number + 1
	child.ChangeLog = changeLog
	child.Parameters = append([]Parameter(nil), v.Parameters...)
	return child, nil
}
