package domain

import "time"

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPaused     Status = "paused"
	StatusOther      Status = "other"
)

// ParseStatus maps a stored or submitted value onto a known status.
// Anything unrecognised falls into StatusOther.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusInProgress, StatusCompleted, StatusPaused:
		return Status(s)
	default:
		return StatusOther
	}
}

func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusPaused:
		return "Paused"
	default:
		return "Other"
	}
}

// Badge returns the CSS modifier used for the status pill.
func (s Status) Badge() string {
	switch s {
	case StatusInProgress:
		return "badge-blue"
	case StatusCompleted:
		return "badge-green"
	case StatusPaused:
		return "badge-yellow"
	default:
		return "badge-red"
	}
}

type Experiment struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Goal         string    `json:"goal"`
	Hypothesis   string    `json:"hypothesis"`
	Timeline     string    `json:"timeline"`
	Equipment    string    `json:"equipment"`
	Budget       string    `json:"budget"`
	Status       Status    `json:"status"`
	LastModified string    `json:"last_modified"`
	Files        []string  `json:"files"`
	CreatedAt    time.Time `json:"created_at"`
}

// LastModifiedLayout is the display format used for LastModified.
const LastModifiedLayout = "2006-01-02 15:04"

// FindExperiment returns the experiment with the given id, or nil.
func FindExperiment(exps []*Experiment, id string) *Experiment {
	for _, e := range exps {
		if e.ID == id {
			return e
		}
	}
	return nil
}
