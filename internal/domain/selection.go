package domain

// MaxCompared is the number of experiments shown side by side.
const MaxCompared = 2

type SelectionState int

const (
	Selecting SelectionState = iota
	Comparing
)

func (s SelectionState) String() string {
	if s == Comparing {
		return "comparing"
	}
	return "selecting"
}

// Selection holds the experiments picked for comparison. It never holds
// more than MaxCompared ids.
type Selection struct {
	set IDSet
}

// NewSelection builds a selection from ids, dropping anything past capacity.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		s.Toggle(id)
	}
	return s
}

// Toggle deselects id when already selected, otherwise selects it if there
// is room. Selecting into a full selection is ignored. The return value
// reports whether the selection changed.
func (s *Selection) Toggle(id string) bool {
	if s.set.Remove(id) {
		return true
	}
	if s.set.Len() >= MaxCompared {
		return false
	}
	return s.set.Add(id)
}

func (s *Selection) Reset() {
	s.set = IDSet{}
}

func (s Selection) State() SelectionState {
	if s.set.Len() == MaxCompared {
		return Comparing
	}
	return Selecting
}

func (s Selection) Has(id string) bool { return s.set.Has(id) }
func (s Selection) Len() int           { return s.set.Len() }
func (s Selection) IDs() []string      { return s.set.IDs() }
func (s Selection) String() string     { return s.set.String() }

// Section identifiers on the comparison view.
const (
	SectionBasic     = "basic"
	SectionTimeline  = "timeline"
	SectionResources = "resources"
)

// CompareSections lists the comparison sections in render order.
var CompareSections = []string{SectionBasic, SectionTimeline, SectionResources}

// DefaultOpenSections has every section expanded.
func DefaultOpenSections() IDSet {
	return NewIDSet(CompareSections...)
}

// IsCompareSection reports whether name is a known section.
func IsCompareSection(name string) bool {
	for _, s := range CompareSections {
		if s == name {
			return true
		}
	}
	return false
}
