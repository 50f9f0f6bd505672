package templates

import "github.com/coBecT/MtsTrueTech/internal/domain"

// Detail view tabs.
const (
	TabOverview  = "overview"
	TabFiles     = "files"
	TabCalendar  = "calendar"
	TabAnalytics = "analytics"
)

var Tabs = []struct {
	ID    string
	Label string
}{
	{TabOverview, "Overview"},
	{TabFiles, "Files"},
	{TabCalendar, "Calendar"},
	{TabAnalytics, "Analytics"},
}

// Nav is the data every page needs for the top bar.
type Nav struct {
	Active        string
	Notifications []domain.Notification
	Unread        int
	UserName      string
}

type ListPage struct {
	Nav
	Query       string
	Open        domain.IDSet
	Experiments []*domain.Experiment
}

type Median struct {
	Name  string
	Value float64
}

type DetailPage struct {
	Nav
	Experiment *domain.Experiment
	Tab        string
	Versions   []*domain.ExperimentVersion
	Medians    []Median
	Alerts     []domain.Alert
}

type ComparePage struct {
	Nav
	Query       string
	Experiments []*domain.Experiment
	Selection   domain.Selection
	Sections    domain.IDSet
	// Selected holds the compared experiments in selection order.
	Selected []*domain.Experiment
}

type FormPage struct {
	Nav
	Draft *domain.Draft
	Error string
}

type LoginPage struct {
	Nav
	Panel string
}

type ProfilePage struct {
	Nav
	User     *domain.User
	SignedIn bool
}

type formField struct {
	Name     string
	Label    string
	Kind     string
	Required bool
}

var formFields = []formField{
	{domain.FieldTitle, "Title", "text", true},
	{domain.FieldGoal, "Goal", "textarea", true},
	{domain.FieldHypothesis, "Hypothesis", "textarea", true},
	{domain.FieldStartDate, "Start date", "date", false},
	{domain.FieldEndDate, "End date", "date", false},
	{domain.FieldEquipment, "Equipment", "text", false},
	{domain.FieldBudget, "Budget", "text", false},
}

var sectionLabels = map[string]string{
	domain.SectionBasic:     "Basic information",
	domain.SectionTimeline:  "Timeline",
	domain.SectionResources: "Resources",
}

type compareRow struct {
	Label string
	Value func(*domain.Experiment) string
}

var sectionRows = map[string][]compareRow{
	domain.SectionBasic: {
		{"Status", func(e *domain.Experiment) string { return e.Status.Label() }},
		{"Goal", func(e *domain.Experiment) string { return e.Goal }},
		{"Hypothesis", func(e *domain.Experiment) string { return e.Hypothesis }},
	},
	domain.SectionTimeline: {
		{"Timeline", func(e *domain.Experiment) string { return e.Timeline }},
		{"Last modified", func(e *domain.Experiment) string { return e.LastModified }},
	},
	domain.SectionResources: {
		{"Equipment", func(e *domain.Experiment) string { return e.Equipment }},
		{"Budget", func(e *domain.Experiment) string { return e.Budget }},
	},
}
