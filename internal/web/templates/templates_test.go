package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestListURL(t *testing.T) {
	tests := []struct {
		query string
		open  domain.IDSet
		want  string
	}{
		{"", domain.IDSet{}, "/"},
		{"soil", domain.IDSet{}, "/?q=soil"},
		{"", domain.NewIDSet("1", "3"), "/?open=1%2C3"},
		{"a b", domain.NewIDSet("2"), "/?open=2&q=a+b"},
	}
	for _, tt := range tests {
		if got := ListURL(tt.query, tt.open); got != tt.want {
			t.Errorf("ListURL(%q, %q) = %q, want %q", tt.query, tt.open.String(), got, tt.want)
		}
	}
}

func TestComparisonURL_KeepsEmptySections(t *testing.T) {
	got := ComparisonURL("", domain.NewSelection("1"), domain.IDSet{})
	want := "/comparison?ids=1&sections="
	if got != want {
		t.Errorf("ComparisonURL = %q, want %q", got, want)
	}
}

func TestDetailURL(t *testing.T) {
	tests := []struct {
		id, tab, want string
	}{
		{"1", "", "/experiment/1"},
		{"1", TabOverview, "/experiment/1"},
		{"1", TabFiles, "/experiment/1?tab=files"},
		{"a/b", "", "/experiment/a%2Fb"},
	}
	for _, tt := range tests {
		if got := DetailURL(tt.id, tt.tab); got != tt.want {
			t.Errorf("DetailURL(%q, %q) = %q, want %q", tt.id, tt.tab, got, tt.want)
		}
	}
}

func TestKindFromName(t *testing.T) {
	tests := map[string]domain.FileKind{
		"photo.JPG":    domain.FileKindImage,
		"data.xlsx":    domain.FileKindSpreadsheet,
		"old.xls":      domain.FileKindSpreadsheet,
		"report.pdf":   domain.FileKindDocument,
		"no-extension": domain.FileKindDocument,
	}
	for name, want := range tests {
		if got := kindFromName(name); got != want {
			t.Errorf("kindFromName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestNotificationBell(t *testing.T) {
	now := time.Now()
	items := []domain.Notification{
		{ID: "7", Title: "<b>Alert</b>", Message: "m", Type: domain.NotificationWarning, Timestamp: now},
		{ID: "6", Title: "Old", Message: "m", Type: domain.NotificationInfo, Timestamp: now, Read: true},
	}
	html := renderString(t, NotificationBell(items, 1))

	if !strings.Contains(html, `id="notification-bell"`) {
		t.Error("bell id missing")
	}
	if strings.Contains(html, "<b>Alert</b>") {
		t.Error("title not escaped")
	}
	if !strings.Contains(html, `hx-post="/api/notifications/7/read"`) {
		t.Error("mark-read control missing for unread item")
	}
	if strings.Contains(html, `hx-post="/api/notifications/6/read"`) {
		t.Error("mark-read control rendered for read item")
	}
	if !strings.Contains(html, `hx-delete="/api/notifications/6"`) {
		t.Error("remove control missing")
	}
	if !strings.Contains(html, "Mark all as read") {
		t.Error("mark-all control missing")
	}
}

func TestNotificationBell_Empty(t *testing.T) {
	html := renderString(t, NotificationBell(nil, 0))
	if !strings.Contains(html, "No notifications") {
		t.Error("empty state missing")
	}
	if strings.Contains(html, "Mark all as read") {
		t.Error("mark-all shown without unread notifications")
	}
}

func TestStagedFiles(t *testing.T) {
	html := renderString(t, StagedFiles([]domain.StagedFile{
		{Name: "a.png", MediaType: "image/png", Size: 1536},
		{Name: "b.txt", MediaType: "text/plain", Size: 10},
	}))
	for _, want := range []string{`id="staged-files"`, "a.png", "1.5 KB", "file-image", "file-document", `data-remove="1"`} {
		if !strings.Contains(html, want) {
			t.Errorf("StagedFiles output missing %q", want)
		}
	}
}

func TestProfile_OmitsMissingFields(t *testing.T) {
	city := "Kazan"
	html := renderString(t, Profile(ProfilePage{User: &domain.User{Name: "Oleg", City: &city}}))
	if !strings.Contains(html, "Kazan") {
		t.Error("city missing")
	}
	if strings.Contains(html, "Education") {
		t.Error("missing education rendered")
	}
	if !strings.Contains(html, `class="avatar placeholder"`) {
		t.Error("avatar placeholder missing")
	}
}

func TestExperimentList_ExpandedCard(t *testing.T) {
	exps := []*domain.Experiment{
		{ID: "1", Title: "Soil pH", Goal: "g", Status: domain.StatusInProgress},
		{ID: "2", Title: "Enzyme", Status: domain.StatusCompleted},
	}
	html := renderString(t, ExperimentList(ListPage{Open: domain.NewIDSet("1"), Experiments: exps}))

	for _, want := range []string{
		`id="experiment-1"`,
		`href="/?open=1%2C2#experiment-2"`,
		`aria-expanded="true"`,
		`name="open" value="1"`,
		`href="/experiment/1"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("ExperimentList output missing %q", want)
		}
	}
	if strings.Count(html, `class="card-body"`) != 1 {
		t.Error("only the open card should be expanded")
	}
}

func TestComparison_Full(t *testing.T) {
	a := &domain.Experiment{ID: "1", Title: "A"}
	b := &domain.Experiment{ID: "2", Title: "B"}
	c := &domain.Experiment{ID: "3", Title: "C"}
	html := renderString(t, Comparison(ComparePage{
		Experiments: []*domain.Experiment{a, b, c},
		Selection:   domain.NewSelection("1", "2"),
		Sections:    domain.NewIDSet(domain.SectionBasic),
		Selected:    []*domain.Experiment{a, b},
	}))

	if !strings.Contains(html, `class="pick-item disabled"`) {
		t.Error("unselected experiment not disabled")
	}
	if got := strings.Count(html, `class="column"`); got != 2 {
		t.Errorf("columns = %d, want 2", got)
	}
	if strings.Contains(html, "Select two experiments") {
		t.Error("hint shown with a full selection")
	}
}
