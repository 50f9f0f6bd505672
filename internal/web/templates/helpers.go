//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

package templates

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/coBecT/MtsTrueTech/internal/domain"
)

// BellID is the element patched by the notification stream.
const BellID = "notification-bell"

// StagedFilesID is the element holding the staged file list.
const StagedFilesID = "staged-files"

const PanelRegister = "register"

var navLinks = []struct {
	Href  string
	Label string
}{
	{"/", "Experiments"},
	{"/comparison", "Compare"},
	{"/experiments/new", "New experiment"},
	{"/profile", "Profile"},
}

func withQuery(path string, v url.Values) string {
	for k, vals := range v {
		if len(vals) == 1 && vals[0] == "" && k != "sections" {
			v.Del(k)
		}
	}
	if enc := v.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// ListURL is the experiment list with the given query and expanded cards.
func ListURL(query string, open domain.IDSet) string {
	return withQuery("/", url.Values{"q": {query}, "open": {open.String()}})
}

// ComparisonURL is the canonical comparison page URL.
func ComparisonURL(query string, sel domain.Selection, sections domain.IDSet) string {
	return withQuery("/comparison", url.Values{
		"q":        {query},
		"ids":      {sel.String()},
		"sections": {sections.String()},
	})
}

func DetailURL(id, tab string) string {
	u := "/experiment/" + url.PathEscape(id)
	if tab != "" && tab != TabOverview {
		u += "?tab=" + url.QueryEscape(tab)
	}
	return u
}

// cardURL toggles one card on the list page and scrolls back to it.
func cardURL(data ListPage, id string) string {
	return ListURL(data.Query, data.Open.Toggled(id)) + "#experiment-" + id
}

// compareURL is the current comparison page with one transition parameter.
func compareURL(data ComparePage, key, value string) string {
	base := ComparisonURL(data.Query, data.Selection, data.Sections)
	sep := "&"
	if !strings.Contains(base, "?") {
		sep = "?"
	}
	return base + sep + key + "=" + url.QueryEscape(value)
}

func pickClass(selected, full bool) string {
	switch {
	case selected:
		return "pick-item selected"
	case full:
		return "pick-item disabled"
	}
	return "pick-item"
}

func fileIcon(kind domain.FileKind) string {
	switch kind {
	case domain.FileKindImage:
		return "🖼"
	case domain.FileKindSpreadsheet:
		return "📊"
	default:
		return "📄"
	}
}

func fileClass(kind domain.FileKind) string {
	return "file file-" + string(kind)
}

// kindFromName guesses a file kind from the extension of a stored file name.
func kindFromName(name string) domain.FileKind {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return domain.FileKindImage
	case ".xlsx", ".xls":
		return domain.FileKindSpreadsheet
	}
	return domain.FileKindDocument
}

func notificationClass(n domain.Notification) string {
	c := "notification notification-" + string(n.Type)
	if n.Read {
		c += " read"
	}
	return c
}

func parameterList(params []domain.Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Name+"="+p.Value+p.Unit)
	}
	return strings.Join(parts, ", ")
}

func initial(name string) string {
	if name == "" {
		return "?"
	}
	return string([]rune(name)[:1])
}

func authClass(panel string) string {
	if panel == PanelRegister {
		return "auth register-active"
	}
	return "auth"
}

func selectedCount(sel domain.Selection) string {
	return "Selected " + itoa(sel.Len()) + " of " + itoa(domain.MaxCompared)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// timelineBounds splits "start - end" as written by Draft.Experiment.
func timelineBounds(timeline string) (string, string) {
	start, end, _ := strings.Cut(timeline, " - ")
	return start, end
}
