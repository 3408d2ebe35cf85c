package pullrequest

import (
	"strconv"
	"time"

	"github.com/bjulian5/bbpr/internal/bitbucket"
)

// Row is the tabular projection of a pull request
type Row struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
	Destination string `json:"destination" yaml:"destination"`
	Source      string `json:"source" yaml:"source"`
	State       string `json:"state" yaml:"state"`
	UpdatedOn   string `json:"updated_on" yaml:"updated_on"`
	CreatedOn   string `json:"created_on" yaml:"created_on"`
	Author      string `json:"author" yaml:"author"`
	MergeCommit string `json:"merge_commit" yaml:"merge_commit"`
	ClosedBy    string `json:"closed_by" yaml:"closed_by"`
}

// Fields lists every row field in display order
var Fields = []string{
	"id", "title", "description", "url", "destination", "source",
	"state", "updated_on", "created_on", "author", "merge_commit", "closed_by",
}

// DefaultFields are shown when no fields are requested
var DefaultFields = []string{"id", "title", "source", "destination", "state", "updated_on", "author"}

// FieldLabels are the column headers
var FieldLabels = map[string]string{
	"id":           "ID",
	"title":        "Title",
	"description":  "Description",
	"url":          "URL",
	"destination":  "Destination Branch",
	"source":       "Source Branch",
	"state":        "State",
	"updated_on":   "Updated Date",
	"created_on":   "Created Date",
	"author":       "Author",
	"merge_commit": "Merge Commit",
	"closed_by":    "Closed By",
}

// Value returns the string value of a field, "" for unknown fields
func (r Row) Value(field string) string {
	switch field {
	case "id":
		return strconv.Itoa(r.ID)
	case "title":
		return r.Title
	case "description":
		return r.Description
	case "url":
		return r.URL
	case "destination":
		return r.Destination
	case "source":
		return r.Source
	case "state":
		return r.State
	case "updated_on":
		return r.UpdatedOn
	case "created_on":
		return r.CreatedOn
	case "author":
		return r.Author
	case "merge_commit":
		return r.MergeCommit
	case "closed_by":
		return r.ClosedBy
	default:
		return ""
	}
}

// ProjectRow flattens a pull request. Absent nested values project as "".
func ProjectRow(pr *bitbucket.PullRequest, d Display) Row {
	row := Row{
		ID:          pr.ID,
		Title:       pr.Title,
		Description: pr.Description,
		URL:         pr.HTMLURL(),
		Destination: pr.Destination.Branch.Name,
		Source:      pr.Source.Branch.Name,
		State:       pr.State,
		UpdatedOn:   d.formatTime(pr.UpdatedOn),
		CreatedOn:   d.formatTime(pr.CreatedOn),
		Author:      pr.Author.Name(),
		ClosedBy:    pr.ClosedBy.Name(),
	}
	if pr.MergeCommit != nil {
		row.MergeCommit = pr.MergeCommit.Hash
	}
	return row
}

func (d Display) formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	layout := d.DateFormat
	if layout == "" {
		layout = DefaultDisplay.DateFormat
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}
