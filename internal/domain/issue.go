package domain

// RawIssue is an issue as returned by the GitLab API, before normalization.
// Fields that may be missing or null in the payload are kept loose so the
// normalizer can apply its defaults.
type RawIssue struct {
	Title       string
	Description *string // nil when the API sends null or omits the field
	CreatedAt   string  // raw ISO-8601 text, parsed during normalization
	State       string  // "opened", "closed", ...
	Assignees   []RawAssignee
}

// RawAssignee is a single entry of an issue's assignee list.
type RawAssignee struct {
	Name string
}

// IssueRecord is the flat display form of an issue.
type IssueRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Assignees   string `json:"assignees"`
	State       string `json:"state"`
	CreatedAt   string `json:"createdAt"`
}
