package domain

// Display states of an IssueRecord.
const (
	StateOpen   = "Open"
	StateClosed = "Closed"
)

// Placeholders used when a raw issue lacks a value.
const (
	NoDescription = "No description"
	Unassigned    = "Unassigned"
	InvalidDate   = "Invalid Date"
)

// GitLab issue state that maps to StateOpen.
const GitLabStateOpened = "opened"

// PlatformGitLab identifies the GitLab platform in logs and metrics.
const PlatformGitLab = "gitlab"
