// Package report shapes fetched GitLab data for display.
//
// Everything here is a pure function or a caller-owned value: issues are
// normalized into IssueRecords, narrowed by assignee and state selections,
// split into pages, and commits are counted per weekday. Nothing in this
// package performs I/O or keeps state between calls.
package report
