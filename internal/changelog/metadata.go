package changelog

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// ChangeType classifies a changelog entry.
type ChangeType string

const (
	ChangeBugfix        ChangeType = "BUGFIX"
	ChangeFeatureUpdate ChangeType = "FEATURE_UPDATE"
)

// Metadata is one structured reference found in a changelog line: either an
// issue (IssueID set) or an app action (ActionKey and ActionType set).
type Metadata struct {
	ChangeType ChangeType `json:"app_change_type"`
	IssueID    int64      `json:"issue_id,omitempty"`
	ActionKey  string     `json:"action_key,omitempty"`
	ActionType string     `json:"action_type,omitempty"`
}

// IsIssue reports whether m references an issue.
func (m Metadata) IsIssue() bool {
	return m.ActionKey == ""
}

// actionTypes maps action kinds to the names the builder uses for them.
var actionTypes = map[string]string{
	"trigger": "read",
	"create":  "write",
	"search":  "search",
}

var bugfixWords = map[string]bool{
	"fix":   true,
	"fixed": true,
	"fixes": true,
}

var featureUpdateWords = map[string]bool{
	"add":          true,
	"adds":         true,
	"added":        true,
	"improve":      true,
	"improves":     true,
	"improved":     true,
	"improvements": true,
	"update":       true,
	"updates":      true,
	"updated":      true,
	"new":          true,
}

var (
	issuePattern  = regexp.MustCompile(`#(\d+)`)
	actionPattern = regexp.MustCompile(`(trigger|create|search)/(\w+)`)
)

// ParseMetadata extracts metadata from one changelog line.
//
// The line is read token by token (split on single spaces). A bugfix or
// feature word sets the change type for every token after it, including
// itself. Once a change type is set, a token holding "#<n>" yields issue
// metadata, or else a token holding "<kind>/<key>" yields action metadata.
// Tokens before the first change word yield nothing.
func ParseMetadata(line string) []Metadata {
	fold := cases.Fold()

	var out []Metadata
	var context ChangeType
	for _, token := range strings.Split(line, " ") {
		word := fold.String(token)
		switch {
		case bugfixWords[word]:
			context = ChangeBugfix
		case featureUpdateWords[word]:
			context = ChangeFeatureUpdate
		}
		if context == "" {
			continue
		}
		if m, ok := extract(token, context); ok {
			out = append(out, m)
		}
	}
	return out
}

func extract(token string, context ChangeType) (Metadata, bool) {
	if match := issuePattern.FindStringSubmatch(token); match != nil {
		if id, err := strconv.ParseInt(match[1], 10, 64); err == nil {
			return Metadata{ChangeType: context, IssueID: id}, true
		}
	}
	if match := actionPattern.FindStringSubmatch(token); match != nil {
		return Metadata{
			ChangeType: context,
			ActionKey:  match[2],
			ActionType: actionTypes[match[1]],
		}, true
	}
	return Metadata{}, false
}
