// Package changelog pulls the notes for one version out of a CHANGELOG.md
// and tags them with the issues and actions they mention.
package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FileName is the changelog file looked up by ForVersion.
const FileName = "CHANGELOG.md"

// Changelog is the section of a changelog for one version.
type Changelog struct {
	Text          string     `json:"changelog"`
	AppMetadata   []Metadata `json:"appMetadata,omitempty"`
	IssueMetadata []Metadata `json:"issueMetadata,omitempty"`
}

// headingPattern matches a markdown heading of level one to four.
var headingPattern = regexp.MustCompile(`^#{1,4} `)

// FromMarkdown extracts the section for version from markdown.
//
// The section starts after the first heading (levels one to four) that
// mentions version and ends before the next such heading. Line endings are
// normalized to "\n" and the text is NFC-normalized before matching.
func FromMarkdown(version, markdown string) (*Changelog, error) {
	markdown = norm.NFC.String(markdown)
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = strings.ReplaceAll(markdown, "\r", "\n")
	lines := strings.Split(markdown, "\n")

	versionHeading, err := regexp.Compile(`^#{1,4} .*` + regexp.QuoteMeta(norm.NFC.String(version)))
	if err != nil {
		return nil, fmt.Errorf("version pattern: %w", err)
	}

	start := -1
	for i, line := range lines {
		if versionHeading.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return nil, fmt.Errorf("Version '%s' not found in changelog", version)
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if headingPattern.MatchString(lines[i]) {
			end = i
			break
		}
	}

	section := lines[start:end]
	cl := &Changelog{}
	for _, line := range section {
		for _, m := range ParseMetadata(line) {
			if m.IsIssue() {
				cl.IssueMetadata = append(cl.IssueMetadata, m)
			} else {
				cl.AppMetadata = append(cl.AppMetadata, m)
			}
		}
	}
	cl.Text = strings.TrimSpace(strings.Join(section, "\n"))
	return cl, nil
}

// ForVersion reads dir/CHANGELOG.md and extracts the section for version.
// A missing or unreadable file, or a file without the version, yields an
// empty changelog.
func ForVersion(dir, version string) *Changelog {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return &Changelog{}
	}
	cl, err := FromMarkdown(version, string(data))
	if err != nil {
		return &Changelog{}
	}
	return cl
}
