package mcp

import (
	"fmt"
	"sort"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zconst"
	"github.com/mark3labs/mcp-go/mcp"
)

// NewToolResultInvalidArgumentError returns an error result telling the
// client its arguments were rejected.
func NewToolResultInvalidArgumentError(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Invalid argument: %s", message))
}

// NewToolResultZogIssueMap renders zog validation issues, one per line,
// as an invalid-argument result.
func NewToolResultZogIssueMap(issues z.ZogIssueMap) *mcp.CallToolResult {
	var messages []string
	for field, fieldIssues := range issues {
		// zog repeats the first issue under its own key
		if field == zconst.ISSUE_KEY_FIRST {
			continue
		}
		for _, issue := range fieldIssues {
			messages = append(messages, fmt.Sprintf("%s: %s", field, issue.Message))
		}
	}
	sort.Strings(messages)
	return NewToolResultInvalidArgumentError(strings.Join(messages, "\n"))
}
