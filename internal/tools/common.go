package tools

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zconst"
)

// AbsolutePathTest rejects relative paths. Empty optional values are not tested.
func AbsolutePathTest() z.Test[*string] {
	return z.TestFunc[*string](zconst.IssueCodeCustom, func(val *string, ctx z.Ctx) bool {
		return filepath.IsAbs(*val)
	}, z.Message("must be an absolute path"))
}

func jsonBlock(v any) (string, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return "```json\n" + string(jsonData) + "\n```\n", nil
}
