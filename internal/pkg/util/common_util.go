package util

import (
	"regexp"
)

var mentionRegex = regexp.MustCompile(`@([a-z0-9]{1,24})`)

// ExtractMentions 提取去重后的 @提及 用户名列表
func ExtractMentions(rawContent string) []string {
	matches := mentionRegex.FindAllStringSubmatch(rawContent, -1)

	seen := make(map[string]struct{})
	var names []string

	for _, m := range matches {
		if len(m) > 1 {
			name := m[1]
			if _, exists := seen[name]; !exists {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}

	return names
}
