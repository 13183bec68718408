// Package flags formats usage text for command flags.
package flags

import (
	"fmt"
	"strings"
)

const (
	choiceOpenConstant                = "<"
	choiceCloseConstant               = ">"
	choiceSeparatorConstant           = "|"
	choicePlaceholderTemplateConstant = "`%s`"
	choiceDescribedTemplateConstant   = "`%s` %s"
)

// FormatChoiceUsage renders choices as a `<a|B|c>` placeholder with the default in upper case,
// followed by description when one is given. Blank and repeated choices are dropped.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	rendered := make([]string, 0, len(choices))
	seen := make(map[string]bool, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(normalizedChoice) == 0 || seen[normalizedChoice] {
			continue
		}
		seen[normalizedChoice] = true
		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		rendered = append(rendered, trimmedChoice)
	}

	placeholder := choiceOpenConstant + strings.Join(rendered, choiceSeparatorConstant) + choiceCloseConstant
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choicePlaceholderTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceDescribedTemplateConstant, placeholder, description)
}
