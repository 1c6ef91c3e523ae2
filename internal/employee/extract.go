package employee

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule maps a set of trigger keywords to a department. A rule matches when
// any of its triggers appears in the lower-cased text.
type Rule struct {
	Triggers   []string
	Department Department
}

// DepartmentRules is the ordered rule list used by [Extract]. The first
// matching rule wins, so order is priority.
var DepartmentRules = []Rule{
	{Triggers: []string{"sales"}, Department: Sales},
	{Triggers: []string{"engineering", "developer"}, Department: Engineering},
	{Triggers: []string{"marketing"}, Department: Marketing},
}

var yearsRegex = regexp.MustCompile(`(\d+)\s*year`)

// Extractor builds an [Info] from free text using an ordered rule list.
// The zero value uses [DepartmentRules].
type Extractor struct {
	Rules []Rule
}

// Extract runs the default extractor.
func Extract(name, text string) Info {
	return Extractor{}.Extract(name, text)
}

// Extract converts name and free text into an Info. It never fails; absent
// evidence resolves to the package defaults.
func (e Extractor) Extract(name, text string) Info {
	lower := strings.ToLower(text)
	return Info{
		Name:       name,
		Department: e.department(lower),
		Role:       DefaultRole,
		Years:      years(lower),
	}
}

func (e Extractor) department(lower string) Department {
	rules := e.Rules
	if rules == nil {
		rules = DepartmentRules
	}
	for _, rule := range rules {
		for _, trigger := range rule.Triggers {
			if trigger != "" && strings.Contains(lower, strings.ToLower(trigger)) {
				return rule.Department
			}
		}
	}
	return DefaultDepartment
}

// years returns the integer in front of the first "<digits> year" in lower,
// or DefaultYears when there is none or it does not fit in an int.
func years(lower string) int {
	m := yearsRegex.FindStringSubmatch(lower)
	if m == nil {
		return DefaultYears
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultYears
	}
	return n
}
