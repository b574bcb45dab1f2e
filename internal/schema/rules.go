package schema

// ValidationRule tags a kind of validation a value is subject to
type ValidationRule string

const (
	RuleRequired         ValidationRule = "required"
	RuleTypeCheck        ValidationRule = "type_check"
	RuleFormat           ValidationRule = "format"
	RuleRange            ValidationRule = "range"
	RulePattern          ValidationRule = "pattern"
	RuleEnum             ValidationRule = "enum"
	RuleArrayLength      ValidationRule = "array_length"
	RuleObjectProperties ValidationRule = "object_properties"
	RuleSecurity         ValidationRule = "security"
)

var ruleOrder = []ValidationRule{
	RuleRequired,
	RuleTypeCheck,
	RuleFormat,
	RuleRange,
	RulePattern,
	RuleEnum,
	RuleArrayLength,
	RuleObjectProperties,
	RuleSecurity,
}

// ValidationRuleSet is a set of rules kept in canonical order
type ValidationRuleSet []ValidationRule

// Has reports whether rule is in the set
func (s ValidationRuleSet) Has(rule ValidationRule) bool {
	for _, r := range s {
		if r == rule {
			return true
		}
	}
	return false
}

// With returns a set containing s and rules
func (s ValidationRuleSet) With(rules ...ValidationRule) ValidationRuleSet {
	present := make(map[ValidationRule]bool, len(s)+len(rules))
	for _, r := range s {
		present[r] = true
	}
	for _, r := range rules {
		present[r] = true
	}
	out := make(ValidationRuleSet, 0, len(present))
	for _, r := range ruleOrder {
		if present[r] {
			out = append(out, r)
		}
	}
	return out
}

// Union returns a set containing the rules of s and other
func (s ValidationRuleSet) Union(other ValidationRuleSet) ValidationRuleSet {
	return s.With(other...)
}

// ValidationRules classifies the fragment's keywords into validation rules
func (s *Schema) ValidationRules() ValidationRuleSet {
	var rules []ValidationRule
	if s.HasType() {
		rules = append(rules, RuleTypeCheck)
	}
	if s.Format != "" {
		rules = append(rules, RuleFormat)
	}
	if s.Constraints.HasRange() {
		rules = append(rules, RuleRange)
	}
	if s.Constraints.Pattern != nil {
		rules = append(rules, RulePattern)
	}
	if s.Constraints.Enum != nil {
		rules = append(rules, RuleEnum)
	}
	if s.Type == TypeArray && s.Constraints.HasItemBounds() {
		rules = append(rules, RuleArrayLength)
	}
	if s.Type == TypeObject && s.HasProperties() {
		rules = append(rules, RuleObjectProperties)
	}
	return ValidationRuleSet{}.With(rules...)
}
