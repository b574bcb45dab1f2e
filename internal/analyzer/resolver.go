package analyzer

import "strings"

// maxRefHops bounds chains of references pointing at other references
const maxRefHops = 32

// refResolver follows local "#/..." JSON pointers within one document
type refResolver struct {
	doc map[string]interface{}
}

// Resolve returns the fragment a "$ref" points to, or the fragment itself when it carries no reference.
// References that cannot be followed resolve to an empty fragment.
func (r refResolver) Resolve(fragment map[string]interface{}) map[string]interface{} {
	current := fragment
	for hop := 0; hop < maxRefHops; hop++ {
		ref, ok := current["$ref"].(string)
		if !ok {
			return current
		}
		target, ok := r.lookup(ref)
		if !ok {
			return map[string]interface{}{}
		}
		current = target
	}
	return map[string]interface{}{}
}

// resolveValue resolves v when it is a mapping, and returns an empty fragment otherwise
func (r refResolver) resolveValue(v interface{}) map[string]interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return r.Resolve(m)
}

func (r refResolver) lookup(ref string) (map[string]interface{}, bool) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, false
	}

	var node interface{} = r.doc
	for _, token := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[token]
		if !ok {
			return nil, false
		}
	}

	target, ok := node.(map[string]interface{})
	return target, ok
}
