package adapters

import "strings"

// NextLink returns the target of the rel="next" entry of an RFC 8288 Link
// header, or "" when there is none.
func NextLink(header string) string {
	for _, link := range splitLinks(header) {
		target, params, ok := strings.Cut(link, ";")
		if !ok {
			continue
		}
		target = strings.TrimSpace(target)
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		if hasRel(params, "next") {
			return strings.Trim(target, "<>")
		}
	}
	return ""
}

// splitLinks splits on commas outside angle brackets
func splitLinks(s string) []string {
	var links []string
	start := 0
	inBracket := false

	for i, ch := range s {
		switch {
		case ch == '<':
			inBracket = true
		case ch == '>':
			inBracket = false
		case ch == ',' && !inBracket:
			links = append(links, s[start:i])
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		links = append(links, rest)
	}
	return links
}

func hasRel(params, want string) bool {
	for _, param := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(value), `"`)) {
			if strings.EqualFold(rel, want) {
				return true
			}
		}
	}
	return false
}
