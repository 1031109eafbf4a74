package checker

import "strings"

func HostContains(s string) Predicate {
	return func(host string) bool {
		return strings.Contains(strings.ToLower(host), s)
	}
}

func Any(string) bool { return true }
