package directory

import (
	"fmt"
	"strings"
)

// SearchFilter and SearchAttribute mirror the scorer's own ldapsearch
// invocation; the debug run must replay it exactly.
const (
	SearchFilter    = "(objectclass=person)"
	SearchAttribute = "sAMAccountName"
)

// LogNeedles are the substrings that mark a worker log line as belonging to
// this check type.
var LogNeedles = []string{"ActiveDirectoryCheck", "ldapsearch", "ad_check"}

// URL builds the LDAP URL the scorer points ldapsearch at.
func URL(host string, port int) string {
	return fmt.Sprintf("ldap://%s:%d", host, port)
}

// BindDN builds the UPN-style bind identity.
func BindDN(user, domain string) string {
	return user + "@" + domain
}

// SearchArgs is the exact ldapsearch command the scorer runs, as an argv.
func SearchArgs(url, bindDN, password, baseDN string) []string {
	return []string{
		"ldapsearch", "-x",
		"-H", url,
		"-D", bindDN,
		"-w", password,
		"-b", baseDN,
		SearchFilter,
		SearchAttribute,
	}
}

// AccountLine is the line the matcher is expected to find in check output.
func AccountLine(user string) string {
	return SearchAttribute + ": " + user
}

// ContainsAccount reports whether the captured ldapsearch output names the
// account. Plain substring containment, not LDIF parsing: the scorer's
// matcher works the same way.
func ContainsAccount(output, user string) bool {
	return strings.Contains(output, AccountLine(user))
}

// FilterLogLines keeps lines containing any needle and returns at most the
// last n of them.
func FilterLogLines(logs string, needles []string, n int) []string {
	var matched []string
	for _, line := range strings.Split(logs, "\n") {
		for _, needle := range needles {
			if strings.Contains(line, needle) {
				matched = append(matched, line)
				break
			}
		}
	}
	if len(matched) > n {
		matched = matched[len(matched)-n:]
	}
	return matched
}
