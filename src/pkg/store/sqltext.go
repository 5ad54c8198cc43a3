package store

import (
	"fmt"
	"strings"
)

// CheckName identifies the check type whose configuration this tool inspects.
const CheckName = "ActiveDirectoryCheck"

// LiteralMatcher is the plain-string matcher form the scorer compares with
// substring containment.
func LiteralMatcher(user string) string {
	return "sAMAccountName: " + user
}

// RegexMatcher is the regex matcher form, tolerant of whitespace after the
// attribute name.
func RegexMatcher(user string) string {
	return `sAMAccountName:\s*` + user
}

func matcherSelect() string {
	return fmt.Sprintf(
		"SELECT environments.id, services.name, environments.matching_content, HEX(environments.matching_content) "+
			"FROM environments "+
			"JOIN services ON environments.service_id = services.id "+
			"WHERE services.check_name = '%s'", CheckName)
}

func matcherUpdate(content string) string {
	return fmt.Sprintf(
		"UPDATE environments "+
			"JOIN services ON environments.service_id = services.id "+
			"SET environments.matching_content = '%s' "+
			"WHERE services.check_name = '%s'", escape(content), CheckName)
}

func recentChecksSelect(limit int) string {
	return fmt.Sprintf(
		"SELECT checks.id, checks.result, checks.reason, checks.command, LEFT(checks.output, 300) "+
			"FROM checks "+
			"JOIN services ON checks.service_id = services.id "+
			"WHERE services.check_name = '%s' "+
			"ORDER BY checks.id DESC LIMIT %d", CheckName, limit)
}

// escape makes s safe inside a single-quoted MySQL string literal. The
// matcher forms are built from the --user flag, so the regex backslash in
// \s* must survive as a single backslash in the stored value.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}
