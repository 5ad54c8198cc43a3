package models

// ProbeResult summarizes a direct LDAP bind+search from the debug host,
// as opposed to the ldapsearch run from inside the worker container.
type ProbeResult struct {
	Entries      int
	FoundAccount bool
}
