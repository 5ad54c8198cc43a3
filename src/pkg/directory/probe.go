package directory

import (
	"fmt"
	"net"
	"time"

	"github.com/go-ldap/ldap/v3"
	log "github.com/sirupsen/logrus"

	"github.com/arasaka-range/ad-check-debug/src/pkg/models"
)

var logger = log.WithField("package", "directory")

const probeTimeout = 10 * time.Second

// Probe binds and searches the directory straight from the debug host. The
// worker-container ldapsearch stays the authoritative reproduction; this
// separates "worker cannot reach the DC" from "the DC is down".
func Probe(url, bindDN, password, baseDN, user string) (*models.ProbeResult, error) {
	logger.WithField("url", url).WithField("bindDN", bindDN).Debug("Direct LDAP probe...")

	conn, err := ldap.DialURL(url, ldap.DialWithDialer(&net.Dialer{Timeout: probeTimeout}))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	defer conn.Close()
	conn.SetTimeout(probeTimeout)

	if err := conn.Bind(bindDN, password); err != nil {
		return nil, fmt.Errorf("simple bind as %s: %w", bindDN, err)
	}

	req := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		SearchFilter,
		[]string{SearchAttribute},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", baseDN, err)
	}

	result := &models.ProbeResult{Entries: len(res.Entries)}
	for _, entry := range res.Entries {
		if entry.GetAttributeValue(SearchAttribute) == user {
			result.FoundAccount = true
			break
		}
	}
	return result, nil
}
