package runner

import (
	"github.com/arasaka-range/ad-check-debug/src/pkg/config"
	"github.com/arasaka-range/ad-check-debug/src/pkg/directory"
)

// Defaults mirror the range deployment this tool ships with.
const (
	DefaultHost     = "10.10.10.20"
	DefaultPort     = 389
	DefaultUser     = "sarasaka"
	DefaultPassword = "Arasaka2077!"
	DefaultDomain   = "arasaka.com"
	DefaultBaseDN   = "DC=arasaka,DC=com"

	DefaultDBService  = "mysql"
	DefaultDBUser     = "root"
	DefaultDBPassword = "toor"
	DefaultDBName     = "scoring_engine"
)

// WorkerService is the compose service that executes checks.
const WorkerService = "worker"

type Options struct {
	// Target directory service
	Host     string
	Port     int
	User     string
	Password string
	Domain   string
	BaseDN   string

	// Matcher repair
	FixMatcher      bool
	FixMatcherRegex bool

	// Report shape
	NoLogs      bool
	DirectProbe bool
	Debug       bool

	// Stack access
	ConfigFile  string
	ComposeFile string
	DBDSN       string
	DBService   string
	DBUser      string
	DBPassword  string
	DBName      string
}

// BindDN is the UPN-style identity ldapsearch binds as.
func (o *Options) BindDN() string {
	return directory.BindDN(o.User, o.Domain)
}

// LDAPURL is the URL ldapsearch is pointed at.
func (o *Options) LDAPURL() string {
	return directory.URL(o.Host, o.Port)
}

// ApplyFile fills in options from a config file. A file value is taken only
// when the corresponding flag was not set explicitly, so precedence is
// flag > file > default. changed reports whether a flag was set on the
// command line.
func (o *Options) ApplyFile(f *config.File, changed func(name string) bool) {
	if f.Host != "" && !changed("host") {
		o.Host = f.Host
	}
	if f.Port != 0 && !changed("port") {
		o.Port = f.Port
	}
	if f.User != "" && !changed("user") {
		o.User = f.User
	}
	if f.Password != "" && !changed("password") {
		o.Password = f.Password
	}
	if f.Domain != "" && !changed("domain") {
		o.Domain = f.Domain
	}
	if f.BaseDN != "" && !changed("base-dn") {
		o.BaseDN = f.BaseDN
	}
	if f.ComposeFile != "" && !changed("compose-file") {
		o.ComposeFile = f.ComposeFile
	}
	if f.DBDSN != "" && !changed("db-dsn") {
		o.DBDSN = f.DBDSN
	}
	if f.DBService != "" && !changed("db-service") {
		o.DBService = f.DBService
	}
	if f.DBUser != "" && !changed("db-user") {
		o.DBUser = f.DBUser
	}
	if f.DBPassword != "" && !changed("db-password") {
		o.DBPassword = f.DBPassword
	}
	if f.DBName != "" && !changed("db-name") {
		o.DBName = f.DBName
	}
}
