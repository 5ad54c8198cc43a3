package main

import (
	"fmt"
	"os"

	"github.com/arasaka-range/ad-check-debug/src/internal/runner"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command, parse args from CLI
func newRootCmd() *cobra.Command {
	opts := &runner.Options{}

	cmd := &cobra.Command{
		Use:   "ad-check-debug",
		Short: "Diagnose ActiveDirectoryCheck failures in the scoring stack",
		Long: `ad-check-debug replays the scorer's ldapsearch invocation from inside the
worker container, inspects the stored matcher configuration (raw and hex),
optionally repairs the matcher, and shows recent check results.`,
		Version: fmt.Sprintf("%s (built: %s)", Version, BuildTime),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	// Directory target
	cmd.Flags().StringVar(&opts.Host, "host", runner.DefaultHost, "LDAP server address used in the generated LDAP URL")
	cmd.Flags().IntVar(&opts.Port, "port", runner.DefaultPort, "LDAP server port")
	cmd.Flags().StringVar(&opts.User, "user", runner.DefaultUser, "Account to bind as and to search for")
	cmd.Flags().StringVar(&opts.Password, "password", runner.DefaultPassword, "Bind credential")
	cmd.Flags().StringVar(&opts.Domain, "domain", runner.DefaultDomain, "Domain appended to user to form the bind identity")
	cmd.Flags().StringVar(&opts.BaseDN, "base-dn", runner.DefaultBaseDN, "LDAP search base")

	// Matcher repair
	cmd.Flags().BoolVar(&opts.FixMatcher, "fix-matcher", false,
		"Set matching_content to the literal form 'sAMAccountName: <user>'")
	cmd.Flags().BoolVar(&opts.FixMatcherRegex, "fix-matcher-regex", false,
		`Set matching_content to the regex form 'sAMAccountName:\s*<user>'`)

	// Report shape
	cmd.Flags().BoolVar(&opts.NoLogs, "no-logs", false, "Skip the worker-log excerpt section")
	cmd.Flags().BoolVar(&opts.DirectProbe, "direct-probe", false,
		"Also bind and search over a direct LDAP connection from this host")

	// Shared with subcommands
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Debug mode")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML file with option defaults (flags win)")
	cmd.PersistentFlags().StringVar(&opts.ComposeFile, "compose-file", "", "Compose file passed to docker compose")
	cmd.Flags().StringVar(&opts.DBDSN, "db-dsn", "",
		"MySQL DSN for a direct connection; default is the mysql client inside the database container")
	cmd.Flags().StringVar(&opts.DBService, "db-service", runner.DefaultDBService, "Compose service running MySQL")
	cmd.Flags().StringVar(&opts.DBUser, "db-user", runner.DefaultDBUser, "MySQL user for the container client")
	cmd.Flags().StringVar(&opts.DBPassword, "db-password", runner.DefaultDBPassword, "MySQL password for the container client")
	cmd.Flags().StringVar(&opts.DBName, "db-name", runner.DefaultDBName, "Scoring engine database name")

	cmd.AddCommand(newRebuildCmd(opts))

	return cmd
}
