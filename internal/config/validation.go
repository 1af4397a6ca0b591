package config

import (
	"fmt"
	"strings"
)

// Validate checks structural invariants of the configuration. It does not
// touch the filesystem: missing entry scripts or requirements files are
// stage failures, not configuration errors.
func (c *Config) Validate() error {
	var problems []string

	if c.Project == "" {
		problems = append(problems, "project name must not be empty")
	}
	if strings.ContainsAny(c.Project, "/\\") {
		problems = append(problems, fmt.Sprintf("project name %q must not contain path separators", c.Project))
	}
	if c.EntryScript == "" {
		problems = append(problems, "entry_script must not be empty")
	}
	if !strings.HasSuffix(c.EntryScript, ".py") {
		problems = append(problems, fmt.Sprintf("entry_script %q must be a .py file", c.EntryScript))
	}
	if c.Requirements == "" {
		problems = append(problems, "requirements must not be empty")
	}
	switch c.Archive.Format {
	case "gz", "xz":
	default:
		problems = append(problems, fmt.Sprintf("archive.format %q must be \"gz\" or \"xz\"", c.Archive.Format))
	}
	if c.Watch.Debounce < 0 {
		problems = append(problems, "watch.debounce must not be negative")
	}
	if c.Watch.Interval < 0 {
		problems = append(problems, "watch.interval must not be negative")
	}
	if c.Notify.Enabled && c.Notify.Subject == "" {
		problems = append(problems, "notify.subject must be set when notify is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
