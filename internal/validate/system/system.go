// Package system implements Layer 3 of the validation engine: runtime and
// environment concerns — file paths, URLs, and permission checks — using
// only the standard library, since none of these checks do more than a
// single stat/HEAD-request/string-match that a third-party library would
// only wrap.
package system

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ttrpgconv/internal/ir"
)

// FileCheckConfig bounds Layer 3's file-path checks.
type FileCheckConfig struct {
	AllowedExtensions map[string]struct{}
	MaxFileSizeBytes  int64
}

// ValidateFilePath checks existence, extension, and size. A missing
// extension or a disallowed one is a Warning; exceeding the size limit is
// an Error.
func ValidateFilePath(entityType, path string, cfg FileCheckConfig) []ir.ValidationIssue {
	var issues []ir.ValidationIssue

	info, err := os.Stat(path)
	if err != nil {
		issues = append(issues, ir.IssueWarning(entityType, "referenced file does not exist: "+path).WithField("path"))
		return issues
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		issues = append(issues, ir.IssueWarning(entityType, "referenced file has no extension: "+path).WithField("path"))
	} else if _, ok := cfg.AllowedExtensions[ext]; !ok {
		issues = append(issues, ir.IssueWarning(entityType, "disallowed file extension: ."+ext).WithField("path"))
	}

	if cfg.MaxFileSizeBytes > 0 && info.Size() > cfg.MaxFileSizeBytes {
		issues = append(issues, ir.IssueError(entityType, "file exceeds maximum allowed size").WithField("path"))
	}

	return issues
}

// URLCheckConfig bounds Layer 3's URL checks.
type URLCheckConfig struct {
	CheckAccessibility bool
	AllowedDomains     map[string]struct{}
	Timeout            time.Duration
	HTTPClient         *http.Client
}

// DefaultURLCheckConfig returns a 10-second-timeout config with no domain
// restriction, matching the original's ValidationConfig default posture
// (domain allowlist is opt-in per spec §4.4 Layer 3).
func DefaultURLCheckConfig() URLCheckConfig {
	return URLCheckConfig{
		CheckAccessibility: true,
		Timeout:            10 * time.Second,
		HTTPClient:         http.DefaultClient,
	}
}

// ValidateURL parses raw and, if configured, probes it with a HEAD
// request. Non-2xx responses and timeouts are Warnings — network
// availability is probabilistic, not a hard correctness signal.
func ValidateURL(ctx context.Context, entityType, raw string, cfg URLCheckConfig) []ir.ValidationIssue {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return []ir.ValidationIssue{ir.IssueError(entityType, "not a valid URL: "+raw).WithField("url")}
	}

	var issues []ir.ValidationIssue

	if len(cfg.AllowedDomains) > 0 {
		if _, ok := cfg.AllowedDomains[parsed.Hostname()]; !ok {
			issues = append(issues, ir.IssueWarning(entityType, "domain not in allowlist: "+parsed.Hostname()).
				WithField("url").
				WithSuggestion("domain not in allowlist"))
		}
	}

	if cfg.CheckAccessibility {
		client := cfg.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}
		reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, raw, nil)
		if err != nil {
			issues = append(issues, ir.IssueWarning(entityType, "could not build accessibility check request").WithField("url"))
			return issues
		}

		resp, err := client.Do(req)
		if err != nil {
			issues = append(issues, ir.IssueWarning(entityType, "URL was not reachable: "+raw).WithField("url"))
			return issues
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			issues = append(issues, ir.IssueWarning(entityType, "URL returned non-2xx status").WithField("url"))
		}
	}

	return issues
}

// ValidatePermission enforces that write/delete on a resource containing a
// "system" path segment requires an administrative principal. Unknown
// actions are a Warning, not an Error.
func ValidatePermission(entityType, action, resource string, isAdmin bool) []ir.ValidationIssue {
	switch action {
	case "read":
		return nil
	case "write", "delete":
		if strings.Contains(resource, "system") && !isAdmin {
			return []ir.ValidationIssue{
				ir.IssueError(entityType, "insufficient permissions for "+action+" on system resource: "+resource).
					WithField("permissions").
					WithSuggestion("Contact an administrator for access to system resources"),
			}
		}
		return nil
	default:
		return []ir.ValidationIssue{
			ir.IssueWarning(entityType, "unknown action '"+action+"' for permission check").
				WithField("permissions").
				WithSuggestion("Use standard actions: read, write, delete"),
		}
	}
}
