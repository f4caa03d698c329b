package config

import "strings"

// AdminAllowlist is the set of e-mails allowed into the admin area.
// An empty allowlist means administration is not configured and nobody is admitted.
type AdminAllowlist struct {
	Emails []string `json:"emails"`
}

// ParseAdminAllowlist parses a comma separated e-mail list. Entries are trimmed,
// lowercased and deduplicated; blanks are dropped.
func ParseAdminAllowlist(raw string) AdminAllowlist {
	seen := make(map[string]struct{})
	var emails []string
	for _, part := range strings.Split(raw, ",") {
		email := strings.ToLower(strings.TrimSpace(part))
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}
	return AdminAllowlist{Emails: emails}
}

// Configured reports whether at least one admin e-mail is set
func (a AdminAllowlist) Configured() bool {
	return len(a.Emails) > 0
}

// IsAdminEmail reports whether email belongs to the allowlist, case-insensitively
func IsAdminEmail(allowlist AdminAllowlist, email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, allowed := range allowlist.Emails {
		if allowed == email {
			return true
		}
	}
	return false
}
