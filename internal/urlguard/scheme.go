package urlguard

import (
	"net/url"
	"regexp"
	"strings"
)

var allowedSchemes = map[string]struct{}{
	"http":  {},
	"https": {},
}

// embeddedSchemeRe finds dangerous scheme tokens anywhere in a URL. The
// token must start the string or follow a non-scheme character, so
// "metadata:" is not read as "data:".
var embeddedSchemeRe = regexp.MustCompile(
	`(?i)(?:^|[^a-z0-9+.\-])(file|ftp|sftp|tftp|javascript|vbscript|data|gopher|dict|ldap|jar|netdoc|php|expect):`,
)

func checkScheme(u *url.URL) *Violation {
	if _, ok := allowedSchemes[strings.ToLower(u.Scheme)]; !ok {
		return violation(KindBlockedScheme, MsgBlockedScheme)
	}
	return nil
}

// checkEmbeddedScheme scans s (userinfo plus everything after the host),
// raw and decoded, for a smuggled scheme such as ?next=file:///etc/passwd.
func checkEmbeddedScheme(s string) *Violation {
	candidates := []string{s}
	if decoded, err := url.QueryUnescape(s); err == nil && decoded != s {
		candidates = append(candidates, decoded)
	} else if decoded, err := url.PathUnescape(s); err == nil && decoded != s {
		candidates = append(candidates, decoded)
	}

	for _, c := range candidates {
		if m := embeddedSchemeRe.FindStringSubmatch(c); m != nil {
			return violation(KindEmbeddedBlockedScheme, MsgEmbeddedScheme+": "+strings.ToLower(m[1])+":")
		}
	}
	return nil
}
