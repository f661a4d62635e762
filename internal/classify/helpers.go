package classify

import (
	"net/url"
	"strings"
)

// downloadExts is the allow-list of extensions treated as downloads.
// Page extensions such as html are deliberately absent.
var downloadExts = map[string]struct{}{
	"pdf": {}, "zip": {}, "gz": {}, "tar": {}, "csv": {}, "tsv": {},
	"xlsx": {}, "xls": {}, "pptx": {}, "ppt": {}, "docx": {}, "doc": {},
	"png": {}, "jpg": {}, "jpeg": {}, "svg": {}, "cff": {}, "md": {}, "txt": {},
}

// DownloadExtensions returns a copy of the allow-list, unordered.
func DownloadExtensions() []string {
	out := make([]string, 0, len(downloadExts))
	for ext := range downloadExts {
		out = append(out, ext)
	}
	return out
}

// NormalizeHost drops one leading "www." (any case) and lower-cases the rest.
func NormalizeHost(host string) string {
	if len(host) >= 4 && strings.EqualFold(host[:4], "www.") {
		host = host[4:]
	}
	return strings.ToLower(host)
}

// FileTypeFromPath returns the lower-cased extension of path when it is
// in the download allow-list. The query string is ignored.
func FileTypeFromPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	p, _, _ := strings.Cut(path, "?")
	i := strings.LastIndexByte(p, '.')
	if i < 0 {
		return "", false
	}
	ext := strings.ToLower(p[i+1:])
	if _, ok := downloadExts[ext]; !ok {
		return "", false
	}
	return ext, true
}

// SanitizeEmail strips the mailto: scheme and any query from href.
// Unless full is set only "@domain" is returned; the local part is PII.
func SanitizeEmail(href string, full bool) (string, bool) {
	addr := href
	if len(addr) >= 7 && strings.EqualFold(addr[:7], "mailto:") {
		addr = addr[7:]
	}
	addr, _, _ = strings.Cut(addr, "?")
	if addr == "" {
		return "", false
	}
	if full {
		return addr, true
	}
	domain := addr
	if i := strings.LastIndexByte(addr, '@'); i >= 0 {
		domain = addr[i+1:]
	}
	return "@" + domain, true
}

// cleanHref strips leading and trailing C0 controls and spaces and drops
// any tab or newline, as a browser does before parsing a URL.
func cleanHref(href string) string {
	href = strings.TrimFunc(href, func(r rune) bool { return r <= ' ' })
	if strings.ContainsAny(href, "\t\n\r") {
		href = strings.Map(func(r rune) rune {
			switch r {
			case '\t', '\n', '\r':
				return -1
			}
			return r
		}, href)
	}
	return href
}

// EncodeQuery percent-encodes the bytes of a raw query that a browser
// escapes in the search component. Existing escapes are left alone.
func EncodeQuery(q string) string {
	const hex = "0123456789ABCDEF"
	i := strings.IndexFunc(q, queryEscaped)
	if i < 0 {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	b.WriteString(q[:i])
	for ; i < len(q); i++ {
		c := q[i]
		if !queryEscaped(rune(c)) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0xf])
	}
	return b.String()
}

func queryEscaped(r rune) bool {
	switch {
	case r <= ' ', r >= 0x7f:
		return true
	}
	return strings.ContainsRune(`"#<>'`, r)
}

// resolve parses href relative to base. A nil base leaves href as parsed.
func resolve(base *url.URL, href string) (*url.URL, error) {
	u, err := url.Parse(cleanHref(href))
	if err != nil {
		return nil, err
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u, nil
}

// HostFromHref returns the hostname href resolves to against base.
// An empty href or a parse failure is undefined.
func HostFromHref(base *url.URL, href string) (string, bool) {
	if href == "" {
		return "", false
	}
	u, err := resolve(base, href)
	if err != nil {
		return "", false
	}
	return u.Hostname(), true
}

// PathFromHref returns the resolved path plus query of href.
// A parse failure falls back to the raw href.
func PathFromHref(base *url.URL, href string) (string, bool) {
	if href == "" {
		return "", false
	}
	u, err := resolve(base, href)
	if err != nil {
		return href, true
	}
	p := u.EscapedPath()
	switch {
	case u.Opaque != "":
		p = u.Opaque
	case p == "" && u.Host != "":
		// "https://github.com" resolves to "/" in a browser
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + EncodeQuery(u.RawQuery)
	}
	return p, true
}
