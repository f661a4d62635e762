package classify

import (
	"net/url"
	"strings"

	"clicktrack/internal/model"
)

// Click is the input every rule sees: the matched element and the page it lives on.
type Click struct {
	Page      *url.URL
	El        Element
	FullEmail bool
}

func (c Click) href() (string, bool) { return attr(c.El, AttrHref) }

func (c Click) explicit() string {
	v, _ := attr(c.El, AttrEvent)
	return v
}

// Rule pairs a predicate with the payload it produces.
// Rules are evaluated in order and the first match wins.
type Rule struct {
	Name    string
	Kind    model.Kind
	Match   func(Click) bool
	Payload func(Click) model.Payload
}

// DefaultRules is the classification priority chain.
// Explicit markers come first. Cross-host and extension heuristics only
// run for plain links, so a cross-host link to a pdf reports outbound.
var DefaultRules = []Rule{
	{Name: "explicit_cta", Kind: model.KindCTA, Match: explicitIs(model.KindCTA), Payload: ctaPayload},
	{Name: "explicit_outbound", Kind: model.KindOutbound, Match: explicitIs(model.KindOutbound), Payload: explicitOutboundPayload},
	{Name: "explicit_download", Kind: model.KindDownload, Match: explicitIs(model.KindDownload), Payload: explicitDownloadPayload},
	{Name: "mailto", Kind: model.KindContactEmail, Match: isMailto, Payload: mailtoPayload},
	{Name: "nav_item", Kind: model.KindNav, Match: isNavItem, Payload: navPayload},
	{Name: "heuristic_outbound", Kind: model.KindOutbound, Match: isCrossHost, Payload: outboundPayload},
	{Name: "heuristic_download", Kind: model.KindDownload, Match: hasDownloadExt, Payload: downloadPayload},
}

func explicitIs(k model.Kind) func(Click) bool {
	return func(c Click) bool { return c.explicit() == string(k) }
}

func ctaPayload(c Click) model.Payload {
	id, ok := attr(c.El, AttrCTAID)
	return model.Payload{}.Set("cta_id", id, ok)
}

func explicitOutboundPayload(c Click) model.Payload {
	href, _ := c.href()
	host, ok := attr(c.El, AttrHost)
	if !ok {
		host, _ = HostFromHref(c.Page, href)
	}
	p := model.Payload{"host": NormalizeHost(host)}
	path, ok := PathFromHref(c.Page, href)
	return p.Set("path", path, ok)
}

func explicitDownloadPayload(c Click) model.Payload {
	href, _ := c.href()
	file, fok := attr(c.El, AttrFile)
	if !fok {
		file, fok = PathFromHref(c.Page, href)
	}
	typ, tok := attr(c.El, AttrType)
	if !tok && fok {
		typ, tok = FileTypeFromPath(file)
	}
	return model.Payload{}.Set("file", file, fok).Set("type", typ, tok)
}

func isMailto(c Click) bool {
	if !isAnchor(c.El) {
		return false
	}
	href, _ := c.href()
	return len(href) >= 7 && strings.EqualFold(href[:7], "mailto:")
}

func mailtoPayload(c Click) model.Payload {
	href, _ := c.href()
	email, ok := SanitizeEmail(href, c.FullEmail)
	return model.Payload{}.Set("email", email, ok)
}

func isNavItem(c Click) bool {
	_, ok := attr(c.El, AttrNavItem)
	return ok
}

func navPayload(c Click) model.Payload {
	item, _ := attr(c.El, AttrNavItem)
	return model.Payload{"item": item}
}

// linkHost is the normalized hostname a link resolves to, if any.
func linkHost(c Click) (string, bool) {
	if !isAnchor(c.El) {
		return "", false
	}
	href, ok := c.href()
	if !ok {
		return "", false
	}
	host, ok := HostFromHref(c.Page, href)
	if !ok || host == "" {
		return "", false
	}
	return NormalizeHost(host), true
}

func pageHost(c Click) string {
	if c.Page == nil {
		return ""
	}
	return NormalizeHost(c.Page.Hostname())
}

func isCrossHost(c Click) bool {
	host, ok := linkHost(c)
	return ok && host != pageHost(c)
}

func outboundPayload(c Click) model.Payload {
	host, _ := linkHost(c)
	href, _ := c.href()
	path, ok := PathFromHref(c.Page, href)
	return model.Payload{"host": host}.Set("path", path, ok)
}

func hasDownloadExt(c Click) bool {
	if !isAnchor(c.El) {
		return false
	}
	href, _ := c.href()
	_, ok := FileTypeFromPath(href)
	return ok
}

func downloadPayload(c Click) model.Payload {
	href, _ := c.href()
	typ, _ := FileTypeFromPath(href)
	file, ok := PathFromHref(c.Page, href)
	return model.Payload{"type": typ}.Set("file", file, ok)
}
