// Package identity defines how contributor identities are keyed and displayed.
//
// Contributors are keyed by the exact username string reported by the wiki.
// No normalization or case-folding is performed: "Foo" and "foo" are two
// different contributors even though MediaWiki may treat them as one page.
package identity

import "net/url"

// UnknownAuthor is the sentinel identity substituted when a revision carries
// no author, e.g. when the username has been revision-deleted.
const UnknownAuthor = "Unknown"

// userNamespace is the per-user namespace prefix on MediaWiki sites.
const userNamespace = "User:"

// UserPageURL returns the URL of the contributor's user page on the given
// site. The author name is percent-encoded for the path position; escaping
// for HTML embedding remains the renderer's concern.
func UserPageURL(site, author string) string {
	return "https://" + site + "/wiki/" + userNamespace + url.PathEscape(author)
}
