package models

import (
	"fmt"
	"net/url"
)

// Route paths owned by the web gateway. This service only constructs URLs
// against them; it does not serve them.
const (
	KeynotesPagePath         = "/events/keynotes/"
	sponsoredEventDetailPath = "/events/sponsored/%s/"
	talkDetailPath           = "/events/talk/%d/"
)

// AbsoluteURL links to the speaker's introduction on the keynotes page,
// e.g. slug "liang2" links to "/events/keynotes/#keynote-speaker-liang2".
func (e KeynoteEvent) AbsoluteURL() string {
	u := url.URL{Path: KeynotesPagePath, Fragment: "keynote-speaker-" + e.Slug}
	return u.String()
}

// AbsoluteURL is the sponsored-event detail page, keyed by slug.
func (e SponsoredEvent) AbsoluteURL() string {
	return fmt.Sprintf(sponsoredEventDetailPath, url.PathEscape(e.Slug))
}

// AbsoluteURL is the talk detail page, keyed by the proposal id.
func (e ProposedTalkEvent) AbsoluteURL() string {
	return fmt.Sprintf(talkDetailPath, e.ProposalID)
}
