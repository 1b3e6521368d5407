package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// EventSlot carries the placement fields shared by every event kind. All
// three are optional; an event may hold a location without times, or one
// endpoint without the other, and acts as a marker in that case. No
// begin <= end ordering is enforced.
type EventSlot struct {
	Location  string     `bun:"location,nullzero" json:"location,omitempty"`
	BeginTime *time.Time `bun:"begin_time,nullzero" json:"begin_time,omitempty"`
	EndTime   *time.Time `bun:"end_time,nullzero" json:"end_time,omitempty"`
}

// CustomEvent is a free-form schedule item entered by organizers, e.g.
// "Registration" or "Lunch".
type CustomEvent struct {
	bun.BaseModel `bun:"table:custom_events"`

	ID    string `bun:"id,pk" json:"id"`
	Title string `bun:"title,notnull" json:"title"`
	EventSlot
}

func (e CustomEvent) String() string {
	return e.Title
}

type KeynoteEvent struct {
	bun.BaseModel `bun:"table:keynote_events"`

	ID          string `bun:"id,pk" json:"id"`
	SpeakerName string `bun:"speaker_name,notnull" json:"speaker_name"`
	Slug        string `bun:"slug,unique,notnull" json:"slug"`
	EventSlot
}

func (e KeynoteEvent) String() string {
	return "Keynote: " + e.SpeakerName
}

// EventInfo is the generic description block shared with the sponsor
// subsystem; sponsored events embed it alongside their slot fields.
type EventInfo struct {
	Title    string `bun:"title,notnull" json:"title"`
	Category string `bun:"category,nullzero" json:"category,omitempty"`
	Language string `bun:"language,nullzero" json:"language,omitempty"`
	Abstract string `bun:"abstract,nullzero" json:"abstract,omitempty"`
}

type SponsoredEvent struct {
	bun.BaseModel `bun:"table:sponsored_events"`

	ID     string `bun:"id,pk" json:"id"`
	HostID string `bun:"host_id,notnull" json:"host_id"`
	Slug   string `bun:"slug,unique,notnull" json:"slug"`
	EventInfo
	EventSlot

	Host *User `bun:"rel:belongs-to,join:host_id=id" json:"host,omitempty"`
}

func (e SponsoredEvent) String() string {
	return e.Title
}

// TalkProposal is the slice of the proposal subsystem this service reads:
// enough to display a scheduled talk and to check the accepted flag.
type TalkProposal struct {
	bun.BaseModel `bun:"table:talk_proposals"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Title    string `bun:"title,notnull" json:"title"`
	Accepted bool   `bun:"accepted,notnull,default:false" json:"accepted"`
}

// ProposedTalkEvent schedules an accepted talk proposal. Selects on this
// model always join the proposal row.
type ProposedTalkEvent struct {
	bun.BaseModel `bun:"table:proposed_talk_events"`

	ID         string `bun:"id,pk" json:"id"`
	ProposalID int64  `bun:"proposal_id,notnull" json:"proposal_id"`
	EventSlot

	Proposal *TalkProposal `bun:"rel:belongs-to,join:proposal_id=id" json:"proposal,omitempty"`
}

func (e ProposedTalkEvent) String() string {
	if e.Proposal == nil {
		return fmt.Sprintf("talk event for proposal %d", e.ProposalID)
	}
	return e.Proposal.Title
}

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string    `bun:"id,pk" json:"id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	FullName  string    `bun:"full_name,notnull" json:"full_name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}
