package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ms-schedule/internal/models"
)

func TestEventDisplayStrings(t *testing.T) {
	custom := models.CustomEvent{Title: "Registration"}
	assert.Equal(t, "Registration", custom.String())

	keynote := models.KeynoteEvent{SpeakerName: "Liang Bo"}
	assert.Equal(t, "Keynote: Liang Bo", keynote.String())

	sponsored := models.SponsoredEvent{EventInfo: models.EventInfo{Title: "Sponsor Workshop"}}
	assert.Equal(t, "Sponsor Workshop", sponsored.String())

	talk := models.ProposedTalkEvent{
		ProposalID: 42,
		Proposal:   &models.TalkProposal{ID: 42, Title: "Writing Fast Parsers", Accepted: true},
	}
	assert.Equal(t, "Writing Fast Parsers", talk.String())
}

func TestKeynoteEventAbsoluteURL(t *testing.T) {
	e := models.KeynoteEvent{SpeakerName: "liang2", Slug: "liang2"}
	assert.Equal(t, "/events/keynotes/#keynote-speaker-liang2", e.AbsoluteURL())
}

func TestSponsoredEventAbsoluteURL(t *testing.T) {
	e := models.SponsoredEvent{Slug: "deep-learning-lab"}
	assert.Equal(t, "/events/sponsored/deep-learning-lab/", e.AbsoluteURL())
}

func TestProposedTalkEventAbsoluteURL(t *testing.T) {
	e := models.ProposedTalkEvent{ProposalID: 617}
	assert.Equal(t, "/events/talk/617/", e.AbsoluteURL())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "liang2", models.Slugify("Liang2"))
	assert.Equal(t, "go-at-scale", models.Slugify("  Go at Scale!  "))
	assert.Equal(t, "cafe-talk", models.Slugify("Café Talk"))
}

func TestSlugifyUnicode(t *testing.T) {
	assert.Equal(t, "python-工作坊", models.SlugifyUnicode("Python 工作坊"))
	assert.Equal(t, "go-1-24", models.SlugifyUnicode("Go 1.24"))
}

func TestValidSlug(t *testing.T) {
	assert.True(t, models.ValidSlug("liang2"))
	assert.True(t, models.ValidSlug("a-b_c"))
	assert.False(t, models.ValidSlug(""))
	assert.False(t, models.ValidSlug("has space"))
	assert.False(t, models.ValidSlug("工作坊"))

	assert.True(t, models.ValidUnicodeSlug("工作坊"))
	assert.False(t, models.ValidUnicodeSlug("has space"))
	assert.False(t, models.ValidUnicodeSlug(""))
}

func TestScheduleString(t *testing.T) {
	s := models.Schedule{CreatedAt: time.Date(2016, 5, 20, 12, 0, 0, 0, time.UTC)}
	assert.Equal(t, "Schedule created at 2016-05-20 12:00:00", s.String())
}

func TestEventSlotOptionalFields(t *testing.T) {
	// A slot with no placement at all is a valid marker
	e := models.CustomEvent{ID: "evt1", Title: "Doors open"}
	assert.Empty(t, e.Location)
	assert.Nil(t, e.BeginTime)
	assert.Nil(t, e.EndTime)
}
