package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"ms-schedule/internal/models"
	"ms-schedule/internal/schedule/db"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	// Connect to an in-memory SQLite DB for testing
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	tables := []interface{}{
		(*models.Time)(nil),
		(*models.User)(nil),
		(*models.TalkProposal)(nil),
		(*models.CustomEvent)(nil),
		(*models.KeynoteEvent)(nil),
		(*models.SponsoredEvent)(nil),
		(*models.ProposedTalkEvent)(nil),
		(*models.Schedule)(nil),
	}
	for _, m := range tables {
		_, err = bunDB.NewCreateTable().Model(m).IfNotExists().Exec(context.Background())
		if err != nil {
			t.Fatalf("Failed to create table for %T: %v", m, err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func TestGetTimeByValue(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	value := time.Date(2016, 6, 3, 9, 0, 0, 0, time.UTC)
	_, err := bunDB.NewInsert().
		Model(&models.Time{Value: value}).
		Exec(context.Background())
	assert.NoError(t, err)

	// Test case: exact match
	got, err := scheduleDB.GetTimeByValue(value)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.True(t, got.Value.Equal(value))

	// Test case: no row for this value
	_, err = scheduleDB.GetTimeByValue(value.Add(time.Hour))
	assert.ErrorIs(t, err, db.ErrTimeNotFound)
}

func TestGetOrCreateTime(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	value := time.Date(2016, 6, 4, 13, 0, 0, 0, time.UTC)

	// First reference inserts the row
	_, err := scheduleDB.GetOrCreateTime(value)
	assert.NoError(t, err)

	// Second reference is a no-op, not a duplicate
	_, err = scheduleDB.GetOrCreateTime(value)
	assert.NoError(t, err)

	count, err := bunDB.NewSelect().
		Model((*models.Time)(nil)).
		Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListTimesChronological(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	base := time.Date(2016, 6, 3, 9, 0, 0, 0, time.UTC)
	for _, v := range []time.Time{base.Add(2 * time.Hour), base, base.Add(time.Hour)} {
		_, err := scheduleDB.GetOrCreateTime(v)
		assert.NoError(t, err)
	}

	times, err := scheduleDB.ListTimes()
	assert.NoError(t, err)
	assert.Len(t, times, 3)
	for i := 1; i < len(times); i++ {
		assert.True(t, times[i-1].Value.Before(times[i].Value))
	}
}

func TestCustomEventCRUD(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	id := uuid.New().String()
	begin := time.Date(2016, 6, 3, 8, 0, 0, 0, time.UTC)
	ev := models.CustomEvent{
		ID:    id,
		Title: "Registration",
		EventSlot: models.EventSlot{
			Location:  models.LocationAll,
			BeginTime: &begin,
		},
	}

	assert.NoError(t, scheduleDB.CreateCustomEvent(ev))

	got, err := scheduleDB.GetCustomEventByID(id)
	assert.NoError(t, err)
	assert.Equal(t, "Registration", got.Title)
	assert.Equal(t, models.LocationAll, got.Location)
	assert.Nil(t, got.EndTime)

	got.Title = "Registration & Check-in"
	assert.NoError(t, scheduleDB.UpdateCustomEvent(*got))

	got, err = scheduleDB.GetCustomEventByID(id)
	assert.NoError(t, err)
	assert.Equal(t, "Registration & Check-in", got.Title)

	assert.NoError(t, scheduleDB.DeleteCustomEvent(id))
	_, err = scheduleDB.GetCustomEventByID(id)
	assert.ErrorIs(t, err, db.ErrEventNotFound)
}

func TestKeynoteEventBySlug(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	ev := models.KeynoteEvent{
		ID:          uuid.New().String(),
		SpeakerName: "Liang Bo",
		Slug:        "liang2",
	}
	assert.NoError(t, scheduleDB.CreateKeynoteEvent(ev))

	got, err := scheduleDB.GetKeynoteEventBySlug("liang2")
	assert.NoError(t, err)
	assert.Equal(t, "Liang Bo", got.SpeakerName)
	assert.Equal(t, "/events/keynotes/#keynote-speaker-liang2", got.AbsoluteURL())

	_, err = scheduleDB.GetKeynoteEventBySlug("nobody")
	assert.ErrorIs(t, err, db.ErrEventNotFound)
}

func TestSponsoredEventBySlug(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	ev := models.SponsoredEvent{
		ID:     uuid.New().String(),
		HostID: "user001",
		Slug:   "deep-learning-lab",
		EventInfo: models.EventInfo{
			Title:    "Deep Learning Lab",
			Language: "en",
		},
	}
	assert.NoError(t, scheduleDB.CreateSponsoredEvent(ev))

	got, err := scheduleDB.GetSponsoredEventBySlug("deep-learning-lab")
	assert.NoError(t, err)
	assert.Equal(t, "Deep Learning Lab", got.Title)
	assert.Equal(t, "user001", got.HostID)
}

func TestListProposedTalkEventsJoinsProposal(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	proposals := []models.TalkProposal{
		{ID: 1, Title: "Writing Fast Parsers", Accepted: true},
		{ID: 2, Title: "Schedulers in Depth", Accepted: true},
	}
	_, err := bunDB.NewInsert().Model(&proposals).Exec(context.Background())
	assert.NoError(t, err)

	for _, p := range proposals {
		err = scheduleDB.CreateProposedTalkEvent(models.ProposedTalkEvent{
			ID:         uuid.New().String(),
			ProposalID: p.ID,
		})
		assert.NoError(t, err)
	}

	// A single list call must hand back events with proposals already
	// attached; callers never fetch titles row by row
	events, err := scheduleDB.ListProposedTalkEvents()
	assert.NoError(t, err)
	assert.Len(t, events, 2)

	titles := map[string]bool{}
	for _, ev := range events {
		assert.NotNil(t, ev.Proposal)
		titles[ev.Proposal.Title] = true
		assert.Equal(t, ev.Proposal.Title, ev.String())
	}
	assert.True(t, titles["Writing Fast Parsers"])
	assert.True(t, titles["Schedulers in Depth"])
}

func TestGetProposedTalkEventByIDJoinsProposal(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	proposal := models.TalkProposal{ID: 7, Title: "Concurrency Patterns", Accepted: true}
	_, err := bunDB.NewInsert().Model(&proposal).Exec(context.Background())
	assert.NoError(t, err)

	id := uuid.New().String()
	err = scheduleDB.CreateProposedTalkEvent(models.ProposedTalkEvent{ID: id, ProposalID: 7})
	assert.NoError(t, err)

	got, err := scheduleDB.GetProposedTalkEventByID(id)
	assert.NoError(t, err)
	assert.NotNil(t, got.Proposal)
	assert.Equal(t, "Concurrency Patterns", got.Proposal.Title)
	assert.Equal(t, "/events/talk/7/", got.AbsoluteURL())
}

func TestScheduleOrderingAndLatest(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	base := time.Date(2016, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s := models.Schedule{
			ID:        uuid.New().String(),
			HTML:      "<table>rev</table>",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		assert.NoError(t, scheduleDB.CreateSchedule(&s))
	}

	// Default order is created_at descending
	schedules, err := scheduleDB.ListSchedules()
	assert.NoError(t, err)
	assert.Len(t, schedules, 3)
	for i := 1; i < len(schedules); i++ {
		assert.True(t, schedules[i-1].CreatedAt.After(schedules[i].CreatedAt))
	}

	latest, err := scheduleDB.LatestSchedule()
	assert.NoError(t, err)
	assert.True(t, latest.CreatedAt.Equal(base.Add(2*time.Hour)))
}

func TestLatestScheduleEmpty(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	_, err := scheduleDB.LatestSchedule()
	assert.ErrorIs(t, err, db.ErrScheduleNotFound)
}

func TestCreateScheduleAssignsCreatedAt(t *testing.T) {
	scheduleDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	s := models.Schedule{ID: uuid.New().String(), HTML: "<table></table>"}
	assert.NoError(t, scheduleDB.CreateSchedule(&s))
	assert.False(t, s.CreatedAt.IsZero())
}
