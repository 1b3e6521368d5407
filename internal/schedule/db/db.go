package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-schedule/internal/models"
)

var (
	ErrTimeNotFound     = errors.New("time not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrProposalNotFound = errors.New("proposal not found")
	ErrScheduleNotFound = errors.New("schedule not found")
)

type DB struct {
	Bun *bun.DB
}

// ---------------- TIMES ----------------

// GetTimeByValue → fetch the unique time row matching value exactly
func (d *DB) GetTimeByValue(value time.Time) (*models.Time, error) {
	var t models.Time
	err := d.Bun.NewSelect().
		Model(&t).
		Where("value = ?", value).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTimeNotFound, value.Format(time.RFC3339))
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetOrCreateTime → return the row for value, inserting it on first reference
func (d *DB) GetOrCreateTime(value time.Time) (*models.Time, error) {
	t := models.Time{Value: value}
	_, err := d.Bun.NewInsert().
		Model(&t).
		On("CONFLICT (value) DO NOTHING").
		Exec(context.Background())
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTimes → all time rows in chronological order
func (d *DB) ListTimes() ([]models.Time, error) {
	var times []models.Time
	err := d.Bun.NewSelect().
		Model(&times).
		Order("value ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return times, nil
}

// ---------------- CUSTOM EVENTS ----------------

func (d *DB) CreateCustomEvent(ev models.CustomEvent) error {
	_, err := d.Bun.NewInsert().Model(&ev).Exec(context.Background())
	return err
}

func (d *DB) GetCustomEventByID(id string) (*models.CustomEvent, error) {
	var ev models.CustomEvent
	err := d.Bun.NewSelect().
		Model(&ev).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: custom event %s", ErrEventNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (d *DB) UpdateCustomEvent(ev models.CustomEvent) error {
	_, err := d.Bun.NewUpdate().
		Model(&ev).
		Column("title", "location", "begin_time", "end_time").
		Where("id = ?", ev.ID).
		Exec(context.Background())
	return err
}

func (d *DB) DeleteCustomEvent(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.CustomEvent)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

func (d *DB) ListCustomEvents() ([]models.CustomEvent, error) {
	var events []models.CustomEvent
	err := d.Bun.NewSelect().
		Model(&events).
		Order("begin_time ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ---------------- KEYNOTE EVENTS ----------------

func (d *DB) CreateKeynoteEvent(ev models.KeynoteEvent) error {
	_, err := d.Bun.NewInsert().Model(&ev).Exec(context.Background())
	return err
}

func (d *DB) GetKeynoteEventByID(id string) (*models.KeynoteEvent, error) {
	var ev models.KeynoteEvent
	err := d.Bun.NewSelect().
		Model(&ev).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: keynote event %s", ErrEventNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetKeynoteEventBySlug → slug is the stable page-fragment key
func (d *DB) GetKeynoteEventBySlug(slug string) (*models.KeynoteEvent, error) {
	var ev models.KeynoteEvent
	err := d.Bun.NewSelect().
		Model(&ev).
		Where("slug = ?", slug).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: keynote slug %s", ErrEventNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (d *DB) UpdateKeynoteEvent(ev models.KeynoteEvent) error {
	_, err := d.Bun.NewUpdate().
		Model(&ev).
		Column("speaker_name", "slug", "location", "begin_time", "end_time").
		Where("id = ?", ev.ID).
		Exec(context.Background())
	return err
}

func (d *DB) DeleteKeynoteEvent(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.KeynoteEvent)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

func (d *DB) ListKeynoteEvents() ([]models.KeynoteEvent, error) {
	var events []models.KeynoteEvent
	err := d.Bun.NewSelect().
		Model(&events).
		Order("begin_time ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ---------------- SPONSORED EVENTS ----------------

func (d *DB) CreateSponsoredEvent(ev models.SponsoredEvent) error {
	_, err := d.Bun.NewInsert().Model(&ev).Exec(context.Background())
	return err
}

func (d *DB) GetSponsoredEventBySlug(slug string) (*models.SponsoredEvent, error) {
	var ev models.SponsoredEvent
	err := d.Bun.NewSelect().
		Model(&ev).
		Where("slug = ?", slug).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: sponsored slug %s", ErrEventNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (d *DB) UpdateSponsoredEvent(ev models.SponsoredEvent) error {
	_, err := d.Bun.NewUpdate().
		Model(&ev).
		Column("title", "category", "language", "abstract", "host_id", "slug",
			"location", "begin_time", "end_time").
		Where("id = ?", ev.ID).
		Exec(context.Background())
	return err
}

func (d *DB) DeleteSponsoredEvent(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.SponsoredEvent)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

func (d *DB) ListSponsoredEvents() ([]models.SponsoredEvent, error) {
	var events []models.SponsoredEvent
	err := d.Bun.NewSelect().
		Model(&events).
		Order("begin_time ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ---------------- PROPOSED TALK EVENTS ----------------
// The proposal info is needed almost every time a talk event is read, so
// every select JOINs it in the same query instead of issuing one lookup per
// row afterwards.

func (d *DB) CreateProposedTalkEvent(ev models.ProposedTalkEvent) error {
	_, err := d.Bun.NewInsert().Model(&ev).Exec(context.Background())
	return err
}

func (d *DB) GetProposedTalkEventByID(id string) (*models.ProposedTalkEvent, error) {
	var ev models.ProposedTalkEvent
	err := d.Bun.NewSelect().
		Model(&ev).
		Relation("Proposal").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: talk event %s", ErrEventNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (d *DB) UpdateProposedTalkEvent(ev models.ProposedTalkEvent) error {
	_, err := d.Bun.NewUpdate().
		Model(&ev).
		Column("proposal_id", "location", "begin_time", "end_time").
		Where("id = ?", ev.ID).
		Exec(context.Background())
	return err
}

func (d *DB) DeleteProposedTalkEvent(id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.ProposedTalkEvent)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

func (d *DB) ListProposedTalkEvents() ([]models.ProposedTalkEvent, error) {
	var events []models.ProposedTalkEvent
	err := d.Bun.NewSelect().
		Model(&events).
		Relation("Proposal").
		Order("begin_time ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetProposalByID → fetch a proposal row for the accepted-flag check
func (d *DB) GetProposalByID(id int64) (*models.TalkProposal, error) {
	var p models.TalkProposal
	err := d.Bun.NewSelect().
		Model(&p).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: proposal %d", ErrProposalNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ---------------- SCHEDULES ----------------

// CreateSchedule → insert a new snapshot; created_at is assigned here, never
// by the caller
func (d *DB) CreateSchedule(s *models.Schedule) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := d.Bun.NewInsert().Model(s).Exec(context.Background())
	return err
}

// ListSchedules → all snapshots, newest first
func (d *DB) ListSchedules() ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := d.Bun.NewSelect().
		Model(&schedules).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// LatestSchedule → the snapshot with the maximum created_at
func (d *DB) LatestSchedule() (*models.Schedule, error) {
	var s models.Schedule
	err := d.Bun.NewSelect().
		Model(&s).
		Order("created_at DESC").
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
