package schedule

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ms-schedule/internal/models"
)

const (
	maxTitleLen   = 140
	maxSpeakerLen = 100
)

var (
	ErrProposalNotAccepted = errors.New("only accepted proposals can be scheduled")
	ErrEmptyHTML           = errors.New("schedule html must not be empty")
)

type DBLayer interface {
	GetTimeByValue(value time.Time) (*models.Time, error)
	GetOrCreateTime(value time.Time) (*models.Time, error)
	ListTimes() ([]models.Time, error)

	CreateCustomEvent(ev models.CustomEvent) error
	GetCustomEventByID(id string) (*models.CustomEvent, error)
	UpdateCustomEvent(ev models.CustomEvent) error
	DeleteCustomEvent(id string) error
	ListCustomEvents() ([]models.CustomEvent, error)

	CreateKeynoteEvent(ev models.KeynoteEvent) error
	GetKeynoteEventByID(id string) (*models.KeynoteEvent, error)
	GetKeynoteEventBySlug(slug string) (*models.KeynoteEvent, error)
	UpdateKeynoteEvent(ev models.KeynoteEvent) error
	DeleteKeynoteEvent(id string) error
	ListKeynoteEvents() ([]models.KeynoteEvent, error)

	CreateSponsoredEvent(ev models.SponsoredEvent) error
	GetSponsoredEventBySlug(slug string) (*models.SponsoredEvent, error)
	UpdateSponsoredEvent(ev models.SponsoredEvent) error
	DeleteSponsoredEvent(id string) error
	ListSponsoredEvents() ([]models.SponsoredEvent, error)

	CreateProposedTalkEvent(ev models.ProposedTalkEvent) error
	GetProposedTalkEventByID(id string) (*models.ProposedTalkEvent, error)
	UpdateProposedTalkEvent(ev models.ProposedTalkEvent) error
	DeleteProposedTalkEvent(id string) error
	ListProposedTalkEvents() ([]models.ProposedTalkEvent, error)
	GetProposalByID(id int64) (*models.TalkProposal, error)

	CreateSchedule(s *models.Schedule) error
	ListSchedules() ([]models.Schedule, error)
	LatestSchedule() (*models.Schedule, error)
}

type SnapshotCache interface {
	SetLatest(s models.Schedule) error
	GetLatest() (*models.Schedule, error)
}

type KafkaPublisher interface {
	PublishSchedulePublished(s models.Schedule) error
	PublishEventChanged(kind, action, id string) error
}

type SnapshotEmitter interface {
	Emit(s models.Schedule)
}

type ScheduleService struct {
	DB      DBLayer
	Cache   SnapshotCache
	Kafka   KafkaPublisher
	Emitter SnapshotEmitter
}

func NewScheduleService(db DBLayer, cache SnapshotCache, kafka KafkaPublisher, emitter SnapshotEmitter) *ScheduleService {
	return &ScheduleService{DB: db, Cache: cache, Kafka: kafka, Emitter: emitter}
}

// validateSlot checks the shared placement fields. Begin/end may be set
// independently and no begin <= end rule applies; only the location code is
// checked against the fixed taxonomy.
func validateSlot(slot models.EventSlot) error {
	if slot.Location != "" && !models.ValidLocation(slot.Location) {
		return fmt.Errorf("%w: %q", models.ErrUnknownLocation, slot.Location)
	}
	return nil
}

// registerSlotTimes makes sure every referenced instant exists as a Time row.
func (s *ScheduleService) registerSlotTimes(slot models.EventSlot) error {
	for _, t := range []*time.Time{slot.BeginTime, slot.EndTime} {
		if t == nil {
			continue
		}
		if _, err := s.DB.GetOrCreateTime(*t); err != nil {
			return fmt.Errorf("failed to register time %s: %w", t.Format(time.RFC3339), err)
		}
	}
	return nil
}

// ---------------- TIMES ----------------

func (s *ScheduleService) GetTime(value time.Time) (*models.Time, error) {
	return s.DB.GetTimeByValue(value)
}

func (s *ScheduleService) ListTimes() ([]models.Time, error) {
	return s.DB.ListTimes()
}

// ---------------- CUSTOM EVENTS ----------------

func (s *ScheduleService) AddCustomEvent(ev models.CustomEvent) (*models.CustomEvent, error) {
	if ev.Title == "" {
		return nil, errors.New("title is required")
	}
	if utf8.RuneCountInString(ev.Title) > maxTitleLen {
		return nil, fmt.Errorf("title exceeds %d characters", maxTitleLen)
	}
	if err := validateSlot(ev.EventSlot); err != nil {
		return nil, err
	}
	if err := s.registerSlotTimes(ev.EventSlot); err != nil {
		return nil, err
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if err := s.DB.CreateCustomEvent(ev); err != nil {
		return nil, fmt.Errorf("failed to create custom event: %w", err)
	}

	s.publishEventChanged("custom", "created", ev.ID)
	return &ev, nil
}

func (s *ScheduleService) UpdateCustomEvent(id string, ev models.CustomEvent) error {
	existing, err := s.DB.GetCustomEventByID(id)
	if err != nil {
		return err
	}
	if ev.Title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(ev.Title) > maxTitleLen {
		return fmt.Errorf("title exceeds %d characters", maxTitleLen)
	}
	if err := validateSlot(ev.EventSlot); err != nil {
		return err
	}
	if err := s.registerSlotTimes(ev.EventSlot); err != nil {
		return err
	}

	ev.ID = existing.ID
	if err := s.DB.UpdateCustomEvent(ev); err != nil {
		return fmt.Errorf("failed to update custom event: %w", err)
	}

	s.publishEventChanged("custom", "updated", id)
	return nil
}

func (s *ScheduleService) RemoveCustomEvent(id string) error {
	if _, err := s.DB.GetCustomEventByID(id); err != nil {
		return err
	}
	if err := s.DB.DeleteCustomEvent(id); err != nil {
		return fmt.Errorf("failed to delete custom event: %w", err)
	}
	s.publishEventChanged("custom", "deleted", id)
	return nil
}

func (s *ScheduleService) GetCustomEvent(id string) (*models.CustomEvent, error) {
	return s.DB.GetCustomEventByID(id)
}

func (s *ScheduleService) ListCustomEvents() ([]models.CustomEvent, error) {
	return s.DB.ListCustomEvents()
}

// ---------------- KEYNOTE EVENTS ----------------

func (s *ScheduleService) AddKeynoteEvent(ev models.KeynoteEvent) (*models.KeynoteEvent, error) {
	if ev.SpeakerName == "" {
		return nil, errors.New("speaker name is required")
	}
	if utf8.RuneCountInString(ev.SpeakerName) > maxSpeakerLen {
		return nil, fmt.Errorf("speaker name exceeds %d characters", maxSpeakerLen)
	}
	if ev.Slug == "" {
		ev.Slug = models.Slugify(ev.SpeakerName)
	}
	if !models.ValidSlug(ev.Slug) {
		return nil, fmt.Errorf("invalid slug %q", ev.Slug)
	}
	if err := validateSlot(ev.EventSlot); err != nil {
		return nil, err
	}
	if err := s.registerSlotTimes(ev.EventSlot); err != nil {
		return nil, err
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if err := s.DB.CreateKeynoteEvent(ev); err != nil {
		return nil, fmt.Errorf("failed to create keynote event: %w", err)
	}

	s.publishEventChanged("keynote", "created", ev.ID)
	return &ev, nil
}

func (s *ScheduleService) UpdateKeynoteEvent(id string, ev models.KeynoteEvent) error {
	existing, err := s.DB.GetKeynoteEventByID(id)
	if err != nil {
		return err
	}
	if ev.SpeakerName == "" {
		return errors.New("speaker name is required")
	}
	if utf8.RuneCountInString(ev.SpeakerName) > maxSpeakerLen {
		return fmt.Errorf("speaker name exceeds %d characters", maxSpeakerLen)
	}
	if ev.Slug == "" {
		ev.Slug = existing.Slug
	}
	if !models.ValidSlug(ev.Slug) {
		return fmt.Errorf("invalid slug %q", ev.Slug)
	}
	if err := validateSlot(ev.EventSlot); err != nil {
		return err
	}
	if err := s.registerSlotTimes(ev.EventSlot); err != nil {
		return err
	}

	ev.ID = existing.ID
	if err := s.DB.UpdateKeynoteEvent(ev); err != nil {
		return fmt.Errorf("failed to update keynote event: %w", err)
	}

	s.publishEventChanged("keynote", "updated", id)
	return nil
}

func (s *ScheduleService) RemoveKeynoteEvent(id string) error {
	if _, err := s.DB.GetKeynoteEventByID(id); err != nil {
		return err
	}
	if err := s.DB.DeleteKeynoteEvent(id); err != nil {
		return fmt.Errorf("failed to delete keynote event: %w", err)
	}
	s.publishEventChanged("keynote", "deleted", id)
	return nil
}

func (s *ScheduleService) GetKeynoteEventBySlug(slug string) (*models.KeynoteEvent, error) {
	return s.DB.GetKeynoteEventBySlug(slug)
}

func (s *ScheduleService) ListKeynoteEvents() ([]models.KeynoteEvent, error) {
	return s.DB.ListKeynoteEvents()
}

// ---------------- SPONSORED EVENTS ----------------

func (s *ScheduleService) AddSponsoredEvent(ev models.SponsoredEvent) (*models.SponsoredEvent, error) {
	if ev.Title == "" {
		return nil, errors.New("title is required")
	}
	if ev.HostID == "" {
		return nil, errors.New("host is required")
	}
	if ev.Slug == "" {
		ev.Slug = models.SlugifyUnicode(ev.Title)
	}
	if !models.ValidUnicodeSlug(ev.Slug) {
		return nil, fmt.Errorf("invalid slug %q", ev.Slug)
	}
	if err := validateSlot(ev.EventSlot); err != nil {
		return nil, err
	}
	if err := s.registerSlotTimes(ev.EventSlot); err != nil {
		return nil, err
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if err := s.DB.CreateSponsoredEvent(ev); err != nil {
		return nil, fmt.Errorf("failed to create sponsored event: %w", err)
	}

	s.publishEventChanged("sponsored", "created", ev.ID)
	return &ev, nil
}

func (s *ScheduleService) UpdateSponsoredEvent(ev models.SponsoredEvent) error {
	if ev.ID == "" {
		return errors.New("event id is required")
	}
	if ev.Title == "" {
		return errors.New("title is required")
	}
	if !models.ValidUnicodeSlug(ev.Slug) {
		return fmt.Errorf("invalid slug %q", ev.Slug)
	}
	if err := validateSlot(ev.EventSlot); err != nil {
		return err
	}
	if err := s.registerSlotTimes(ev.EventSlot); err != nil {
		return err
	}

	if err := s.DB.UpdateSponsoredEvent(ev); err != nil {
		return fmt.Errorf("failed to update sponsored event: %w", err)
	}

	s.publishEventChanged("sponsored", "updated", ev.ID)
	return nil
}

func (s *ScheduleService) RemoveSponsoredEvent(id string) error {
	if err := s.DB.DeleteSponsoredEvent(id); err != nil {
		return fmt.Errorf("failed to delete sponsored event: %w", err)
	}
	s.publishEventChanged("sponsored", "deleted", id)
	return nil
}

func (s *ScheduleService) GetSponsoredEventBySlug(slug string) (*models.SponsoredEvent, error) {
	return s.DB.GetSponsoredEventBySlug(slug)
}

func (s *ScheduleService) ListSponsoredEvents() ([]models.SponsoredEvent, error) {
	return s.DB.ListSponsoredEvents()
}

// ---------------- PROPOSED TALK EVENTS ----------------

// checkProposalAccepted enforces the choice-limiting contract: a talk event
// may only point at a proposal whose accepted flag is set.
func (s *ScheduleService) checkProposalAccepted(proposalID int64) error {
	proposal, err := s.DB.GetProposalByID(proposalID)
	if err != nil {
		return err
	}
	if !proposal.Accepted {
		return fmt.Errorf("%w: proposal %d", ErrProposalNotAccepted, proposalID)
	}
	return nil
}

func (s *ScheduleService) ScheduleProposedTalk(ev models.ProposedTalkEvent) (*models.ProposedTalkEvent, error) {
	if err := s.checkProposalAccepted(ev.ProposalID); err != nil {
		return nil, err
	}
	if err := validateSlot(ev.EventSlot); err != nil {
		return nil, err
	}
	if err := s.registerSlotTimes(ev.EventSlot); err != nil {
		return nil, err
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if err := s.DB.CreateProposedTalkEvent(ev); err != nil {
		return nil, fmt.Errorf("failed to create talk event: %w", err)
	}

	s.publishEventChanged("talk", "created", ev.ID)
	return &ev, nil
}

func (s *ScheduleService) UpdateProposedTalkEvent(id string, ev models.ProposedTalkEvent) error {
	existing, err := s.DB.GetProposedTalkEventByID(id)
	if err != nil {
		return err
	}
	if ev.ProposalID == 0 {
		ev.ProposalID = existing.ProposalID
	}
	if err := s.checkProposalAccepted(ev.ProposalID); err != nil {
		return err
	}
	if err := validateSlot(ev.EventSlot); err != nil {
		return err
	}
	if err := s.registerSlotTimes(ev.EventSlot); err != nil {
		return err
	}

	ev.ID = existing.ID
	if err := s.DB.UpdateProposedTalkEvent(ev); err != nil {
		return fmt.Errorf("failed to update talk event: %w", err)
	}

	s.publishEventChanged("talk", "updated", id)
	return nil
}

// WithdrawProposedTalk removes a talk event, e.g. when the talk is withdrawn.
func (s *ScheduleService) WithdrawProposedTalk(id string) error {
	if _, err := s.DB.GetProposedTalkEventByID(id); err != nil {
		return err
	}
	if err := s.DB.DeleteProposedTalkEvent(id); err != nil {
		return fmt.Errorf("failed to delete talk event: %w", err)
	}
	s.publishEventChanged("talk", "deleted", id)
	return nil
}

func (s *ScheduleService) GetProposedTalkEvent(id string) (*models.ProposedTalkEvent, error) {
	return s.DB.GetProposedTalkEventByID(id)
}

func (s *ScheduleService) ListProposedTalkEvents() ([]models.ProposedTalkEvent, error) {
	return s.DB.ListProposedTalkEvents()
}

// ---------------- SCHEDULES ----------------

// PublishSchedule stores a new rendered snapshot, caches it, and notifies
// downstream consumers. The snapshot is immutable once written.
func (s *ScheduleService) PublishSchedule(html string) (*models.Schedule, error) {
	if html == "" {
		return nil, ErrEmptyHTML
	}

	snapshot := models.Schedule{
		ID:   uuid.New().String(),
		HTML: html,
	}
	if err := s.DB.CreateSchedule(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to store schedule snapshot: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.SetLatest(snapshot); err != nil {
			fmt.Printf("Failed to cache schedule snapshot %s: %v\n", snapshot.ID, err)
		}
	}
	if s.Kafka != nil {
		if err := s.Kafka.PublishSchedulePublished(snapshot); err != nil {
			fmt.Printf("Kafka publish error (schedule published): %v\n", err)
		}
	}
	if s.Emitter != nil {
		s.Emitter.Emit(snapshot)
	}

	return &snapshot, nil
}

// LatestSchedule serves the cached snapshot when available and falls back to
// the database, refilling the cache on a miss.
func (s *ScheduleService) LatestSchedule() (*models.Schedule, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.GetLatest(); err == nil && cached != nil {
			return cached, nil
		}
	}

	snapshot, err := s.DB.LatestSchedule()
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetLatest(*snapshot); err != nil {
			fmt.Printf("Failed to refill schedule cache: %v\n", err)
		}
	}
	return snapshot, nil
}

func (s *ScheduleService) ListSchedules() ([]models.Schedule, error) {
	return s.DB.ListSchedules()
}

func (s *ScheduleService) publishEventChanged(kind, action, id string) {
	if s.Kafka == nil {
		return
	}
	if err := s.Kafka.PublishEventChanged(kind, action, id); err != nil {
		fmt.Printf("Kafka publish error (%s %s): %v\n", kind, action, err)
	}
}
