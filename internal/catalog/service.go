package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/monitoring"

	"github.com/jonboulle/clockwork"
)

var ErrEventNotFound = errors.New("event not found")

// EventSource is the subset of the GraphQL API the catalog reads from.
type EventSource interface {
	Events(ctx context.Context, category string) ([]models.APIEvent, error)
	Event(ctx context.Context, id string) (*models.APIEvent, error)
	ProducerPublicProfile(ctx context.Context, producerID string) (*models.APIProducer, []models.APIEvent, error)
}

// EventCard is an event decorated with what the listing needs to render it.
type EventCard struct {
	models.Event
	SaleStatus  SaleStatus `json:"saleStatus"`
	BadgeLabel  string     `json:"badge,omitempty"`
	LowestPrice float64    `json:"lowestPrice"`
	Active      bool       `json:"active"`
}

type HomeView struct {
	Featured []EventCard `json:"featured"`
	Trending []EventCard `json:"trending"`
	Upcoming []EventCard `json:"upcoming"`
	Recent   []EventCard `json:"recent"`
	All      []EventCard `json:"all"`
}

type ProducerProfile struct {
	Producer models.EventProducer `json:"producer"`
	Company  string               `json:"companyName,omitempty"`
	Events   []EventCard          `json:"events"`
}

type decoded struct {
	payload []byte
	events  []models.Event
}

type Service struct {
	api   EventSource
	cache EventCache
	clock clockwork.Clock
	loc   *time.Location
	log   *logger.Logger
	memo  SectionMemo

	mu   sync.Mutex
	last map[string]decoded
}

// NewService builds the catalog. cache may be nil, which disables caching. loc is
// the buyers' time zone; event days roll over at its midnight.
func NewService(api EventSource, cache EventCache, clock clockwork.Clock, loc *time.Location, log *logger.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		api:   api,
		cache: cache,
		clock: clock,
		loc:   loc,
		log:   log,
		last:  make(map[string]decoded),
	}
}

// Events lists events for a category, "all" or "" meaning every category.
func (s *Service) Events(ctx context.Context, category string) ([]models.Event, error) {
	if category == "" {
		category = "all"
	}

	if s.cache != nil {
		payload, ok, err := s.cache.Get(ctx, category)
		if err != nil {
			s.log.Warn("REDIS", err.Error())
		}
		monitoring.TrackCatalogCache(ok)
		if ok {
			if events, err := s.decode(category, payload); err == nil {
				return events, nil
			}
			s.log.Warn("CATALOG", fmt.Sprintf("Discarding unreadable cache entry for %s", category))
		}
	}

	apiEvents, err := s.api.Events(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	events := MapAPIEvents(apiEvents)

	payload, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to encode events: %w", err)
	}
	s.remember(category, payload, events)
	if s.cache != nil {
		if err := s.cache.Set(ctx, category, payload); err != nil {
			s.log.Warn("REDIS", err.Error())
		}
	}
	s.log.Debug("CATALOG", fmt.Sprintf("Loaded %d events for %s", len(events), category))
	return events, nil
}

// decode reuses the previously decoded slice when the cached payload is unchanged,
// so the section memo sees the same list identity.
func (s *Service) decode(category string, payload []byte) ([]models.Event, error) {
	s.mu.Lock()
	prev, ok := s.last[category]
	s.mu.Unlock()
	if ok && bytes.Equal(prev.payload, payload) {
		return prev.events, nil
	}

	var events []models.Event
	if err := json.Unmarshal(payload, &events); err != nil {
		return nil, err
	}
	s.remember(category, payload, events)
	return events, nil
}

func (s *Service) remember(category string, payload []byte, events []models.Event) {
	s.mu.Lock()
	s.last[category] = decoded{payload: payload, events: events}
	s.mu.Unlock()
}

func (s *Service) Event(ctx context.Context, id string) (*models.Event, error) {
	apiEvent, err := s.api.Event(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", id, err)
	}
	if apiEvent == nil {
		return nil, ErrEventNotFound
	}
	event := MapAPIEvent(*apiEvent)
	return &event, nil
}

func (s *Service) Home(ctx context.Context) (*HomeView, error) {
	events, err := s.Events(ctx, "all")
	if err != nil {
		return nil, err
	}
	sections := s.memo.Sections(events, s.now())

	return &HomeView{
		Featured: s.Cards(sections.Featured, false),
		Trending: s.Cards(sections.Trending, false),
		Upcoming: s.Cards(sections.Upcoming, false),
		Recent:   s.Cards(sections.Recent, true),
		All:      s.Cards(sections.All, false),
	}, nil
}

func (s *Service) Suggestions(ctx context.Context, query string, max int) ([]models.Event, error) {
	if len([]rune(query)) < minSuggestionQuery {
		return []models.Event{}, nil
	}
	events, err := s.Events(ctx, "all")
	if err != nil {
		return nil, err
	}
	return FilterSuggestions(events, query, max), nil
}

func (s *Service) ProducerProfile(ctx context.Context, producerID string) (*ProducerProfile, error) {
	producer, apiEvents, err := s.api.ProducerPublicProfile(ctx, producerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch producer %s: %w", producerID, err)
	}
	if producer == nil {
		return nil, ErrEventNotFound
	}

	profile := &ProducerProfile{
		Producer: models.EventProducer{ID: producer.ID, Name: defaultProducerName},
		Events:   s.Cards(MapAPIEvents(apiEvents), false),
	}
	if producer.User != nil {
		profile.Producer.Name = producer.User.Name
		if producer.User.PhotoURL != nil {
			profile.Producer.PhotoURL = *producer.User.PhotoURL
		}
	}
	if producer.CompanyName != nil {
		profile.Company = *producer.CompanyName
	}
	return profile, nil
}

// Invalidate drops cached listings after the catalog changes upstream.
func (s *Service) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	s.last = make(map[string]decoded)
	s.mu.Unlock()
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		return err
	}
	s.log.Info("CATALOG", "Event cache invalidated")
	return nil
}

func (s *Service) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *Service) Cards(events []models.Event, showNew bool) []EventCard {
	now := s.now()
	cards := make([]EventCard, 0, len(events))
	for _, e := range events {
		status, label, _ := Badge(e, showNew)
		cards = append(cards, EventCard{
			Event:       e,
			SaleStatus:  status,
			BadgeLabel:  label,
			LowestPrice: LowestPrice(e),
			Active:      IsEventActive(e, now),
		})
	}
	return cards
}
