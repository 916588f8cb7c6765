package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// passthroughTx satisfies TxManager without a database.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *capturingDispatcher) captured() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

type fakeTicketRepo struct {
	mu         sync.Mutex
	seq        int
	tickets    map[string]domain.Ticket
	lastFilter *repository.TicketFilter
	stats      repository.TicketStats
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListAll(_ context.Context, _, _ int) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		result = append(result, t)
	}
	return result, nil
}

func (r *fakeTicketRepo) ListByOwner(_ context.Context, ownerID string, _, _ int) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, t := range r.tickets {
		if t.OwnerID == ownerID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) Search(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = &filter
	return nil, 0, nil
}

func (r *fakeTicketRepo) CollectStats(_ context.Context) (*repository.TicketStats, error) {
	stats := r.stats
	return &stats, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]domain.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	return result, nil
}

func (r *fakeUserRepo) ListByRoles(_ context.Context, roles ...domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		for _, role := range roles {
			if user.Role == role {
				result = append(result, user)
				break
			}
		}
	}
	return result, nil
}

type fakeRatingRepo struct {
	mu      sync.Mutex
	seq     int
	ratings map[string]domain.Rating // keyed by ticket id
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: map[string]domain.Rating{}}
}

func (r *fakeRatingRepo) GetByTicket(_ context.Context, ticketID string) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rating, ok := r.ratings[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := rating
	return &copied, nil
}

func (r *fakeRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rating.ID = fmt.Sprintf("rating-%d", r.seq)
	rating.CreatedAt = time.Now()
	rating.UpdatedAt = rating.CreatedAt
	r.ratings[rating.TicketID] = *rating
	return nil
}

func (r *fakeRatingRepo) Update(_ context.Context, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.ratings[rating.TicketID]
	if !ok || existing.ID != rating.ID {
		return pgx.ErrNoRows
	}
	rating.UpdatedAt = time.Now()
	r.ratings[rating.TicketID] = *rating
	return nil
}

func (r *fakeRatingRepo) Average(_ context.Context) (float64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ratings) == 0 {
		return 0, 0, nil
	}
	var sum int
	for _, rating := range r.ratings {
		sum += rating.Score
	}
	return float64(sum) / float64(len(r.ratings)), int64(len(r.ratings)), nil
}

type fakeTriageLogRepo struct {
	mu   sync.Mutex
	seq  int
	logs []domain.TriageLog
}

func (r *fakeTriageLogRepo) Create(_ context.Context, log *domain.TriageLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	log.ID = fmt.Sprintf("log-%d", r.seq)
	log.CreatedAt = time.Now()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeTriageLogRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TriageLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TriageLog
	for _, log := range r.logs {
		if log.TicketID != nil && *log.TicketID == ticketID {
			result = append(result, log)
		}
	}
	return result, nil
}

// headPicker always picks the first candidate, keeping tests deterministic.
type headPicker struct{}

func (headPicker) Pick(pool []domain.User) domain.User { return pool[0] }
