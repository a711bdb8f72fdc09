package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	FilmCreated       Type = "film.created"
	FilmDeleted       Type = "film.deleted"
	FilmLiked         Type = "film.liked"
	FilmUnliked       Type = "film.unliked"
	UserCreated       Type = "user.created"
	UserDeleted       Type = "user.deleted"
	UserFriendAdded   Type = "user.friend_added"
	UserFriendRemoved Type = "user.friend_removed"
)

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	FilmID     int64     `json:"film_id,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	FriendID   int64     `json:"friend_id,omitempty"`
}

func New(t Type) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}

func Film(t Type, filmID int64) Event {
	e := New(t)
	e.FilmID = filmID
	return e
}

func Like(t Type, filmID, userID int64) Event {
	e := New(t)
	e.FilmID = filmID
	e.UserID = userID
	return e
}

func User(t Type, userID int64) Event {
	e := New(t)
	e.UserID = userID
	return e
}

func Friend(t Type, userID, friendID int64) Event {
	e := New(t)
	e.UserID = userID
	e.FriendID = friendID
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type TaskExecutor interface {
	Add(task func()) error
}

// Dispatcher hands events to a Publisher on the background pool. Publishing
// failures are logged and never reach the request that produced the event.
type Dispatcher struct {
	log       *slog.Logger
	publisher Publisher
	tasks     TaskExecutor
	timeout   time.Duration
}

func NewDispatcher(log *slog.Logger, publisher Publisher, tasks TaskExecutor, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		log:       log,
		publisher: publisher,
		tasks:     tasks,
		timeout:   timeout,
	}
}

func (d *Dispatcher) Dispatch(e Event) {
	const op = "events.Dispatcher.Dispatch"
	log := d.log.With("op", op, "event_id", e.ID, "type", e.Type)
	err := d.tasks.Add(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.publisher.Publish(ctx, e); err != nil {
			log.Error("failed to publish event", "errMsg", err.Error())
		}
	})
	if err != nil {
		log.Warn("event dropped", "reason", err.Error())
	}
}

// LogPublisher writes events to the log; used when no broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	p.log.DebugContext(ctx, "domain event",
		"event_id", e.ID,
		"type", e.Type,
		"film_id", e.FilmID,
		"user_id", e.UserID,
		"friend_id", e.FriendID,
	)
	return nil
}
