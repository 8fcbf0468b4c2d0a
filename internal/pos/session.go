package pos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/redis"
)

// CartLine is one item selected for sale at the register.
type CartLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	SKU      string    `json:"sku"`
	Name     string    `json:"name"`
	Price    int64     `json:"price"`
	Quantity int       `json:"quantity"`
}

// Session is the register's working state between selecting a record and
// committing checkout. It lives in redis with a TTL; nothing here is
// persisted until the commit.
type Session struct {
	RegisterID      string     `json:"register_id"`
	ServiceRecordID uuid.UUID  `json:"service_record_id"`
	RecordCode      string     `json:"record_code"`
	CustomerName    string     `json:"customer_name"`
	Cart            []CartLine `json:"cart"`
	LaborCost       int64      `json:"labor_cost"`
	OpenedAt        time.Time  `json:"opened_at"`
}

// Total recomputes the quote from the current cart and labor.
func (s *Session) Total() int64 {
	var total int64
	for _, line := range s.Cart {
		total += line.Price * int64(line.Quantity)
	}
	return total + s.LaborCost
}

// SessionStore keeps register sessions in redis keyed by register id.
type SessionStore interface {
	Load(ctx context.Context, registerID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, registerID string) error
}

type sessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wires a redis-backed session store.
func NewSessionStore(client *redis.Client, ttl time.Duration) (SessionStore, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "redis client required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionStore{client: client, ttl: ttl}, nil
}

func (s *sessionStore) Load(ctx context.Context, registerID string) (*Session, error) {
	raw, err := s.client.Get(ctx, s.client.RegisterSessionKey(registerID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open register session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load register session")
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode register session")
	}
	return &session, nil
}

func (s *sessionStore) Save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode register session")
	}
	key := s.client.RegisterSessionKey(session.RegisterID)
	if err := s.client.Set(ctx, key, payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store register session")
	}
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, registerID string) error {
	if err := s.client.Del(ctx, s.client.RegisterSessionKey(registerID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete register session")
	}
	return nil
}
