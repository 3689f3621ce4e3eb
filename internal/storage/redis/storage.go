package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lifecompass/attribution/internal/model"
	"github.com/lifecompass/attribution/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Device identity operations

func (s *Storage) SaveDeviceIdentity(ctx context.Context, id model.DeviceIdentity) error {
	return s.client.Set(ctx, s.identityKey(), string(id), 0).Err()
}

func (s *Storage) GetDeviceIdentity(ctx context.Context) (model.DeviceIdentity, error) {
	val, err := s.client.Get(ctx, s.identityKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrIdentityNotFound
		}
		return "", err
	}
	return model.DeviceIdentity(val), nil
}

// Pending referral operations

func (s *Storage) SavePendingReferral(ctx context.Context, p *model.PendingReferral) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.pendingReferralKey(), data, 0).Err()
}

func (s *Storage) GetPendingReferral(ctx context.Context) (*model.PendingReferral, error) {
	data, err := s.client.Get(ctx, s.pendingReferralKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoPendingReferral
		}
		return nil, err
	}

	var pending model.PendingReferral
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

// TakePendingReferral reads and deletes the pending record in one GETDEL, so
// concurrent conversions cannot both claim it.
func (s *Storage) TakePendingReferral(ctx context.Context) (*model.PendingReferral, error) {
	data, err := s.client.GetDel(ctx, s.pendingReferralKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoPendingReferral
		}
		return nil, err
	}

	var pending model.PendingReferral
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *Storage) DeletePendingReferral(ctx context.Context) error {
	return s.client.Del(ctx, s.pendingReferralKey()).Err()
}

// Completed referral log operations

func (s *Storage) AppendCompletedReferral(ctx context.Context, c *model.CompletedReferral) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.completedReferralsKey(), data).Err()
}

func (s *Storage) GetCompletedReferrals(ctx context.Context) ([]*model.CompletedReferral, error) {
	entries, err := s.client.LRange(ctx, s.completedReferralsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	completed := make([]*model.CompletedReferral, 0, len(entries))
	for _, entry := range entries {
		var c model.CompletedReferral
		if err := json.Unmarshal([]byte(entry), &c); err != nil {
			continue // Skip invalid data
		}
		completed = append(completed, &c)
	}
	return completed, nil
}

// Referral notification operations

func (s *Storage) AppendNotification(ctx context.Context, n *model.ReferralNotification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.notificationsKey(), data).Err()
}

func (s *Storage) GetNotifications(ctx context.Context) ([]*model.ReferralNotification, error) {
	entries, err := s.client.LRange(ctx, s.notificationsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	notifications := make([]*model.ReferralNotification, 0, len(entries))
	for _, entry := range entries {
		var n model.ReferralNotification
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			continue // Skip invalid data
		}
		notifications = append(notifications, &n)
	}
	return notifications, nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, id string) error {
	key := s.notificationsKey()

	entries, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return err
	}

	for i, entry := range entries {
		var n model.ReferralNotification
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			continue
		}
		if n.ID != id {
			continue
		}
		n.Read = true
		data, err := json.Marshal(&n)
		if err != nil {
			return err
		}
		return s.client.LSet(ctx, key, int64(i), data).Err()
	}

	return model.ErrNotificationNotFound
}

// Manually entered referral code operations

func (s *Storage) SaveEnteredCode(ctx context.Context, code string) error {
	return s.client.Set(ctx, s.enteredCodeKey(), code, 0).Err()
}

func (s *Storage) TakeEnteredCode(ctx context.Context) (string, error) {
	code, err := s.client.GetDel(ctx, s.enteredCodeKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrNoEnteredCode
		}
		return "", err
	}
	if code == "" {
		return "", model.ErrNoEnteredCode
	}
	return code, nil
}

// Founder assignment operations

func (s *Storage) SaveFounderAssignment(ctx context.Context, a *model.FounderAssignment) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.founderAssignmentKey(), data, 0).Err()
}

func (s *Storage) GetFounderAssignment(ctx context.Context) (*model.FounderAssignment, error) {
	data, err := s.client.Get(ctx, s.founderAssignmentKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoAssignment
		}
		return nil, err
	}

	var assignment model.FounderAssignment
	if err := json.Unmarshal(data, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}
