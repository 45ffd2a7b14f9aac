package redisstore

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
)

const revokedPrefix = "session:revoked:" // string key prefix: session:revoked:{token id} -> "1"

// Revoker stores signed-out token ids with a TTL matching the token expiry.
type Revoker struct {
	client *redis.Client
	now    func() time.Time // mockable
}

var _ session.Revoker = (*Revoker)(nil)

func NewClient(conf *core.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
}

// Ping checks the connection to the redis server.
func Ping(ctx context.Context, client *redis.Client) error {
	return errors.Wrap(client.Ping(ctx).Err(), "pinging redis")
}

func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client, now: time.Now}
}

func revokedKey(tokenID string) string {
	return revokedPrefix + tokenID
}

func (r *Revoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil // already expired
	}
	if err := r.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return errors.Wrap(err, "storing revoked token")
	}
	return nil
}

func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, errors.Wrap(err, "checking revoked token")
	}
	return n > 0, nil
}
