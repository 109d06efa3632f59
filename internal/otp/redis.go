package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript deletes the key only when the stored code matches, so two
// concurrent verifications cannot both succeed.
var consumeScript = redis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if not stored then
  return 0
end
if stored == ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 1
end
return 0
`)

// RedisStore relies on key expiry for the validity window.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	return r.client.Set(ctx, otpKey(email), code, ttl).Err()
}

func (r *RedisStore) Consume(ctx context.Context, email, code string) (bool, error) {
	matched, err := consumeScript.Run(ctx, r.client, []string{otpKey(email)}, code).Int()
	if err != nil {
		return false, err
	}
	return matched == 1, nil
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:%s", email)
}
