package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis счетчик с фиксированным окном в общем хранилище, одинаковый для всех инстансов.
type Redis struct {
	client *redis.Client
	prefix string
	window time.Duration
	max    int
}

func NewRedis(client *redis.Client, prefix string, window time.Duration, max int) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		window: window,
		max:    max,
	}
}

func (r *Redis) key(client string) string {
	return fmt.Sprintf("%s:ratelimit:%s", r.prefix, client)
}

// allowScript увеличивает счетчик и ставит TTL окна в одной транзакции.
// Ключ без TTL (например, после сбоя старой версии) тоже получает TTL.
var allowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

func (r *Redis) Allow(ctx context.Context, client string) (bool, error) {
	const op = "ratelimit.Redis.Allow"

	count, err := allowScript.Run(ctx, r.client, []string{r.key(client)}, r.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return count <= int64(r.max), nil
}
