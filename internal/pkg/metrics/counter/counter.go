package counter

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const gatewayRequestsKey = "gateway:counters:requests"

// HashStore is the part of the Redis client the counters use.
type HashStore interface {
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// Counters tracks gateway usage per method and entity kind. A nil store
// turns every call into a no-op.
type Counters struct {
	store HashStore
}

func New(store HashStore) *Counters {
	return &Counters{store: store}
}

// Enabled reports whether counters are persisted.
func (c *Counters) Enabled() bool {
	return c != nil && c.store != nil
}

// Add increments the counter for field.
func (c *Counters) Add(ctx context.Context, field string) error {
	if !c.Enabled() {
		return nil
	}
	return c.store.HIncrBy(ctx, gatewayRequestsKey, field, 1).Err()
}

// Snapshot returns all counters.
func (c *Counters) Snapshot(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	if !c.Enabled() {
		return out, nil
	}
	raw, err := c.store.HGetAll(ctx, gatewayRequestsKey).Result()
	if err != nil {
		return nil, err
	}
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[field] = n
	}
	return out, nil
}

// Middleware counts requests of the route it is attached to as
// "METHOD kind", or "METHOD path" for routes without a kind parameter.
// Counting failures are logged and never fail the request.
func (c *Counters) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !c.Enabled() {
			return ctx.Next()
		}
		target := ctx.Params("kind")
		if target == "" {
			target = ctx.Route().Path
		}
		field := ctx.Method() + " " + target
		err := ctx.Next()
		if cerr := c.Add(ctx.UserContext(), field); cerr != nil {
			log.Warnf("[Counter] could not count %s: %v", field, cerr)
		}
		return err
	}
}
