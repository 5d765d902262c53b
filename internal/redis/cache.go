package redis

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ring2park-microservices/users-service/internal/models"
)

const accountViewKeyPrefix = "account:view:"

// AccountViewCache is the JSON-backed Redis store for account read model
// projections, keyed by account id. A TTL of 0 keeps entries until they are
// explicitly invalidated.
type AccountViewCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewAccountViewCache(client *goredis.Client, ttl time.Duration) *AccountViewCache {
	return &AccountViewCache{client: client, ttl: ttl}
}

func key(id int64) string {
	return accountViewKeyPrefix + strconv.FormatInt(id, 10)
}

// Get retrieves and unmarshals the cached view for an account.
// Returns (nil, false) on any miss or deserialisation error.
func (c *AccountViewCache) Get(ctx context.Context, id int64) (*models.AccountView, bool) {
	data, err := c.client.Get(ctx, key(id)).Result()
	if err != nil {
		return nil, false
	}
	var view models.AccountView
	if err := json.Unmarshal([]byte(data), &view); err != nil {
		return nil, false
	}
	return &view, true
}

// Set stores or refreshes the cached view for an account.
// Errors are logged rather than returned — a cache write miss is non-fatal.
func (c *AccountViewCache) Set(ctx context.Context, view *models.AccountView) {
	data, err := json.Marshal(view)
	if err != nil {
		log.Printf("AccountViewCache: marshal error for account %d: %v", view.ID, err)
		return
	}
	if err := c.client.Set(ctx, key(view.ID), data, c.ttl).Err(); err != nil {
		log.Printf("AccountViewCache: write error for account %d: %v", view.ID, err)
	}
}

// Delete removes the cached view for an account.
func (c *AccountViewCache) Delete(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		log.Printf("AccountViewCache: delete error for account %d: %v", id, err)
	}
}
