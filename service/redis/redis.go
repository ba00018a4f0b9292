package redis

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/stakevault/goapi/base/ctx"
)

// Forever means the key is stored without an expire
const Forever = time.Duration(-1)

var (
	// ErrNotFound is returned when the key does not exist. It aliases
	// redigo's nil reply so raw command results compare equal too.
	ErrNotFound = redis.ErrNil

	// ErrNoTTL is returned by TTL when the key has no associated expire
	ErrNoTTL = errors.New("key has no ttl")

	// ErrGapTime is returned when no pool is available to serve the command
	ErrGapTime = errors.New("in gap time, no redis available")

	// ErrExpireNotExistOrTimeout is returned by Expire when the key does
	// not exist or the timeout could not be set
	ErrExpireNotExistOrTimeout = errors.New("key not exist or timeout can't be set")
)

// Service is the redis facade used across the repo. All values are raw
// bytes; callers handle their own serialization except the *Struct helpers.
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	GetSet(context ctx.Ctx, key string, val []byte, expire time.Duration) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	SetXX(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, ks ...string) (int, error)
	Unlink(context ctx.Ctx, ks ...string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
	Expire(context ctx.Ctx, key string, ttl time.Duration) error
	TTL(context ctx.Ctx, key string) (int, error)
	Incr(context ctx.Ctx, key string) (int64, error)
	Incrby(context ctx.Ctx, key string, val int) (int64, error)
	SetStruct(context ctx.Ctx, key string, val interface{}, expire time.Duration) error
	GetStruct(context ctx.Ctx, key string, val interface{}) error
	GetConn() (redis.Conn, error)
	Name() string
}
