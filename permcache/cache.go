// Package permcache caches resolved capability masks per signed-in user.
//
// Entries are keyed by user id and role, so a role change yields a fresh
// key. Logout clears every entry through [Cache.ClearAll].
package permcache

import (
	"context"
	"strconv"

	"github.com/MrEthical07/goAuthState/permission"
)

// Key identifies one cached mask.
type Key struct {
	UserID int64
	Role   permission.Role
}

func (k Key) String() string {
	return strconv.FormatInt(k.UserID, 10) + ":" + string(k.Role)
}

// Cache stores capability masks. Implementations are safe for concurrent
// use. Get never returns an error: a failing backend is a miss.
type Cache interface {
	Get(ctx context.Context, key Key) (permission.Mask64, bool)
	Set(ctx context.Context, key Key, mask permission.Mask64) error
	ClearAll(ctx context.Context) error
}

// Stats reports cache effectiveness.
type Stats struct {
	Size    int
	MaxSize int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// None caches nothing.
type None struct{}

func (None) Get(context.Context, Key) (permission.Mask64, bool) { return 0, false }
func (None) Set(context.Context, Key, permission.Mask64) error  { return nil }
func (None) ClearAll(context.Context) error                     { return nil }
