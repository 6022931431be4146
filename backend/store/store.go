// Package store holds the key-value persistence the rest of the backend treats
// as its single source of truth.
package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// Keys of the persisted collections. They match the web client's storage keys
// so exported data stays loadable.
const (
	UsersKey       = "skillnexis_admin_users"
	CoursesKey     = "skillnexis_admin_courses"
	QuizzesKey     = "skillnexis_admin_quizzes"
	StatsKey       = "skillnexis_admin_stats"
	SessionPrefix  = "skillnexis_user:"
	PracticePrefix = "skillnexis_practice:"
)

var ErrNotFound = errors.New("store: key not found")

// Store is a byte-oriented key-value store. Implementations must make SetMany
// atomic: either every entry is written or none is. A nil value in SetMany
// deletes the key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	SetMany(ctx context.Context, entries map[string][]byte) error
}

// Watcher is implemented by stores that report committed key changes.
type Watcher interface {
	Watch(fn func(key string))
}

func SessionKey(sessionID string) string {
	return SessionPrefix + sessionID
}

// PracticeKey is where a user's draft for a practice challenge is kept.
func PracticeKey(userID string, challengeID int) string {
	return PracticePrefix + userID + ":" + strconv.Itoa(challengeID)
}

type notifier struct {
	mu  sync.RWMutex
	fns []func(key string)
}

func (n *notifier) Watch(fn func(key string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fns = append(n.fns, fn)
}

func (n *notifier) notify(keys ...string) {
	n.mu.RLock()
	fns := make([]func(string), len(n.fns))
	copy(fns, n.fns)
	n.mu.RUnlock()

	for _, key := range keys {
		for _, fn := range fns {
			fn(key)
		}
	}
}
