package store

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real postgres only when TEST_DATABASE_DSN is set.
func TestGormStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := OpenPostgres(dsn, log.New(os.Stdout, "[test] ", log.LstdFlags))
	require.NoError(t, err)
	s, err := NewGormStore(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Migrator().DropTable(&KeyValue{})
	})

	ctx := context.Background()

	var changed []string
	s.Watch(func(key string) { changed = append(changed, key) })

	require.NoError(t, s.SetMany(ctx, map[string][]byte{
		UsersKey:   []byte(`[{"id":"1"}]`),
		CoursesKey: []byte(`[]`),
	}))
	assert.Len(t, changed, 2)

	value, err := s.Get(ctx, UsersKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(value))

	require.NoError(t, s.Set(ctx, UsersKey, []byte(`[]`)))
	value, err = s.Get(ctx, UsersKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(value))

	require.NoError(t, s.Delete(ctx, CoursesKey))
	_, err = s.Get(ctx, CoursesKey)
	assert.ErrorIs(t, err, ErrNotFound)
}
