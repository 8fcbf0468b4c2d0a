package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return value, nil
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

type namedJob struct {
	name string
	runs int
	err  error
}

func (j *namedJob) Name() string { return j.name }

func (j *namedJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestRegistryPreservesOrder(t *testing.T) {
	first := &namedJob{name: "first"}
	second := &namedJob{name: "second"}

	registry := NewRegistry(first, second)
	registry.Register(nil)
	registry.Register(&namedJob{name: "third"})

	jobs := registry.Jobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, "first", jobs[0].Name())
	assert.Equal(t, "second", jobs[1].Name())
	assert.Equal(t, "third", jobs[2].Name())
}

func TestRedisLockAcquireRelease(t *testing.T) {
	store := newFakeRedisStore()
	ctx := context.Background()

	lock, err := NewRedisLock(store, "bh:lock:cron-worker", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	competitor, err := NewRedisLock(store, "bh:lock:cron-worker", time.Minute)
	require.NoError(t, err)
	ok, err = competitor.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.Release(ctx))

	ok, err = competitor.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockRelease_onlyOwner(t *testing.T) {
	store := newFakeRedisStore()
	ctx := context.Background()

	lock, err := NewRedisLock(store, "bh:lock:cron-worker", time.Minute)
	require.NoError(t, err)
	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// Simulate the lock expiring and another worker taking it over.
	store.values["bh:lock:cron-worker"] = "someone-else"

	require.NoError(t, lock.Release(ctx))
	assert.Equal(t, "someone-else", store.values["bh:lock:cron-worker"])
}

type countingSweeper struct {
	deleted int64
	err     error
	calls   int
}

func (s *countingSweeper) SweepExpired(ctx context.Context) (int64, error) {
	s.calls++
	return s.deleted, s.err
}

func TestNotificationExpiryJob(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	sweeper := &countingSweeper{deleted: 4}

	job, err := NewNotificationExpiryJob(NotificationExpiryJobParams{Logger: logg, Sweeper: sweeper})
	require.NoError(t, err)
	assert.Equal(t, "notification-expiry", job.Name())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, sweeper.calls)

	sweeper.err = errors.New("db down")
	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notification expiry sweep")
}

func TestNotificationExpiryJob_requiresDeps(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	_, err := NewNotificationExpiryJob(NotificationExpiryJobParams{Logger: logg})
	require.Error(t, err)

	_, err = NewNotificationExpiryJob(NotificationExpiryJobParams{Sweeper: &countingSweeper{}})
	require.Error(t, err)
}
