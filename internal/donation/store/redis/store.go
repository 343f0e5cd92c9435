// Package redis implements the donation store on Redis. Atomicity comes from
// optimistic WATCH transactions: a concurrent write to the same record aborts
// the transaction, and the losing writer re-reads and re-validates. That gives
// the same first-writer-wins semantics as the SQL store without cross-request
// locks.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"givebridge/internal/donation"
	"givebridge/pkg/platform/sentinel"
	"givebridge/pkg/requestcontext"
)

var txDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "givebridge_redis_store_tx_duration_ms",
	Help:    "Latency of redis donation store transactions in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const (
	donationKeyPrefix = "donation:"
	indexKey          = "donation:ids"

	// maxTxRetries bounds how often an aborted WATCH transaction is retried.
	// Contention on a single donation is a handful of writers at most, so
	// exhausting this means something is systematically wrong.
	maxTxRetries = 16
)

// Store implements donation.Store against Redis.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(id string) string { return donationKeyPrefix + id }

func (s *Store) Create(ctx context.Context, d *donation.Donation) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal donation: %w", err)
	}
	ok, err := s.client.SetNX(ctx, key(d.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("store donation: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	if err := s.client.SAdd(ctx, indexKey, d.ID).Err(); err != nil {
		return fmt.Errorf("index donation: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*donation.Donation, error) {
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get donation: %w", err)
	}
	return unmarshalDonation(raw)
}

func (s *Store) List(ctx context.Context, status donation.Status) ([]*donation.Donation, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list donation ids: %w", err)
	}
	out := make([]*donation.Donation, 0, len(ids))
	for _, id := range ids {
		d, err := s.Get(ctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if status != "" && d.Status != status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) CompareAndSwapStatus(ctx context.Context, id string, expected, next donation.Status, patch donation.Patch) (*donation.Donation, error) {
	return s.update(ctx, id, func(d *donation.Donation) error {
		if d.Status != expected {
			return sentinel.ErrConflict
		}
		d.Status = next
		donation.ApplyPatch(d, patch)
		return nil
	})
}

func (s *Store) ApplyConfirmation(ctx context.Context, id string, party donation.Party, verificationCode string) (*donation.Donation, error) {
	now := requestcontext.Now(ctx)
	return s.update(ctx, id, func(d *donation.Donation) error {
		return donation.ConfirmRecord(d, party, verificationCode, now)
	})
}

// update runs mutate inside a WATCH transaction on the donation key and
// retries when a concurrent writer aborts it. mutate sees the freshly read
// record on every attempt, so validation and the write land atomically.
func (s *Store) update(ctx context.Context, id string, mutate func(*donation.Donation) error) (*donation.Donation, error) {
	start := time.Now()
	defer func() {
		txDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	var updated *donation.Donation
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read donation: %w", err)
		}
		d, err := unmarshalDonation(raw)
		if err != nil {
			return err
		}
		if err := mutate(d); err != nil {
			return err
		}
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshal donation: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(id), data, 0)
			return nil
		})
		if err == nil {
			updated = d
		}
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key(id))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("donation %s: %w", id, sentinel.ErrUnavailable)
}

func unmarshalDonation(raw []byte) (*donation.Donation, error) {
	var d donation.Donation
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("unmarshal donation: %w", err)
	}
	return &d, nil
}
