package bookingsvc

import (
	"context"
	"time"
)

// Cleaner releases pending drafts whose payment never arrived.
type Cleaner interface {
	ReleaseExpired(ctx context.Context) (int64, error)
}

type cleaner struct {
	br  BookingRepo
	ttl time.Duration
}

func NewCleaner(br BookingRepo, ttl time.Duration) Cleaner {
	return &cleaner{br: br, ttl: ttl}
}

func (c *cleaner) ReleaseExpired(ctx context.Context) (int64, error) {
	return c.br.ExpirePending(ctx, time.Now().UTC().Add(-c.ttl))
}
