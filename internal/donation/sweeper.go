package donation

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RunExpirySweeper expires overdue donations every interval until ctx is done.
func (s *Service) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("expiry sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			n, err := s.ExpireOverdue(ctx)
			if err != nil {
				s.log.Error("expiry sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.log.Info("donations expired", zap.Int64("count", n))
			}
		}
	}
}
