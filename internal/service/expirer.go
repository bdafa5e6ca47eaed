package service

import (
	"context"
	"sync"
	"time"

	"github.com/okellodev/dukani/internal/domain"
	"go.uber.org/zap"
)

const defaultExpirerInterval = 1 * time.Hour

// ExpirerService periodically marks lapsed subscriptions as expired:
// trials past their trial end, and active subscriptions past their paid
// period end.
type ExpirerService struct {
	subscriptionStore domain.SubscriptionStore
	logger            *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewExpirerService(ss domain.SubscriptionStore, logger *zap.Logger) *ExpirerService {
	return &ExpirerService{
		subscriptionStore: ss,
		logger:            logger,
		interval:          defaultExpirerInterval,
		stopCh:            make(chan struct{}),
	}
}

func (s *ExpirerService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the expirer on a periodic schedule in a background goroutine.
func (s *ExpirerService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("subscription expirer started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.run(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("subscription expirer stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the expirer.
func (s *ExpirerService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *ExpirerService) run(ctx context.Context) {
	expired, err := s.subscriptionStore.ExpireLapsed(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to expire lapsed subscriptions", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("expired lapsed subscriptions", zap.Int64("count", expired))
	}
}
