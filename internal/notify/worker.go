package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/madanco/crewdeck/pkg/repository"
)

type WorkerPool struct {
	repo        repository.NotificationRepo
	handlers    map[string]Handler
	logger      *slog.Logger
	workerCount int
	stop        chan struct{}
	wg          sync.WaitGroup
}

func NewWorkerPool(repo repository.NotificationRepo, handlers map[string]Handler, logger *slog.Logger, workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{repo: repo, handlers: handlers, logger: logger, workerCount: workerCount, stop: make(chan struct{})}
}

// Start launches the worker goroutines
func (p *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop signals workers to stop and waits for them
func (p *WorkerPool) Stop() {
	close(p.stop)
	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			p.logger.Info("notify worker stopping", "id", id)
			return
		case <-ctx.Done():
			p.logger.Info("context canceled, notify worker exiting", "id", id)
			return
		default:
			n, err := p.repo.FetchNextNotification(ctx)
			if err != nil {
				p.logger.Error("fetch notification", "err", err)
				p.sleep(time.Second)
				continue
			}
			if n == nil {
				// queue drained
				p.sleep(200 * time.Millisecond)
				continue
			}
			h, ok := p.handlers[n.Type]
			if !ok {
				n.Status = "failed"
				n.LastError = "no handler"
				if err := p.repo.UpdateNotification(ctx, n); err != nil {
					p.logger.Error("dead-letter notification", "err", err)
				}
				continue
			}
			err = h(ctx, n)
			if err == nil {
				n.Status = "done"
				if err := p.repo.UpdateNotification(ctx, n); err != nil {
					p.logger.Error("mark notification done", "err", err)
				}
				continue
			}
			n.Attempts++
			n.LastError = err.Error()
			if n.Attempts >= n.MaxAttempts {
				n.Status = "failed"
			} else {
				n.Status = "retry"
				n.NextTryAt = time.Now().Add(BackoffDuration(n.Attempts)).UnixMilli()
			}
			if upErr := p.repo.UpdateNotification(ctx, n); upErr != nil {
				p.logger.Error("update notification after failure", "err", upErr)
			}
		}
	}
}

// sleep waits without blocking shutdown.
func (p *WorkerPool) sleep(d time.Duration) {
	select {
	case <-p.stop:
	case <-time.After(d):
	}
}
