package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/madanco/crewdeck/pkg/models"
)

// RefreshData refetches all three collections concurrently and replaces the
// cache wholesale once every fetch has succeeded. The cache is not considered
// consistent until all three are in.
func (c *Client) RefreshData(ctx context.Context) error {
	var (
		users []models.User
		jobs  []models.Job
		comms []models.Communication
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.do(gctx, "GET", "/users", nil, &users)
	})
	g.Go(func() error {
		return c.do(gctx, "GET", "/jobs", nil, &jobs)
	})
	g.Go(func() error {
		return c.do(gctx, "GET", "/communications", nil, &comms)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.users = users
	c.jobs = jobs
	c.comms = comms
	c.mu.Unlock()
	return nil
}
