package bot

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"modbot/moderation"
	"modbot/utils"
)

// Scheduler runs the background tasks of the bot: the unmute scheduler and
// the bot log delivery.
type Scheduler struct {
	unmutes *moderation.UnmuteScheduler
	botLog  *utils.BotLog
	log     *logrus.Entry
}

func NewScheduler(unmutes *moderation.UnmuteScheduler, botLog *utils.BotLog) *Scheduler {
	return &Scheduler{
		unmutes: unmutes,
		botLog:  botLog,
		log:     logrus.WithField("module", "scheduler"),
	}
}

// Run blocks until ctx is cancelled and every task has returned. A batch of
// reversals that already started is allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.unmutes.Start(ctx)
	defer s.unmutes.Stop()

	g, gctx := errgroup.WithContext(ctx)
	if s.botLog != nil {
		g.Go(func() error {
			return s.botLog.Run(gctx)
		})
	}
	<-ctx.Done()

	err := g.Wait()
	s.log.Info("Scheduler stopped.")
	return err
}
