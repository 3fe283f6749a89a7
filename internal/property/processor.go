package property

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Processor periodically sweeps the installment schedule, moving unpaid
// installments past their due date to OVERDUE so listings and dashboard
// counts stay accurate without recomputing on every read
type Processor struct {
	db            *Database
	sweepInterval time.Duration
}

func NewProcessor(db *Database, sweepInterval time.Duration) *Processor {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &Processor{
		db:            db,
		sweepInterval: sweepInterval,
	}
}

// Start begins the sweep loop. An immediate sweep runs on startup so a
// restarted server catches up on installments that lapsed while it was down.
func (p *Processor) Start(ctx context.Context) {
	logger := log.With().Str("component", "installment_processor").Logger()
	logger.Info().Dur("interval", p.sweepInterval).Msg("starting installment processor")

	p.sweep()

	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down installment processor")
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

func (p *Processor) sweep() {
	logger := log.With().Str("component", "installment_processor").Logger()

	marked, err := p.db.MarkOverdueInstallments(time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("failed to mark overdue installments")
		return
	}

	if marked > 0 {
		logger.Info().Int64("marked_overdue", marked).Msg("installment sweep completed")
	}
}
