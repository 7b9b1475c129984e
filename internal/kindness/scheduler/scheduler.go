package scheduler

import (
	"log"
	"time"

	"jeetsocial/internal/kindness/repository"
)

// VoteRetentionScheduler prunes kindness vote rows whose tokens expired
// long ago. The rows only exist to block double spends; once a token's
// lifetime has passed it can never be redeemed again, so its hash is dead
// weight.
type VoteRetentionScheduler struct {
	voteRepo  repository.VoteRepository
	retention time.Duration
	interval  time.Duration
	stopChan  chan struct{}
}

// NewVoteRetentionScheduler creates a scheduler keeping votes for at least
// retention. The retention must be well beyond the kindness token TTL.
func NewVoteRetentionScheduler(voteRepo repository.VoteRepository, retention time.Duration) *VoteRetentionScheduler {
	return &VoteRetentionScheduler{
		voteRepo:  voteRepo,
		retention: retention,
		interval:  1 * time.Hour,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *VoteRetentionScheduler) Start() {
	log.Printf("[VoteRetention] Starting vote retention scheduler (retention: %s)", s.retention)

	go func() {
		// Run immediately on start
		s.prune()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.prune()
			case <-s.stopChan:
				log.Println("[VoteRetention] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *VoteRetentionScheduler) Stop() {
	close(s.stopChan)
}

func (s *VoteRetentionScheduler) prune() {
	cutoff := time.Now().UTC().Add(-s.retention)
	deleted, err := s.voteRepo.DeleteOlderThan(cutoff)
	if err != nil {
		log.Printf("[VoteRetention] Error pruning expired votes: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[VoteRetention] Pruned %d expired votes", deleted)
	}
}
