package app

import (
	"context"
	"log"
	"sync"
	"time"

	"finergy-service/internal/domain"
)

// CohortRanker produces a leaderboard snapshot for a zip-code cohort.
type CohortRanker interface {
	RankCohort(ctx context.Context, zipCode string) (domain.Leaderboard, error)
}

// CohortHub fans leaderboard snapshots out to websocket subscribers grouped
// by zip code. Ranking is recomputed on every score change; the hub holds no
// leaderboard state of its own.
type CohortHub struct {
	ranker CohortRanker

	mu      sync.Mutex
	cohorts map[string]map[chan domain.Leaderboard]struct{}
}

func NewCohortHub(ranker CohortRanker) *CohortHub {
	return &CohortHub{
		ranker:  ranker,
		cohorts: make(map[string]map[chan domain.Leaderboard]struct{}),
	}
}

// Subscribe registers for leaderboard updates of one cohort and delivers an
// initial snapshot. The caller must invoke the returned cancel function to
// avoid leaks.
func (h *CohortHub) Subscribe(ctx context.Context, zipCode string) (<-chan domain.Leaderboard, func(), error) {
	initial, err := h.ranker.RankCohort(ctx, zipCode)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Leaderboard, 8)

	h.mu.Lock()
	subs, ok := h.cohorts[zipCode]
	if !ok {
		subs = make(map[chan domain.Leaderboard]struct{})
		h.cohorts[zipCode] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	ch <- initial

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.cohorts[zipCode]; ok {
			if _, live := subs[ch]; live {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.cohorts, zipCode)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel, nil
}

// ScoreChanged recomputes the cohort leaderboard and broadcasts it. Writes
// already landed before this is called, so the rebroadcast runs detached
// from the request and only logs on failure.
func (h *CohortHub) ScoreChanged(zipCode string) {
	h.mu.Lock()
	_, hasSubs := h.cohorts[zipCode]
	h.mu.Unlock()
	if !hasSubs {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		board, err := h.ranker.RankCohort(ctx, zipCode)
		if err != nil {
			log.Printf("cohort rebroadcast failed for %s: %v", zipCode, err)
			return
		}
		h.broadcast(zipCode, board)
	}()
}

func (h *CohortHub) broadcast(zipCode string, board domain.Leaderboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.cohorts[zipCode] {
		select {
		case ch <- board:
		default:
			// Drop the stale snapshot so a slow reader never blocks the hub.
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
}
