// Package store owns every credential, session, presentation and result of
// the sandbox. It is the only holder of mutable state: callers receive
// copies and write back whole records.
package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	credmodels "medssi/internal/credential/models"
	presmodels "medssi/internal/presentation/models"
	"medssi/internal/sentinel"
	vmodels "medssi/internal/verification/models"
	id "medssi/pkg/domain"
	dErrors "medssi/pkg/domain-errors"
	platformsync "medssi/pkg/platform/sync"
)

// Error Contract:
// - Return sentinel.ErrNotFound when the requested entity does not exist
// - Return sentinel.ErrAlreadyUsed when a unique key is taken by another record
// - Return nil for successful operations

// Shard contention metrics for monitoring lock behavior
var (
	shardLockWaitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "medssi_store_shard_lock_wait_seconds",
		Help:    "Time spent waiting to acquire an entity shard lock",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
	shardLockAcquisitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medssi_store_shard_lock_acquisitions_total",
		Help: "Total number of entity shard lock acquisitions",
	})
)

// defaultTxTimeout is the maximum duration for an entity transaction.
const defaultTxTimeout = 5 * time.Second

// ForgetSummary counts what a holder erasure removed.
type ForgetSummary struct {
	HolderDID     string
	Credentials   int
	Presentations int
	Results       int
}

// PurgeSummary counts what a session purge removed.
type PurgeSummary struct {
	Sessions      int
	Presentations int
	Results       int
}

// SweepResult counts what one expiry sweep removed.
type SweepResult struct {
	Credentials   int
	Sessions      int
	Presentations int
	Results       int
}

// Total is the number of records removed.
func (r SweepResult) Total() int {
	return r.Credentials + r.Sessions + r.Presentations + r.Results
}

// InMemoryStore keeps sandbox state in process memory.
//
// Reads and single writes are guarded by mu. Read-modify-write sequences on
// one entity are serialized with RunInTx, keyed by the entity ID.
type InMemoryStore struct {
	mu    sync.RWMutex
	locks *platformsync.ShardedMutex

	credentials     map[id.CredentialID]*credmodels.Offer
	credentialsByTx map[id.TransactionID]id.CredentialID
	sessions        map[id.SessionID]*vmodels.Session
	sessionsByTx    map[id.TransactionID]id.SessionID
	presentations   map[id.PresentationID]*presmodels.Presentation
	results         map[presmodels.ResultKey]*presmodels.Result
	resultSeq       map[presmodels.ResultKey]uint64
	seq             uint64
}

// New constructs an empty in-memory store.
func New() *InMemoryStore {
	s := &InMemoryStore{locks: platformsync.NewShardedMutex(platformsync.DefaultShards)}
	s.clear()
	return s
}

func (s *InMemoryStore) clear() {
	s.credentials = make(map[id.CredentialID]*credmodels.Offer)
	s.credentialsByTx = make(map[id.TransactionID]id.CredentialID)
	s.sessions = make(map[id.SessionID]*vmodels.Session)
	s.sessionsByTx = make(map[id.TransactionID]id.SessionID)
	s.presentations = make(map[id.PresentationID]*presmodels.Presentation)
	s.results = make(map[presmodels.ResultKey]*presmodels.Result)
	s.resultSeq = make(map[presmodels.ResultKey]uint64)
	s.seq = 0
}

// RunInTx serializes fn against every other transaction on the same key.
func (s *InMemoryStore) RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	lockStart := time.Now()
	return s.locks.WithLock(key, func() error {
		shardLockWaitDuration.Observe(time.Since(lockStart).Seconds())
		shardLockAcquisitions.Inc()
		if err := ctx.Err(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
		}
		return fn(ctx)
	})
}

// =============================================================================
// Credentials
// =============================================================================

// CreateCredential inserts a new offer. The transaction ID must be unused.
func (s *InMemoryStore) CreateCredential(_ context.Context, offer *credmodels.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.credentialsByTx[offer.TransactionID]; taken {
		return sentinel.ErrAlreadyUsed
	}
	if _, taken := s.credentials[offer.ID]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.credentials[offer.ID] = offer.Clone()
	s.credentialsByTx[offer.TransactionID] = offer.ID
	return nil
}

// UpdateCredential replaces an existing offer.
func (s *InMemoryStore) UpdateCredential(_ context.Context, offer *credmodels.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credentials[offer.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.credentials[offer.ID] = offer.Clone()
	return nil
}

func (s *InMemoryStore) FindCredential(_ context.Context, credentialID id.CredentialID) (*credmodels.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	offer, ok := s.credentials[credentialID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return offer.Clone(), nil
}

func (s *InMemoryStore) FindCredentialByTransaction(_ context.Context, txID id.TransactionID) (*credmodels.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	credentialID, ok := s.credentialsByTx[txID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.credentials[credentialID].Clone(), nil
}

// ListCredentialsByHolder returns the holder's credentials, oldest first.
func (s *InMemoryStore) ListCredentialsByHolder(_ context.Context, holderDID string) ([]*credmodels.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*credmodels.Offer
	for _, offer := range s.credentials {
		if offer.HolderDID == holderDID {
			out = append(out, offer.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *credmodels.Offer) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *InMemoryStore) DeleteCredential(_ context.Context, credentialID id.CredentialID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, ok := s.credentials[credentialID]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.deleteCredentialLocked(offer)
	return nil
}

func (s *InMemoryStore) deleteCredentialLocked(offer *credmodels.Offer) {
	delete(s.credentials, offer.ID)
	if s.credentialsByTx[offer.TransactionID] == offer.ID {
		delete(s.credentialsByTx, offer.TransactionID)
	}
}

// =============================================================================
// Sessions
// =============================================================================

// CreateSession inserts a new session. The transaction ID must be unused.
func (s *InMemoryStore) CreateSession(_ context.Context, session *vmodels.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.sessionsByTx[session.TransactionID]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.sessions[session.ID] = session.Clone()
	s.sessionsByTx[session.TransactionID] = session.ID
	return nil
}

// UpdateSession replaces an existing session.
func (s *InMemoryStore) UpdateSession(_ context.Context, session *vmodels.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *InMemoryStore) FindSession(_ context.Context, sessionID id.SessionID) (*vmodels.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return session.Clone(), nil
}

func (s *InMemoryStore) FindSessionByTransaction(_ context.Context, txID id.TransactionID) (*vmodels.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.sessionsByTx[txID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.sessions[sessionID].Clone(), nil
}

// PurgeSession removes a session and cascades to its presentations and results.
// Purging an unknown session is not an error.
func (s *InMemoryStore) PurgeSession(_ context.Context, sessionID id.SessionID) (PurgeSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeSessionLocked(sessionID), nil
}

func (s *InMemoryStore) purgeSessionLocked(sessionID id.SessionID) PurgeSummary {
	var summary PurgeSummary
	if session, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		if s.sessionsByTx[session.TransactionID] == sessionID {
			delete(s.sessionsByTx, session.TransactionID)
		}
		summary.Sessions = 1
	}
	for key := range s.results {
		if key.SessionID == sessionID {
			s.deleteResultLocked(key)
			summary.Results++
		}
	}
	for presentationID, p := range s.presentations {
		if p.SessionID == sessionID {
			delete(s.presentations, presentationID)
			summary.Presentations++
		}
	}
	return summary
}

// =============================================================================
// Presentations and results
// =============================================================================

// SaveResult persists a presentation together with its verification result.
func (s *InMemoryStore) SaveResult(_ context.Context, result *presmodels.Result) error {
	if result.Presentation == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "result without presentation")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[result.SessionID]; !ok {
		return sentinel.ErrNotFound
	}
	stored := result.Clone()
	s.presentations[stored.Presentation.ID] = stored.Presentation
	s.seq++
	s.results[stored.Key()] = stored
	s.resultSeq[stored.Key()] = s.seq
	return nil
}

func (s *InMemoryStore) deleteResultLocked(key presmodels.ResultKey) {
	delete(s.results, key)
	delete(s.resultSeq, key)
}

// LatestResult returns the most recently saved result for a session.
func (s *InMemoryStore) LatestResult(_ context.Context, sessionID id.SessionID) (*presmodels.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		latest *presmodels.Result
		maxSeq uint64
	)
	for key, result := range s.results {
		if key.SessionID != sessionID {
			continue
		}
		if seq := s.resultSeq[key]; latest == nil || seq > maxSeq {
			latest, maxSeq = result, seq
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	return latest.Clone(), nil
}

func (s *InMemoryStore) FindPresentation(_ context.Context, presentationID id.PresentationID) (*presmodels.Presentation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presentations[presentationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

// =============================================================================
// Erasure, expiry and reset
// =============================================================================

// ForgetHolder erases every credential, presentation and result bound to a holder DID.
func (s *InMemoryStore) ForgetHolder(_ context.Context, holderDID string) (ForgetSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := ForgetSummary{HolderDID: holderDID}
	for _, offer := range s.credentials {
		if offer.HolderDID == holderDID {
			s.deleteCredentialLocked(offer)
			summary.Credentials++
		}
	}
	for key, result := range s.results {
		if result.Presentation.HolderDID == holderDID {
			s.deleteResultLocked(key)
			summary.Results++
		}
	}
	for presentationID, p := range s.presentations {
		if p.HolderDID == holderDID {
			delete(s.presentations, presentationID)
			summary.Presentations++
		}
	}
	return summary, nil
}

// DeleteExpired removes every credential and session whose lifecycle
// predicate is false at now. Session removal cascades. Safe to run on an
// empty store and idempotent.
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res SweepResult
	for _, offer := range s.credentials {
		if !offer.IsActive(now) {
			s.deleteCredentialLocked(offer)
			res.Credentials++
		}
	}
	for sessionID, session := range s.sessions {
		if !session.IsActive(now) {
			purged := s.purgeSessionLocked(sessionID)
			res.Sessions += purged.Sessions
			res.Presentations += purged.Presentations
			res.Results += purged.Results
		}
	}
	return res, nil
}

// Reset clears all state atomically.
func (s *InMemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	return nil
}

// Stats is a point-in-time count of stored records.
type Stats struct {
	Credentials   int `json:"credentials"`
	Sessions      int `json:"sessions"`
	Presentations int `json:"presentations"`
	Results       int `json:"results"`
}

func (s *InMemoryStore) Stats(_ context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Credentials:   len(s.credentials),
		Sessions:      len(s.sessions),
		Presentations: len(s.presentations),
		Results:       len(s.results),
	}
}
