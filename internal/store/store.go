package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"go-pos-ledger/internal/models"
)

// Source says where a load actually got its data from.
type Source string

const (
	SourceCloud Source = "cloud" // fresh copy from the hosted endpoint
	SourceLocal Source = "local" // offline fallback snapshot
	SourceSeed  Source = "seed"  // nothing persisted anywhere yet
)

// LoadResult reports how a read went. Reads never fail outright: the worst
// case is the seed document plus the errors that forced the degradation.
type LoadResult struct {
	Source   Source
	CloudErr error
	LocalErr error
}

// Degraded is true when the cloud copy was wanted but could not be used.
func (r LoadResult) Degraded() bool {
	return r.CloudErr != nil
}

// SaveResult reports how a write went, per target. The local write is the
// durability floor; a cloud failure alone still counts as a (degraded)
// success.
type SaveResult struct {
	LocalErr error
	CloudErr error
}

// Failed is true only when the document could not be persisted anywhere.
func (r SaveResult) Failed() bool {
	return r.LocalErr != nil
}

// Degraded is true when the document is safe locally but did not reach the
// cloud.
func (r SaveResult) Degraded() bool {
	return r.LocalErr == nil && r.CloudErr != nil
}

// Store is the single handle to the shop document. Every mutator goes
// through it, so the read-modify-write hazard lives in exactly one place.
//
// The mutex serializes mutators within this process; two tills pointed at
// the same cloud endpoint still race each other (last PUT wins, duplicate
// invoice numbers possible while offline). That gap is a product decision,
// not something this layer papers over.
type Store struct {
	mu    sync.Mutex
	cloud *CloudClient
	local LocalStore
}

// New builds the store handle. cloud may be nil for a purely local deployment.
func New(cloud *CloudClient, local LocalStore) *Store {
	return &Store{cloud: cloud, local: local}
}

// Load returns the current document, always structurally complete: every
// collection non-nil, every entry a decodable object, the seed admin present
// when employees were never initialized.
func (s *Store) Load(ctx context.Context) (models.AppState, LoadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) (models.AppState, LoadResult) {
	var res LoadResult

	if s.cloudReady() {
		body, err := s.cloud.Fetch(ctx)
		if err != nil {
			res.CloudErr = err
			log.Println("⚠️ Cloud read failed, falling back to local copy:", err)
		} else if body != nil {
			doc, perr := parseDocument(body)
			if perr != nil {
				res.CloudErr = perr
				log.Println("⚠️ Cloud document unreadable, falling back to local copy:", perr)
			} else if doc != nil {
				res.Source = SourceCloud
				return buildState(doc), res
			}
		}
	}

	blob, err := s.local.ReadBlob()
	if err != nil {
		res.LocalErr = err
		log.Println("⚠️ Local snapshot unreadable:", err)
	} else if blob != "" {
		doc, perr := parseDocument([]byte(blob))
		if perr != nil {
			res.LocalErr = perr
			log.Println("⚠️ Local snapshot corrupt, starting from seed:", perr)
		} else if doc != nil {
			res.Source = SourceLocal
			return buildState(doc), res
		}
	}

	res.Source = SourceSeed
	return models.DefaultState(), res
}

// Save persists the whole document: local snapshot first, then a best-effort
// overwrite of the cloud copy. A cloud failure never rolls back the local
// write.
func (s *Store) Save(ctx context.Context, state models.AppState) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, state)
}

func (s *Store) saveLocked(ctx context.Context, state models.AppState) SaveResult {
	var res SaveResult

	data, err := json.Marshal(state)
	if err != nil {
		res.LocalErr = err
		return res
	}

	if err := s.local.WriteBlob(string(data)); err != nil {
		res.LocalErr = err
		log.Println("❌ Local save failed:", err)
	}

	if s.cloudReady() {
		if err := s.cloud.Put(ctx, data); err != nil {
			res.CloudErr = err
			log.Println("⚠️ Cloud sync failed, document is local-only:", err)
		}
	}

	return res
}

func (s *Store) cloudReady() bool {
	return s.cloud != nil && s.cloud.Configured()
}

// Cloud exposes the client for the status endpoint's reachability probe.
func (s *Store) Cloud() *CloudClient {
	return s.cloud
}
