package persistence

import (
	"os"

	"go.uber.org/zap"

	"pso/internal/core"
	"pso/internal/dictionary"
	"pso/internal/index"
)

// Snapshot is the in-memory state handed to Save and produced by Load*.
type Snapshot struct {
	Predicates  *dictionary.Dictionary
	Entities    *dictionary.Dictionary
	Index       *index.Index
	TripleCount uint64
}

// taskResult carries one fan-out task's outcome back over a channel, the
// way the teacher's cmd/smf parseSchemas helper reports concurrent work.
type taskResult struct {
	name string
	err  error
}

// Save overwrites all four on-disk artefacts for the database described by
// layout: info, id_predicates, id_entities, and one triplet/<pid> file per
// predicate. The four top-level writers run concurrently; the triple-file
// writer further fans out one goroutine per predicate, bounded by
// maxWorkers. Save blocks until every task completes; a single failing
// task fails the whole Save (§4.3).
func Save(layout Layout, snap Snapshot, maxWorkers int, log *zap.SugaredLogger) error {
	if err := os.MkdirAll(layout.TripletDir(), 0o755); err != nil {
		return &core.IOFailureError{Path: layout.TripletDir(), Err: err}
	}

	results := make(chan taskResult, 4)

	go func() {
		err := writeInfo(layout.InfoPath(), Info{
			TripleCount:    snap.TripleCount,
			PredicateCount: snap.Predicates.Size(),
			EntityCount:    snap.Entities.Size(),
		})
		results <- taskResult{"info", err}
	}()

	go func() {
		err := writeDictionary(layout.PredicatesPath(), snap.Predicates.Entries())
		results <- taskResult{"id_predicates", err}
	}()

	go func() {
		err := writeDictionary(layout.EntitiesPath(), snap.Entities.Entries())
		results <- taskResult{"id_entities", err}
	}()

	go func() {
		err := saveTriples(layout, snap, maxWorkers, log)
		results <- taskResult{"triplet", err}
	}()

	var firstErr error
	for i := 0; i < 4; i++ {
		r := <-results
		if r.err != nil {
			log.Errorw("save task failed", "task", r.name, "error", r.err)
			if firstErr == nil {
				firstErr = r.err
			}
		} else {
			log.Debugw("save task complete", "task", r.name)
		}
	}
	return firstErr
}

func saveTriples(layout Layout, snap Snapshot, maxWorkers int, log *zap.SugaredLogger) error {
	predicateCount := snap.Predicates.Size()
	sem := make(chan struct{}, workerCount(maxWorkers))
	results := make(chan taskResult, predicateCount)

	for pid := uint32(1); pid <= predicateCount; pid++ {
		pid := pid
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			bucket := snap.Index.Pairs(core.ID(pid))
			err := writeTripletFile(layout.TripletPath(pid), bucket)
			results <- taskResult{"triplet", err}
		}()
	}

	var firstErr error
	for i := uint32(0); i < predicateCount; i++ {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	return firstErr
}

// LoadBasic reads info, id_predicates, and id_entities only — no triple
// data is materialised (§4.3).
func LoadBasic(layout Layout, log *zap.SugaredLogger) (Snapshot, error) {
	if _, err := os.Stat(layout.dbDir()); err != nil {
		return Snapshot{}, &core.DatabaseMissingError{Name: layout.DBName}
	}

	info, err := readInfo(layout.InfoPath())
	if err != nil {
		return Snapshot{}, err
	}

	predEntries, entEntries, err := loadDictionaries(layout, info, log)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Predicates:  dictionary.LoadFromEntries(predEntries),
		Entities:    dictionary.LoadFromEntries(entEntries),
		Index:       index.New(),
		TripleCount: info.TripleCount,
	}, nil
}

func loadDictionaries(layout Layout, info Info, log *zap.SugaredLogger) ([]dictionary.Entry, []dictionary.Entry, error) {
	type dictResult struct {
		entries []dictionary.Entry
		err     error
	}
	predCh := make(chan dictResult, 1)
	entCh := make(chan dictResult, 1)

	go func() {
		entries, err := readDictionary(layout.PredicatesPath(), info.PredicateCount)
		predCh <- dictResult{entries, err}
	}()
	go func() {
		entries, err := readDictionary(layout.EntitiesPath(), info.EntityCount)
		entCh <- dictResult{entries, err}
	}()

	predRes := <-predCh
	entRes := <-entCh
	if predRes.err != nil {
		return nil, nil, predRes.err
	}
	if entRes.err != nil {
		return nil, nil, entRes.err
	}
	log.Debugw("dictionaries loaded", "predicates", len(predRes.entries), "entities", len(entRes.entries))
	return predRes.entries, entRes.entries, nil
}

// LoadAll is LoadBasic followed by a concurrent read of every predicate's
// triple file (§4.3).
func LoadAll(layout Layout, maxWorkers int, log *zap.SugaredLogger) (Snapshot, error) {
	snap, err := LoadBasic(layout, log)
	if err != nil {
		return Snapshot{}, err
	}

	pids := make([]core.ID, snap.Predicates.Size())
	for i := range pids {
		pids[i] = core.ID(i + 1)
	}
	loadTriples(layout, snap, pids, maxWorkers, log)
	return snap, nil
}

// LoadPartial is LoadBasic followed by a concurrent read of only the
// triple files for the predicates in pids (§4.3).
func LoadPartial(layout Layout, pids []core.ID, maxWorkers int, log *zap.SugaredLogger) (Snapshot, error) {
	snap, err := LoadBasic(layout, log)
	if err != nil {
		return Snapshot{}, err
	}
	loadTriples(layout, snap, pids, maxWorkers, log)
	return snap, nil
}

// loadTriples reads the triple files for pids concurrently, bounded by
// maxWorkers. Each task owns the bucket for its own predicate, so results
// can be written back to snap.Index without additional synchronisation
// (§5: "each task writes to a disjoint bucket"). A single predicate's
// missing or unreadable file is logged and leaves that predicate's bucket
// empty rather than aborting the others (§4.3, §7). Malformed lines inside
// a readable file are skipped by readTripletFile and are not logged.
func loadTriples(layout Layout, snap Snapshot, pids []core.ID, maxWorkers int, log *zap.SugaredLogger) {
	type bucketResult struct {
		pid core.ID
		b   *index.Bucket
		err error
	}

	sem := make(chan struct{}, workerCount(maxWorkers))
	results := make(chan bucketResult, len(pids))

	for _, pid := range pids {
		pid := pid
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			b, err := readTripletFile(layout.TripletPath(uint32(pid)))
			results <- bucketResult{pid, b, err}
		}()
	}

	for range pids {
		r := <-results
		if r.err != nil {
			log.Warnw("triple file unavailable, leaving predicate unindexed", "pid", r.pid, "error", r.err)
			continue
		}
		snap.Index.SetBucket(r.pid, r.b)
	}
}

func workerCount(maxWorkers int) int {
	if maxWorkers <= 0 {
		return 1
	}
	return maxWorkers
}
