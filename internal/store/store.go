// Package store implements the Database façade (§4.4): the builder that
// constructs a Database in one of four modes and exposes the lookup
// operations the planner and executor query against.
package store

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/zap"

	"pso/internal/core"
	"pso/internal/dictionary"
	"pso/internal/index"
	"pso/internal/persistence"
)

// Options configures ambient policy that spec.md left as implicit
// constants: where database directories live and how much fan-out
// persistence is allowed to use (§5, SPEC_FULL.md AMBIENT STACK).
type Options struct {
	Root       string
	MaxWorkers int
	Log        *zap.SugaredLogger
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = zap.NewNop().Sugar()
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = 1
	}
	return o
}

// Database owns the dictionary and predicate index for one named triple
// store (§3 Ownership).
type Database struct {
	name        string
	opts        Options
	predicates  *dictionary.Dictionary
	entities    *dictionary.Dictionary
	idx         *index.Index
	tripleCount uint64
}

func newEmpty(name string, opts Options) *Database {
	return &Database{
		name:       name,
		opts:       opts.withDefaults(),
		predicates: dictionary.New(),
		entities:   dictionary.New(),
		idx:        index.New(),
	}
}

func (db *Database) layout() persistence.Layout {
	return persistence.Layout{Root: db.opts.Root, DBName: db.name}
}

// Create builds a new Database named dbName and, if dataFile exists,
// ingests it via InsertFile (§4.4).
func Create(dbName, dataFile string, opts Options) (*Database, error) {
	db := newEmpty(dbName, opts)
	if _, err := os.Stat(dataFile); err != nil {
		db.opts.Log.Infow("data file does not exist, creating empty database", "path", dataFile)
		return db, nil
	}
	if _, err := db.InsertFile(dataFile); err != nil {
		return nil, err
	}
	return db, nil
}

// LoadBasic reconstructs the dictionary and statistics only; the Database
// can answer dictionary/statistics queries but has no triple data loaded
// (§4.3, §4.4).
func LoadBasic(dbName string, opts Options) (*Database, error) {
	opts = opts.withDefaults()
	snap, err := persistence.LoadBasic(persistence.Layout{Root: opts.Root, DBName: dbName}, opts.Log)
	if err != nil {
		return nil, err
	}
	return fromSnapshot(dbName, opts, snap), nil
}

// LoadAll reconstructs the dictionary and the full predicate index
// (§4.3, §4.4).
func LoadAll(dbName string, opts Options) (*Database, error) {
	opts = opts.withDefaults()
	snap, err := persistence.LoadAll(persistence.Layout{Root: opts.Root, DBName: dbName}, opts.MaxWorkers, opts.Log)
	if err != nil {
		return nil, err
	}
	return fromSnapshot(dbName, opts, snap), nil
}

// LoadPartial reconstructs the dictionary and only the predicate index
// buckets named in predicates (§4.3, §4.4). Unknown predicate strings are
// silently skipped — a query referencing a predicate this database never
// saw returns an empty result, not a load failure.
func LoadPartial(dbName string, predicates []string, opts Options) (*Database, error) {
	opts = opts.withDefaults()
	layout := persistence.Layout{Root: opts.Root, DBName: dbName}
	basic, err := persistence.LoadBasic(layout, opts.Log)
	if err != nil {
		return nil, err
	}

	seen := make(map[core.ID]bool)
	var pids []core.ID
	for _, p := range predicates {
		id, lookupErr := basic.Predicates.IDOf("predicate", p)
		if lookupErr != nil || seen[id] {
			continue
		}
		seen[id] = true
		pids = append(pids, id)
	}

	snap, err := persistence.LoadPartial(layout, pids, opts.MaxWorkers, opts.Log)
	if err != nil {
		return nil, err
	}
	return fromSnapshot(dbName, opts, snap), nil
}

func fromSnapshot(dbName string, opts Options, snap persistence.Snapshot) *Database {
	return &Database{
		name:        dbName,
		opts:        opts,
		predicates:  snap.Predicates,
		entities:    snap.Entities,
		idx:         snap.Index,
		tripleCount: snap.TripleCount,
	}
}

// Save overwrites the on-disk form of the database (§4.3, §4.4).
func (db *Database) Save() error {
	return persistence.Save(db.layout(), persistence.Snapshot{
		Predicates:  db.predicates,
		Entities:    db.entities,
		Index:       db.idx,
		TripleCount: db.tripleCount,
	}, db.opts.MaxWorkers, db.opts.Log)
}

// Unload clears all in-memory state. Idempotent.
func (db *Database) Unload() {
	db.predicates = dictionary.New()
	db.entities = dictionary.New()
	db.idx = index.New()
	db.tripleCount = 0
}

// InsertTriple interns s, p, o, increments their counts, and appends
// (sid, oid) to the predicate index (§4.1, §4.4).
func (db *Database) InsertTriple(s, p, o string) {
	pid := db.predicates.Intern(p)
	sid := db.entities.Intern(s)
	oid := db.entities.Intern(o)
	db.idx.Insert(pid, sid, oid)
	db.tripleCount++
}

// InsertTriples bulk-inserts triples and saves once at the end, returning
// the number of triples inserted (§4.4, SPEC_FULL.md supplemented
// features — the original's insertFromTriplets affect-counter).
func (db *Database) InsertTriples(triples []core.RawTriple) (int, error) {
	for _, t := range triples {
		db.InsertTriple(t.S, t.P, t.O)
	}
	if err := db.Save(); err != nil {
		return len(triples), err
	}
	return len(triples), nil
}

// InsertFile ingests a UTF-8 text file of whitespace-separated triples, one
// per line (§4.4, §6). Subject and predicate end at the first whitespace;
// the object runs to end-of-line with trailing spaces and a trailing `.`
// stripped. Empty lines are ignored. It saves once after ingesting the
// whole file, mirroring the original's insertFromFile.
func (db *Database) InsertFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &core.IOFailureError{Path: path, Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	affected := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		s, p, o, ok := splitTripleLine(line)
		if !ok {
			continue
		}
		db.InsertTriple(s, p, o)
		affected++
	}
	if err := scanner.Err(); err != nil {
		return affected, &core.IOFailureError{Path: path, Err: err}
	}

	db.opts.Log.Infow("triples inserted from file", "count", affected, "path", path)
	if err := db.Save(); err != nil {
		return affected, err
	}
	return affected, nil
}

// splitTripleLine parses one ingestion-format line into subject, predicate,
// object (§6).
func splitTripleLine(line string) (s, p, o string, ok bool) {
	rest := line
	s, rest, ok = cutField(rest)
	if !ok {
		return "", "", "", false
	}
	p, rest, ok = cutField(rest)
	if !ok {
		return "", "", "", false
	}
	o = strings.TrimRight(strings.TrimSpace(rest), " ")
	o = strings.TrimSuffix(o, ".")
	o = strings.TrimRight(o, " ")
	if o == "" {
		return "", "", "", false
	}
	return s, p, o, true
}

func cutField(s string) (field, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t")
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

// PredicateCount returns the number of distinct predicates known (§4.1).
func (db *Database) PredicateCount() uint32 { return db.predicates.Size() }

// EntityCount returns the number of distinct entities known (§4.1).
func (db *Database) EntityCount() uint32 { return db.entities.Size() }

// TripleCount returns the total number of triples inserted (§3).
func (db *Database) TripleCount() uint64 { return db.tripleCount }

// PredicateStatistics returns the per-predicate count vector (§4.1).
func (db *Database) PredicateStatistics() []uint32 { return db.predicates.Statistics() }

// IDOfPredicate looks up a predicate string's id (§4.1).
func (db *Database) IDOfPredicate(s string) (core.ID, error) { return db.predicates.IDOf("predicate", s) }

// IDOfEntity looks up an entity string's id (§4.1).
func (db *Database) IDOfEntity(s string) (core.ID, error) { return db.entities.IDOf("entity", s) }

// PredicateOfID reverse-looks-up a predicate id (§4.1).
func (db *Database) PredicateOfID(id core.ID) (string, error) { return db.predicates.StringOf("predicate", id) }

// EntityOfID reverse-looks-up an entity id (§4.1).
func (db *Database) EntityOfID(id core.ID) (string, error) { return db.entities.StringOf("entity", id) }

// PredicateCountByID returns the cardinality of predicate pid (§4.1).
func (db *Database) PredicateCountByID(pid core.ID) uint32 { return db.predicates.CountOf(pid) }

// EntityCountByID returns the occurrence count of entity eid (§4.1).
func (db *Database) EntityCountByID(eid core.ID) uint32 { return db.entities.CountOf(eid) }

// Pairs returns the S->O multimap for pid (§4.2).
func (db *Database) Pairs(pid core.ID) *index.Bucket { return db.idx.Pairs(pid) }

// ReversePairs returns the O->S multimap for pid (§4.2).
func (db *Database) ReversePairs(pid core.ID) *index.Bucket { return db.idx.ReversePairs(pid) }

// SubjectsWith returns every s such that (s, o) exists under pid (§4.2).
func (db *Database) SubjectsWith(pid, o core.ID) map[core.ID]struct{} { return db.idx.SubjectsWith(pid, o) }

// ObjectsWith returns every o such that (s, o) exists under pid (§4.2).
func (db *Database) ObjectsWith(s, pid core.ID) map[core.ID]struct{} { return db.idx.ObjectsWith(s, pid) }

// IndexLoaded reports whether pid's bucket is present (distinguishes "not
// loaded" from "loaded but empty", for introspection).
func (db *Database) IndexLoaded(pid core.ID) bool { return db.idx.Loaded(pid) }

// Name returns the database's name.
func (db *Database) Name() string { return db.name }
