// Package persistence serialises and deserialises the Dictionary and
// Predicate Index to the on-disk layout described in §4.3: one directory
// per database, one file per predicate's triples, written and read by a
// bounded pool of concurrent tasks.
package persistence

import (
	"path/filepath"
	"strconv"
)

const (
	infoFile       = "info"
	predicatesFile = "id_predicates"
	entitiesFile   = "id_entities"
	tripletDir     = "triplet"
)

// Layout resolves the file paths for a database named dbName, rooted at
// root (the configured database root directory).
type Layout struct {
	Root   string
	DBName string
}

func (l Layout) dbDir() string {
	return filepath.Join(l.Root, l.DBName+".db")
}

func (l Layout) InfoPath() string       { return filepath.Join(l.dbDir(), infoFile) }
func (l Layout) PredicatesPath() string { return filepath.Join(l.dbDir(), predicatesFile) }
func (l Layout) EntitiesPath() string   { return filepath.Join(l.dbDir(), entitiesFile) }
func (l Layout) TripletDir() string     { return filepath.Join(l.dbDir(), tripletDir) }

func (l Layout) TripletPath(pid uint32) string {
	return filepath.Join(l.TripletDir(), strconv.FormatUint(uint64(pid), 10))
}
