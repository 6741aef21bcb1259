package persistence

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pso/internal/core"
	"pso/internal/dictionary"
	"pso/internal/index"
)

// Info is the triple_count/predicate_count/entity_count triple stored in
// the `info` file (§4.3).
type Info struct {
	TripleCount    uint64
	PredicateCount uint32
	EntityCount    uint32
}

func writeInfo(path string, info Info) error {
	content := fmt.Sprintf("%d\n%d\n%d\n", info.TripleCount, info.PredicateCount, info.EntityCount)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &core.IOFailureError{Path: path, Err: err}
	}
	return nil
}

func readInfo(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, &core.IOFailureError{Path: path, Err: err}
	}
	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return Info{}, &core.IOFailureError{Path: path, Err: fmt.Errorf("expected 3 fields, got %d", len(fields))}
	}
	triples, err1 := strconv.ParseUint(fields[0], 10, 64)
	preds, err2 := strconv.ParseUint(fields[1], 10, 32)
	ents, err3 := strconv.ParseUint(fields[2], 10, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return Info{}, &core.IOFailureError{Path: path, Err: fmt.Errorf("malformed info file")}
	}
	return Info{TripleCount: triples, PredicateCount: uint32(preds), EntityCount: uint32(ents)}, nil
}

// writeDictionary writes one `<id>\t<count>\t<term>\n` line per entry, in
// id order (§4.3 id_predicates / id_entities).
func writeDictionary(path string, entries []dictionary.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return &core.IOFailureError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\n", e.ID, e.Count, e.Term); err != nil {
			return &core.IOFailureError{Path: path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &core.IOFailureError{Path: path, Err: err}
	}
	return nil
}

// readDictionary reads every dictionary row written by writeDictionary;
// count only sizes the initial capacity of the result.
func readDictionary(path string, count uint32) ([]dictionary.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.IOFailureError{Path: path, Err: err}
	}
	defer f.Close()

	entries := make([]dictionary.Entry, 0, count)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		idStr, rest, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		countStr, term, ok := strings.Cut(rest, "\t")
		if !ok {
			continue
		}
		id, err1 := strconv.ParseUint(idStr, 10, 32)
		cnt, err2 := strconv.ParseUint(countStr, 10, 32)
		if err1 != nil || err2 != nil {
			continue
		}
		entries = append(entries, dictionary.Entry{ID: core.ID(id), Count: uint32(cnt), Term: term})
	}
	if err := scanner.Err(); err != nil {
		return nil, &core.IOFailureError{Path: path, Err: err}
	}
	return entries, nil
}

// writeTripletFile writes one `<sid> <oid>\n` line per pair in the bucket
// (§4.3 triplet/<pid>).
func writeTripletFile(path string, b *index.Bucket) error {
	f, err := os.Create(path)
	if err != nil {
		return &core.IOFailureError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range b.Pairs() {
		if _, err := fmt.Fprintf(w, "%d %d\n", p.S, p.O); err != nil {
			return &core.IOFailureError{Path: path, Err: err}
		}
	}
	return w.Flush()
}

// readTripletFile reads the pairs written by writeTripletFile.
func readTripletFile(path string) (*index.Bucket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.IOFailureError{Path: path, Err: err}
	}
	defer f.Close()

	b := index.NewBucket(0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		s, err1 := strconv.ParseUint(fields[0], 10, 32)
		o, err2 := strconv.ParseUint(fields[1], 10, 32)
		if err1 != nil || err2 != nil {
			continue
		}
		b.Insert(core.ID(s), core.ID(o))
	}
	if err := scanner.Err(); err != nil {
		return nil, &core.IOFailureError{Path: path, Err: err}
	}
	return b, nil
}
