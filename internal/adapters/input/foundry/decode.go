package foundry

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"
)

// loadPack returns the raw JSON document bytes for one compendium pack,
// trying the v10+ LevelDB directory layout (packs/<name>/) first and
// falling back to the v9 NeDB single-file layout (packs/<name>.db), since
// a world directory only ever carries one of the two per spec §6's
// Foundry database encoding table.
func loadPack(packsDir, name string) ([][]byte, error) {
	levelDir := filepath.Join(packsDir, name)
	if info, err := os.Stat(levelDir); err == nil && info.IsDir() {
		return loadLevelDBPack(levelDir)
	}
	nedbFile := filepath.Join(packsDir, name+".db")
	if _, err := os.Stat(nedbFile); err == nil {
		return loadNeDBPack(nedbFile)
	}
	return nil, os.ErrNotExist
}

func loadLevelDBPack(dir string) ([][]byte, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var docs [][]byte
	iter := db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		key := string(iter.Key())
		if !strings.HasPrefix(key, "!") {
			continue
		}
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		docs = append(docs, value)
	}
	return docs, iter.Error()
}

func loadNeDBPack(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		doc := make([]byte, len(line))
		copy(doc, line)
		docs = append(docs, doc)
	}
	return docs, scanner.Err()
}
