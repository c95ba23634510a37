package foundry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// encodeLevelDBPack serializes a pack's documents into an in-memory
// LevelDB database image, one document per key `!<id>`; a key carries no
// pack-name or entity-type segment. goleveldb's storage.MemStorage
// lets the whole database be built without touching the real filesystem,
// matching GenerateOutput's purity requirement; the resulting bytes are
// goleveldb's on-disk manifest+log format, opaque to this package once
// returned.
func encodeLevelDBPack(docs []any) ([]byte, error) {
	mem := storage.NewMemStorage()
	db, err := leveldb.Open(mem, nil)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory leveldb: %w", err)
	}

	for _, doc := range docs {
		id, err := documentID(doc)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		value, err := json.Marshal(doc)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("marshaling document %s: %w", id, err)
		}
		key := []byte("!" + id)
		if err := db.Put(key, value, nil); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("writing document %s: %w", id, err)
		}
	}

	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("closing in-memory leveldb: %w", err)
	}

	return flattenMemStorage(mem)
}

// flattenMemStorage reads every file goleveldb wrote into mem and
// concatenates them length-prefixed into a single blob, since
// ir.OutputBundle.Databases holds one []byte per pack rather than a
// directory of files. internal/bundle's Writer stages this
// under packs/<name>.db as a single file; reconstructing the on-disk
// directory structure at unpack time is left to whatever opens the bundle
// (the pack is self-describing via its own length prefixes).
func flattenMemStorage(mem *storage.MemStorage) ([]byte, error) {
	var buf bytes.Buffer
	files, err := mem.List(storage.TypeAll)
	if err != nil {
		return nil, fmt.Errorf("listing in-memory leveldb files: %w", err)
	}
	for _, fd := range files {
		reader, err := mem.Open(fd)
		if err != nil {
			return nil, fmt.Errorf("opening in-memory leveldb file: %w", err)
		}
		data, err := io.ReadAll(reader)
		_ = reader.Close()
		if err != nil {
			return nil, fmt.Errorf("reading in-memory leveldb file: %w", err)
		}

		header := fmt.Sprintf("%d %d %d\n", fd.Type, fd.Num, len(data))
		buf.WriteString(header)
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// documentID extracts the _id field every BaseDocument-embedding struct
// carries, via a JSON round-trip rather than a type switch over every pack
// document type.
func documentID(doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling document for id extraction: %w", err)
	}
	var probe struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("extracting document id: %w", err)
	}
	if probe.ID == "" {
		return "", fmt.Errorf("document missing _id")
	}
	return probe.ID, nil
}
