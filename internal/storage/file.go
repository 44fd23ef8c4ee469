package storage

import (
	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
	"os"
	"path/filepath"
	"trustive/internal/providers"
	"trustive/internal/storage/interfaces"
)

const snapshotVersion = 1

// snapshotFile is the on-disk envelope. Slot values are kept as strings so a
// slot holding unparsable text survives a flush unchanged.
type snapshotFile struct {
	Version int               `json:"version"`
	Items   map[string]string `json:"items"`
}

// FileStorage serves reads and writes from memory and writes the whole set of
// slots to a zstd-compressed snapshot file on Flush.
type FileStorage struct {
	mem        *MemoryStorage
	dirty      atomic.Bool
	path       string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStorage(path string, compressor interfaces.CompressorInterface, logger providers.Logger) *FileStorage {
	return &FileStorage{
		mem:        NewMemoryStorage(),
		path:       path,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileStorage) GetItem(key string) ([]byte, bool, error) {
	return f.mem.GetItem(key)
}

func (f *FileStorage) SetItem(key string, value []byte) error {
	if err := f.mem.SetItem(key, value); err != nil {
		return err
	}
	f.dirty.Store(true)
	return nil
}

func (f *FileStorage) RemoveItem(key string) error {
	if err := f.mem.RemoveItem(key); err != nil {
		return err
	}
	f.dirty.Store(true)
	return nil
}

func (f *FileStorage) Dirty() bool {
	return f.dirty.Load()
}

// Flush writes every slot to a temporary file and renames it over the
// snapshot. Nothing is written when no slot changed since the last flush.
func (f *FileStorage) Flush() error {
	if !f.dirty.Swap(false) {
		return nil
	}

	items := f.mem.Snapshot()
	snapshot := snapshotFile{Version: snapshotVersion, Items: make(map[string]string, len(items))}
	for k, v := range items {
		snapshot.Items[k] = string(v)
	}

	if err := f.writeSnapshot(&snapshot); err != nil {
		f.dirty.Store(true)
		return err
	}
	return nil
}

func (f *FileStorage) writeSnapshot(snapshot *snapshotFile) error {
	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

// Restore loads the snapshot file into memory. A missing file is not an
// error: the store starts empty and seeds itself on first access.
func (f *FileStorage) Restore() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snapshot snapshotFile
	if err := json.Unmarshal(decompressed, &snapshot); err != nil {
		return err
	}
	if snapshot.Version != snapshotVersion {
		f.logger.Warnf(providers.TypeStore, "Snapshot %s has version %d, expected %d", f.path, snapshot.Version, snapshotVersion)
	}

	items := make(map[string][]byte, len(snapshot.Items))
	for k, v := range snapshot.Items {
		items[k] = []byte(v)
	}
	f.mem.Replace(items)
	f.dirty.Store(false)
	f.logger.Infof(providers.TypeStore, "Restored %d slots from %s", len(items), f.path)
	return nil
}

func (f *FileStorage) Close() {
	f.compressor.Close()
}
