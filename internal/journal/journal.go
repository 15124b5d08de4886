package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/yndnr/exitguard/pkg/shutdown"
)

var (
	ErrClosed   = errors.New("journal closed")
	ErrNotFound = errors.New("record not found")
)

var keyPrefix = []byte("report/")

// DefaultRetain is how many records are kept when no limit is configured.
const DefaultRetain = 100

// Journal stores shutdown reports.
type Journal struct {
	mu     sync.Mutex
	db     *badger.DB
	logger *slog.Logger

	retain        int
	closeAfterRun bool
}

var _ shutdown.Observer = (*Journal)(nil)

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets the logger used for the journal and for Badger itself.
func WithLogger(l *slog.Logger) Option {
	return func(j *Journal) {
		j.logger = l
	}
}

// WithRetain limits the number of stored records. Older records are removed
// after each finished run.
func WithRetain(n int) Option {
	return func(j *Journal) {
		j.retain = n
	}
}

// WithCloseAfterRun closes the database once the first run is recorded.
// The daemon uses it so the store is flushed before the process ends.
func WithCloseAfterRun() Option {
	return func(j *Journal) {
		j.closeAfterRun = true
	}
}

// Open opens or creates the journal in dir.
func Open(dir string, opts ...Option) (*Journal, error) {
	if dir == "" {
		return nil, errors.New("journal: dir is required")
	}

	j := &Journal{
		logger: slog.Default(),
		retain: DefaultRetain,
	}
	for _, opt := range opts {
		opt(j)
	}

	bopts := badger.DefaultOptions(dir).
		WithLogger(&badgerLogger{logger: j.logger}).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	j.db = db

	j.logger.Debug("journal opened", "dir", dir)
	return j, nil
}

// Put stores rec, replacing any record with the same ID.
func (j *Journal) Put(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return ErrClosed
	}
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.ID), data)
	})
}

// Get returns the record of one run.
func (j *Journal) Get(id string) (Record, error) {
	var rec Record

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return rec, ErrClosed
	}
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}

// List returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (j *Journal) List(limit int) ([]Record, error) {
	var out []Record

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = keyPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefixEnd()); it.Valid(); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// prune removes all but the newest retain records. j.mu must be held.
func (j *Journal) prune() error {
	if j.retain <= 0 {
		return nil
	}

	var stale [][]byte
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = keyPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		n := 0
		for it.Seek(prefixEnd()); it.Valid(); it.Next() {
			n++
			if n > j.retain {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return err
	}

	wb := j.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range stale {
		if err := wb.Delete(k); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Close closes the database. Closing twice is a no-op.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

func (j *Journal) closeLocked() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	if err != nil {
		return fmt.Errorf("journal: close db: %w", err)
	}
	return nil
}

func (j *Journal) ListenersChanged(int) {}

func (j *Journal) ListenerFailed(shutdown.Trigger, shutdown.Failure) {}

func (j *Journal) CleanupStarted(r *shutdown.Report) {
	if err := j.Put(newRecord(r, false)); err != nil {
		j.logger.Error("failed to record cleanup start", "run_id", r.ID, "error", err)
	}
}

func (j *Journal) CleanupFinished(r *shutdown.Report) {
	if err := j.Put(newRecord(r, true)); err != nil {
		j.logger.Error("failed to record cleanup report", "run_id", r.ID, "error", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return
	}
	if err := j.prune(); err != nil {
		j.logger.Error("failed to prune journal", "error", err)
	}
	if j.closeAfterRun {
		if err := j.closeLocked(); err != nil {
			j.logger.Error("failed to close journal", "error", err)
		}
	}
}

func recordKey(id string) []byte {
	return append(append([]byte{}, keyPrefix...), id...)
}

// prefixEnd is the first key after every record key, where a reverse scan
// starts.
func prefixEnd() []byte {
	return append(append([]byte{}, keyPrefix...), 0xFF)
}

// badgerLogger adapts slog.Logger to Badger's Logger interface. Badger's
// info output is routine, so it is logged at debug.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "badger")
}
