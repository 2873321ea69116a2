package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
)

// Mirror receives every published generation.
type Mirror interface {
	Mirror(ctx context.Context, gen *Generation) error
}

// Store owns the data directory. Only one staging may be open at a time.
type Store struct {
	config  Config
	mirror  Mirror
	current atomic.Pointer[Generation]
	staging atomic.Bool
}

func New(config Config, mirror Mirror) (*Store, error) {
	if config.DataDir == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "snapshot data dir is required")
	}
	config.KeepGenerations = utils.Default(config.KeepGenerations, DefaultKeepGenerations)
	config.PageSize = utils.Default(config.PageSize, DefaultPageSize)

	if err := os.MkdirAll(filepath.Join(config.DataDir, generationsDir), 0o755); err != nil {
		return nil, errors.Wrap(err, "can't create data dir")
	}

	s := &Store{config: config, mirror: mirror}

	// a sentinel left behind by a crashed process is stale, the published
	// generation is still complete.
	if err := os.Remove(s.sentinelPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "can't remove stale sentinel")
	}
	if err := s.removeStaleStaging(); err != nil {
		return nil, errors.WithStack(err)
	}

	gen, err := s.loadCurrent()
	if err != nil && !errors.Is(err, errs.NotFound) {
		return nil, errors.Wrap(err, "can't load current generation")
	}
	if gen != nil {
		s.current.Store(gen)
	}
	return s, nil
}

// PageSize is the configured number of records per paginated document.
func (s *Store) PageSize() int {
	return s.config.PageSize
}

// Current returns the latest published generation, nil if none.
func (s *Store) Current() *Generation {
	return s.current.Load()
}

// Processing reports whether a pass is currently writing.
func (s *Store) Processing() bool {
	_, err := os.Stat(s.sentinelPath())
	return err == nil
}

// ReadFile reads a file of the current generation.
func (s *Store) ReadFile(name string) ([]byte, *Generation, error) {
	gen := s.Current()
	if gen == nil {
		return nil, nil, errors.Wrap(errs.NotFound, "no published snapshot")
	}
	if !gen.HasFile(name) {
		return nil, gen, errors.Wrapf(errs.NotFound, "file %q not in snapshot", name)
	}
	data, err := os.ReadFile(filepath.Join(gen.dir, name))
	if err != nil {
		return nil, gen, errors.Wrapf(err, "can't read %s", name)
	}
	return data, gen, nil
}

// Begin opens a staging area for a new generation and raises the sentinel.
func (s *Store) Begin(ctx context.Context, ledgerIndex types.LedgerIndex) (*Staging, error) {
	if !s.staging.CompareAndSwap(false, true) {
		return nil, errors.Wrap(errs.Busy, "a snapshot is already being written")
	}

	name := fmt.Sprintf("%d-%d", time.Now().UnixNano(), ledgerIndex)
	dir := filepath.Join(s.config.DataDir, generationsDir, stagingPrefix+name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.staging.Store(false)
		return nil, errors.Wrap(err, "can't create staging dir")
	}
	if err := os.WriteFile(s.sentinelPath(), []byte(name), 0o644); err != nil {
		_ = os.RemoveAll(dir)
		s.staging.Store(false)
		return nil, errors.Wrap(err, "can't write sentinel")
	}

	logger.DebugContext(ctx, "snapshot staging opened", slogx.String("generation", name))
	return &Staging{store: s, name: name, dir: dir}, nil
}

func (s *Store) finish() {
	_ = os.Remove(s.sentinelPath())
	s.staging.Store(false)
}

func (s *Store) sentinelPath() string {
	return filepath.Join(s.config.DataDir, sentinelFile)
}

func (s *Store) currentPath() string {
	return filepath.Join(s.config.DataDir, currentLink)
}

func (s *Store) loadCurrent() (*Generation, error) {
	target, err := os.Readlink(s.currentPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithStack(errs.NotFound)
		}
		return nil, errors.WithStack(err)
	}
	dir := target
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.config.DataDir, dir)
	}
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, errors.Wrap(err, "can't read manifest")
	}
	var gen Generation
	if err := json.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "can't decode manifest")
	}
	gen.dir = dir
	return &gen, nil
}

// swapCurrent points the current link at the generation with a single rename.
func (s *Store) swapCurrent(gen *Generation) error {
	tmp := s.currentPath() + ".tmp"
	_ = os.Remove(tmp)
	if err := os.Symlink(filepath.Join(generationsDir, gen.Name), tmp); err != nil {
		return errors.Wrap(err, "can't create current link")
	}
	if err := os.Rename(tmp, s.currentPath()); err != nil {
		return errors.Wrap(err, "can't swap current link")
	}
	s.current.Store(gen)
	return nil
}

// prune removes published generations beyond the retention limit, never the current one.
func (s *Store) prune(ctx context.Context) {
	root := filepath.Join(s.config.DataDir, generationsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		logger.WarnContext(ctx, "can't list generations", slogx.Error(err))
		return
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), stagingPrefix) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= s.config.KeepGenerations {
		return
	}
	// names start with the publish time in nanoseconds, newest first
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	current := ""
	if gen := s.Current(); gen != nil {
		current = gen.Name
	}
	for _, name := range names[s.config.KeepGenerations:] {
		if name == current {
			continue
		}
		if err := os.RemoveAll(filepath.Join(root, name)); err != nil {
			logger.WarnContext(ctx, "can't prune generation", slogx.String("generation", name), slogx.Error(err))
		}
	}
}

func (s *Store) removeStaleStaging() error {
	root := filepath.Join(s.config.DataDir, generationsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return errors.Wrap(err, "can't list generations")
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), stagingPrefix) {
			if err := os.RemoveAll(filepath.Join(root, e.Name())); err != nil {
				return errors.Wrap(err, "can't remove stale staging")
			}
		}
	}
	return nil
}
