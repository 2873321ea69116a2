package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/core/types"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
)

// Staging collects the documents of one pass. Write is safe for concurrent use.
type Staging struct {
	store *Store
	name  string
	dir   string

	mu    sync.Mutex
	files []string
	done  bool
}

// Write stores artifacts, each through a temp file renamed into place.
func (st *Staging) Write(_ context.Context, artifacts ...Artifact) error {
	for _, a := range artifacts {
		if err := st.write(a); err != nil {
			return errors.Wrapf(err, "can't write %s", a.Name)
		}
	}
	return nil
}

func (st *Staging) write(a Artifact) error {
	if a.Name == "" || a.Name == manifestFile || strings.ContainsAny(a.Name, `/\`) {
		return errors.Wrapf(errs.InvalidArgument, "invalid artifact name %q", a.Name)
	}
	data, err := a.bytes()
	if err != nil {
		return errors.Wrap(err, "can't encode artifact")
	}
	if err := writeFileAtomic(filepath.Join(st.dir, a.Name), data); err != nil {
		return errors.WithStack(err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.files = append(st.files, a.Name)
	return nil
}

// Publish makes the staged documents the current generation.
func (st *Staging) Publish(ctx context.Context, header types.LedgerHeader) (*Generation, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.done {
		return nil, errors.Wrap(errs.InternalError, "staging already closed")
	}
	st.done = true
	defer st.store.finish()

	files := append([]string(nil), st.files...)
	sort.Strings(files)
	gen := &Generation{
		Name:        st.name,
		Header:      header,
		Files:       files,
		PublishedAt: time.Now().UTC(),
	}
	manifest, err := json.Marshal(gen)
	if err != nil {
		_ = os.RemoveAll(st.dir)
		return nil, errors.Wrap(err, "can't encode manifest")
	}
	if err := writeFileAtomic(filepath.Join(st.dir, manifestFile), manifest); err != nil {
		_ = os.RemoveAll(st.dir)
		return nil, errors.WithStack(err)
	}

	gen.dir = filepath.Join(st.store.config.DataDir, generationsDir, st.name)
	if err := os.Rename(st.dir, gen.dir); err != nil {
		_ = os.RemoveAll(st.dir)
		return nil, errors.Wrap(err, "can't move staging into place")
	}
	if err := st.store.swapCurrent(gen); err != nil {
		_ = os.RemoveAll(gen.dir)
		return nil, errors.WithStack(err)
	}

	logger.InfoContext(ctx, "snapshot published",
		slogx.String("event", "snapshot/published"),
		slogx.String("generation", gen.Name),
		slogx.Uint32("ledger_index", uint32(header.Index)),
		slogx.Int("files", len(files)),
	)

	st.store.prune(ctx)
	if st.store.mirror != nil {
		if err := st.store.mirror.Mirror(ctx, gen); err != nil {
			logger.WarnContext(ctx, "can't mirror snapshot", slogx.String("generation", gen.Name), slogx.Error(err))
		}
	}
	return gen, nil
}

// Abort discards the staged documents. It is a no-op after Publish.
func (st *Staging) Abort() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.done {
		return
	}
	st.done = true
	_ = os.RemoveAll(st.dir)
	st.store.finish()
}

func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "can't create temp file")
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrap(err, "can't write temp file")
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrap(err, "can't sync temp file")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "can't close temp file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "can't rename temp file")
	}
	return nil
}
