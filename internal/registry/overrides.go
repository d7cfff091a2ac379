package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

// OverrideRegistry is the manual address to name table. It is the highest priority identity source.
type OverrideRegistry interface {
	// Name returns the identity source tag
	Name() string

	// Lookup returns the override of address, or nil when none is configured
	Lookup(ctx context.Context, address string) (*domain.PartialIdentity, error)

	// Len returns the number of overrides
	Len() int

	// Reload re-reads the override file. The previous table is kept on failure.
	Reload() error

	// Watch reloads the table whenever the file changes until ctx is done
	Watch(ctx context.Context) error
}

// Override is one manual entry
type Override struct {
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// UnmarshalJSON accepts either a bare name or {"name": ..., "avatar": ...}
func (o *Override) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		o.Name = name
		return nil
	}

	type plain Override
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = Override(p)
	return nil
}

// OverrideData represents the structure of the override file.
// Key format: address -> name or override object
type OverrideData map[string]Override

type overrideRegistry struct {
	fs   adapter.FileSystem
	path string

	mu        sync.RWMutex
	overrides map[string]Override
}

// LoadOverrides loads the override table from path. A missing file yields an empty table.
func LoadOverrides(fs adapter.FileSystem, path string) (OverrideRegistry, error) {
	r := &overrideRegistry{
		fs:        fs,
		path:      path,
		overrides: make(map[string]Override),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *overrideRegistry) Name() string {
	return string(domain.IdentitySourceManual)
}

func (r *overrideRegistry) Lookup(_ context.Context, address string) (*domain.PartialIdentity, error) {
	normalized, err := domain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	o, ok := r.overrides[normalized]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	p := &domain.PartialIdentity{ManualName: domain.StringPtr(o.Name)}
	if o.Avatar != nil {
		p.AvatarURL = domain.StringPtr(*o.Avatar)
	}
	return p, nil
}

func (r *overrideRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.overrides)
}

func (r *overrideRegistry) Reload() error {
	data, err := r.fs.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Override file not found, no manual names loaded", zap.String("path", r.path))
			r.swap(make(map[string]Override))
			return nil
		}
		return fmt.Errorf("failed to read override file: %w", err)
	}

	var raw OverrideData
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse override JSON: %w", err)
	}

	overrides := make(map[string]Override, len(raw))
	for addr, o := range raw {
		normalized, err := domain.NormalizeAddress(addr)
		if err != nil {
			logger.Warn("Skipping override with invalid address", zap.String("address", addr))
			continue
		}
		if o.Name == "" {
			logger.Warn("Skipping override without a name", zap.String("address", addr))
			continue
		}
		overrides[normalized] = o
	}

	r.swap(overrides)
	logger.Info("Loaded identity overrides", zap.String("path", r.path), zap.Int("count", len(overrides)))
	return nil
}

func (r *overrideRegistry) swap(overrides map[string]Override) {
	r.mu.Lock()
	r.overrides = overrides
	r.mu.Unlock()
}

// Watch observes the parent directory so that editors replacing the file by rename are seen too
func (r *overrideRegistry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(r.path)
	go func() {
		defer func() {
			_ = watcher.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := r.Reload(); err != nil {
					logger.Error(fmt.Errorf("failed to reload overrides: %w", err), zap.String("path", r.path))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Override watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
