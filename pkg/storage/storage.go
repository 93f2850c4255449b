// Package storage abstracts file persistence behind the Disk interface
// with local-filesystem and S3-compatible drivers. The export endpoint
// writes inventory snapshots through it.
package storage

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/vypar/config"
)

// Disk is the minimal surface vypar needs from a storage backend.
type Disk interface {
	Put(path string, content []byte) error
	Get(path string) ([]byte, error)
	Exists(path string) bool
	Delete(path string) error
	URL(path string) string
}

// Manager holds the configured disks and the default selection.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultDisk string
}

// Connect boots the manager from config. The local disk is always
// available; the s3 disk is added when S3_BUCKET is set.
func Connect() (*Manager, error) {
	m := &Manager{
		disks:       map[string]Disk{"local": newLocalDisk()},
		defaultDisk: config.StorageDefault(),
	}

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			return nil, err
		}
		m.disks["s3"] = d
	}

	if _, ok := m.disks[m.defaultDisk]; !ok {
		return nil, fmt.Errorf("storage: default disk %q is not configured", m.defaultDisk)
	}

	return m, nil
}

// Use returns the named disk ("local" or "s3").
func (m *Manager) Use(name string) (Disk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK.
func (m *Manager) Default() Disk {
	d, _ := m.Use(m.defaultDisk)
	return d
}

// Register plugs in a custom Disk (tests use an in-memory one).
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disks[name] = d
}
