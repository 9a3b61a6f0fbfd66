package checkpoint

import (
	"os"
	"strconv"
	"strings"

	apperrors "acc3scraper/pkg/errors"
	"acc3scraper/pkg/logger"
)

// FirstPage is the implicit checkpoint value when no file exists.
const FirstPage = 1

// Manager handles checkpoint operations
type Manager struct {
	path string
	log  logger.Logger
}

// NewManager creates a checkpoint manager for the given file path
func NewManager(path string) *Manager {
	return &Manager{
		path: path,
		log:  logger.GetLogger(),
	}
}

// Load reads the last completed page index. A missing file yields FirstPage;
// an unreadable or malformed file is a checkpoint error and must abort the
// run, since no safe resume point can be assumed.
func (m *Manager) Load() (int, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.DebugWithFields("No checkpoint found, starting fresh", map[string]interface{}{
				"path": m.path,
			})
			return FirstPage, nil
		}
		return 0, apperrors.New(apperrors.ErrorTypeCheckpoint, "failed to read checkpoint file", err)
	}

	page, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, apperrors.New(apperrors.ErrorTypeCheckpoint, "malformed checkpoint file", err)
	}
	if page < FirstPage {
		return 0, apperrors.New(apperrors.ErrorTypeCheckpoint, "checkpoint page index out of range", nil)
	}

	m.log.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"path": m.path,
		"page": page,
	})

	return page, nil
}

// Save overwrites the checkpoint atomically. The temp file is synced before
// the rename so a crash leaves either the old or the new value.
func (m *Manager) Save(page int) error {
	tempPath := m.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return apperrors.New(apperrors.ErrorTypeCheckpoint, "failed to create temporary checkpoint file", err)
	}

	if _, err := file.WriteString(strconv.Itoa(page)); err != nil {
		file.Close()
		os.Remove(tempPath)
		return apperrors.New(apperrors.ErrorTypeCheckpoint, "failed to write checkpoint", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return apperrors.New(apperrors.ErrorTypeCheckpoint, "failed to sync checkpoint file", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return apperrors.New(apperrors.ErrorTypeCheckpoint, "failed to close checkpoint file", err)
	}

	if err := os.Rename(tempPath, m.path); err != nil {
		os.Remove(tempPath)
		return apperrors.New(apperrors.ErrorTypeCheckpoint, "failed to replace checkpoint file", err)
	}

	m.log.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"page": page,
	})

	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Delete removes the checkpoint file. Used by --force-restart only; the
// scraping engine itself never deletes progress.
func (m *Manager) Delete() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return apperrors.New(apperrors.ErrorTypeCheckpoint, "failed to delete checkpoint", err)
	}
	m.log.Info("Checkpoint deleted")
	return nil
}
