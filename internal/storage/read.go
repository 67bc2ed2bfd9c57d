package storage

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/logging"
)

// Read loads and decodes the value stored under key.
//
// fallback is returned unchanged when backend is nil, the key is absent,
// the stored value is empty or JSON null, the backend fails, or the value
// does not decode into T. Failures are logged at WARN; nothing is returned
// to the caller.
func Read[T any](ctx context.Context, backend Backend, key string, fallback T, logger *logging.Logger) T {
	if logger == nil {
		logger = logging.NopLogger()
	}
	log := logger.WithKey(key)

	if backend == nil {
		log.Debug("no storage backend, using fallback")
		return fallback
	}

	data, err := backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn("storage read failed, using fallback",
				"backend", backend.Name(),
				"error", err.Error())
		}
		return fallback
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fallback
	}

	var value T
	if err := json.Unmarshal(trimmed, &value); err != nil {
		log.Warn("stored value is corrupt, using fallback",
			"backend", backend.Name(),
			"error", errors.Join(errors.ErrCorruptValue, err).Error())
		return fallback
	}
	return value
}
