package logging

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCloser struct {
	err    error
	closed int
}

func (c *stubCloser) Close() error {
	c.closed++
	return c.err
}

type stubTx struct {
	err error
}

func (tx stubTx) Rollback() error {
	return tx.err
}

func TestSafeCloseWithLogging(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantLog bool
	}{
		{"clean close is silent", nil, false},
		{"failed close is logged", errors.New("disk full"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			closer := &stubCloser{err: tt.err}

			SafeCloseWithLogging(closer, NewStructuredLogger(&buf, slog.LevelInfo), "snapshot_file_read")

			assert.Equal(t, 1, closer.closed)
			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), `"level":"ERROR"`)
			assert.Contains(t, buf.String(), `"msg":"failed to close resource"`)
			assert.Contains(t, buf.String(), `"operation":"snapshot_file_read"`)
			assert.Contains(t, buf.String(), `"error":"disk full"`)
		})
	}

	t.Run("nil closer", func(t *testing.T) {
		var buf bytes.Buffer
		SafeCloseWithLogging(nil, NewStructuredLogger(&buf, slog.LevelInfo), "noop")
		assert.Empty(t, buf.String())
	})
}

func TestSafeRollbackWithLogging(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantLog bool
	}{
		{"rollback succeeds", nil, false},
		{"already committed", fmt.Errorf("rollback: %w", sql.ErrTxDone), false},
		{"rollback fails", errors.New("database is locked"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			SafeRollbackWithLogging(stubTx{err: tt.err}, NewStructuredLogger(&buf, slog.LevelInfo), "favorites save")

			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), `"msg":"failed to rollback transaction"`)
			assert.Contains(t, buf.String(), `"operation":"favorites save"`)
		})
	}
}

func TestHandleDeferredError(t *testing.T) {
	load := func(logger *slog.Logger, loadErr, closeErr error) (err error) {
		defer HandleDeferredError(&err, func() error { return closeErr }, logger, "favorites_rows_close")
		return loadErr
	}

	t.Run("close failure surfaces when the body succeeded", func(t *testing.T) {
		var buf bytes.Buffer
		closeErr := errors.New("rows closed twice")

		err := load(NewStructuredLogger(&buf, slog.LevelInfo), nil, closeErr)

		require.Error(t, err)
		assert.ErrorIs(t, err, closeErr)
		assert.True(t, strings.HasPrefix(err.Error(), "favorites_rows_close failed"))
		assert.Contains(t, buf.String(), `"msg":"deferred operation failed"`)
	})

	t.Run("the body's error wins", func(t *testing.T) {
		var buf bytes.Buffer
		loadErr := errors.New("scan failed")

		err := load(NewStructuredLogger(&buf, slog.LevelInfo), loadErr, errors.New("rows closed twice"))

		assert.Same(t, loadErr, err)
		assert.Contains(t, buf.String(), `"level":"ERROR"`)
	})

	t.Run("clean close changes nothing", func(t *testing.T) {
		var buf bytes.Buffer

		assert.NoError(t, load(NewStructuredLogger(&buf, slog.LevelInfo), nil, nil))
		assert.Empty(t, buf.String())
	})
}
