package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesDailyFile(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	root := t.TempDir()
	log, err := New(root, false, "debug")
	require.NoError(t, err)
	log.Debugw("probe", "k", "v")
	_ = log.Sync()

	path := filepath.Join(root, "logs", time.Now().Format("2006-01-02")+".log")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"logger online"`)
	assert.Contains(t, string(raw), `"msg":"probe"`)
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(t.TempDir(), false, "chatty")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	assert.Same(t, zap.S(), FromContext(context.Background()))

	l := zap.NewNop().Sugar()
	assert.Same(t, l, FromContext(WithLogger(context.Background(), l)))
}
