package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core/async"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func fixture(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a_policy.pdf"), "%PDF-1.4 one")
	writeFile(t, filepath.Join(root, "b_card.JPG"), "jpeg bytes")
	writeFile(t, filepath.Join(root, "c_copy.pdf"), "%PDF-1.4 one")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, ".hidden", "secret.pdf"), "%PDF hidden")
	writeFile(t, filepath.Join(root, "sub", "scan.tiff"), "tiff bytes")
	return root
}

func TestScanner_Scan(t *testing.T) {
	root := fixture(t)

	got, stats, err := NewScanner(nil).Scan(context.Background(), root, true)
	require.NoError(t, err)

	assert.Equal(t, DirStats{Scanned: 5, Matched: 4, Duplicates: 1}, stats)
	require.Len(t, got, 4)
	assert.Equal(t, filepath.Join(root, "a_policy.pdf"), got[0].Path)
	assert.False(t, got[0].Duplicate)
	assert.Len(t, got[0].HashHex, 64)
	assert.Equal(t, "jpg", got[1].Ext)
	assert.True(t, got[2].Duplicate)
	assert.Equal(t, got[0].Path, got[2].DuplicateOf)
	assert.Equal(t, got[0].HashHex, got[2].HashHex)
	assert.Equal(t, filepath.Join(root, "sub", "scan.tiff"), got[3].Path)
}

func TestScanner_IncludesHidden(t *testing.T) {
	_, stats, err := NewScanner(nil).Scan(context.Background(), fixture(t), false)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), stats.Matched)
}

func TestScanner_Errors(t *testing.T) {
	_, _, err := NewScanner(nil).Scan(context.Background(), " ", true)
	assert.Error(t, err)

	_, _, err = NewScanner(nil).Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), true)
	assert.Error(t, err)
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []async.Job
}

func (q *recordingQueue) Enqueue(_ context.Context, job async.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Shutdown(context.Context) {}

func TestService_IngestDirectory(t *testing.T) {
	root := fixture(t)

	q := &recordingQueue{}
	svc := NewService(NewScanner(nil), q, nil)
	res, err := svc.IngestDirectory(context.Background(), DirectoryIngestRequest{RootPath: root, SkipHidden: true, SkipDuplicates: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Enqueued)
	require.Len(t, q.jobs, 3)
	assert.NotEmpty(t, q.jobs[0].TraceID)
	assert.Equal(t, q.jobs[0].TraceID, q.jobs[2].TraceID)

	q2 := &recordingQueue{}
	res, err = NewService(NewScanner(nil), q2, nil).IngestDirectory(context.Background(), DirectoryIngestRequest{RootPath: root, SkipHidden: true})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Enqueued)
}

func TestService_RequiresRoot(t *testing.T) {
	_, err := NewService(NewScanner(nil), &recordingQueue{}, nil).IngestDirectory(context.Background(), DirectoryIngestRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
