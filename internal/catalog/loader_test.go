package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingSource lets a test hold individual fetches open until
// released, to exercise the latest-request-wins rule.
type blockingSource struct {
	block   map[string]chan struct{}
	started chan struct{}
	payload map[string]string
}

func (s *blockingSource) Fetch(ctx context.Context, city string) (io.ReadCloser, error) {
	if gate, ok := s.block[city]; ok {
		if s.started != nil {
			close(s.started)
		}
		<-gate
	}
	body, ok := s.payload[city]
	if !ok {
		return nil, errors.New("no such city")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestLoader_LoadInstallsIndex(t *testing.T) {
	src := &blockingSource{payload: map[string]string{
		"ottawa": `{"names": ["Bank Street"], "refs": ["417"]}`,
	}}
	l := NewLoader(src)

	idx, err := l.Load(context.Background(), "ottawa")
	require.NoError(t, err)
	require.NotNil(t, idx)

	assert.Same(t, idx, l.Index())
	assert.Equal(t, "ottawa", l.City())
}

func TestLoader_FetchFailureLeavesCatalogAbsent(t *testing.T) {
	l := NewLoader(&blockingSource{payload: map[string]string{}})

	_, err := l.Load(context.Background(), "nowhere")
	require.Error(t, err)
	assert.Nil(t, l.Index())
}

func TestLoader_LatestRequestWins(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	src := &blockingSource{
		block:   map[string]chan struct{}{"gatineau": release},
		started: started,
		payload: map[string]string{
			"gatineau": `{"names": ["Boulevard Alexandre-Taché"]}`,
			"ottawa":   `{"names": ["Bank Street"]}`,
		},
	}
	l := NewLoader(src)

	type result struct {
		idx *Index
		err error
	}
	done := make(chan result, 1)
	go func() {
		idx, err := l.Load(context.Background(), "gatineau")
		done <- result{idx, err}
	}()

	// A newer load starts (and completes) while the first is blocked
	// mid-fetch.
	<-started
	current, err := l.Load(context.Background(), "ottawa")
	require.NoError(t, err)

	// Release the stale fetch; its result must not replace the newer one.
	close(release)
	stale := <-done
	require.NoError(t, stale.err)

	assert.Same(t, current, l.Index(), "stale load must not overwrite newer index")
	assert.Equal(t, "ottawa", l.City())
	assert.NotSame(t, stale.idx, l.Index())
}

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ottawa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"names": ["Bank Street"]}`), 0o644))

	rc, err := FileSource{Dir: dir}.Fetch(context.Background(), "ottawa")
	require.NoError(t, err)
	defer rc.Close()

	c, err := Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bank Street"}, c.Names)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := FileSource{Dir: t.TempDir()}.Fetch(context.Background(), "nowhere")
	assert.Error(t, err)
}
