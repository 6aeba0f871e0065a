package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/db"
	"github.com/user/reactvid-cli/platform"
	"github.com/user/reactvid-cli/session"
)

func TestFindAnnotationByPrefix(t *testing.T) {
	sess := session.New(db.NewMemoryKV(), session.Options{Namespace: "test"})
	require.NoError(t, sess.Load(platform.Video{Provider: platform.YouTube, ID: "dQw4w9WgXcQ"}, nil))

	a, err := sess.AnnotateAt(12, "hello", annotation.KindComment, "")
	require.NoError(t, err)

	got, err := findAnnotation(sess, shortID(a.ID))
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = findAnnotation(sess, "zzzz")
	assert.ErrorIs(t, err, annotation.ErrNotFound)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "01234567", shortID("0123456789abcdef"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[░░░░]", progressBar(0, 4))
	assert.Equal(t, "[██░░]", progressBar(50, 4))
	assert.Equal(t, "[████]", progressBar(100, 4))
}

func TestWarnPersist(t *testing.T) {
	assert.NoError(t, warnPersist(nil))
	assert.NoError(t, warnPersist(fmt.Errorf("%w: disk full", annotation.ErrPersist)))

	other := errors.New("boom")
	assert.Equal(t, other, warnPersist(other))
}

func TestSortLabel(t *testing.T) {
	assert.Equal(t, "oldest first", sortLabel(annotation.Ascending))
	assert.Equal(t, "newest first", sortLabel(annotation.Descending))
}
