// Package storetest holds the behaviour every core.PasteRepository must share,
// so each backend can be checked against the same cases.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whtpst/core"
)

func newPaste(t *testing.T, id, content string) core.NewPaste {
	t.Helper()
	pid, err := core.ParsePasteID(id)
	require.NoError(t, err)
	pc, err := core.ParsePasteContent(content)
	require.NoError(t, err)
	return core.NewPaste{ID: pid, Content: pc}
}

// randomID avoids collisions with data left over in persistent backends.
func randomID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Run exercises repo against the repository contract.
func Run(t *testing.T, repo core.PasteRepository) {
	ctx := context.Background()

	t.Run("what you insert is what you find", func(t *testing.T) {
		for _, content := range []string{
			"somecontent",
			"  leading and trailing space  ",
			"multi\nline\r\ncontent\n",
			"unicode: 日本語 é \U0001F600",
			strings.Repeat("long ", 20000),
		} {
			paste := newPaste(t, randomID("roundtrip"), content)
			require.NoError(t, repo.Insert(ctx, paste))
			got, err := repo.FindOne(ctx, paste.ID)
			require.NoError(t, err)
			assert.Equal(t, paste.Content, got)
		}
	})

	t.Run("ids are stored verbatim", func(t *testing.T) {
		for _, id := range []string{
			" spaced id ",
			"..",
			".",
			"日本語",
			"a:b?c#d%20",
			strings.Repeat("z", 256),
			// 256 graphemes each, but 1024, 2048 and 51456 bytes long.
			strings.Repeat("\U0001F600", 256),
			strings.Repeat("\U0001F1EB\U0001F1F7", 256),
			strings.Repeat("a"+strings.Repeat("\u0301", 100), 256),
		} {
			paste := newPaste(t, id, "content for "+id)
			require.NoError(t, repo.Insert(ctx, paste))
			got, err := repo.FindOne(ctx, paste.ID)
			require.NoError(t, err, id)
			assert.Equal(t, paste.Content, got)
		}
	})

	t.Run("missing ids are not found", func(t *testing.T) {
		id := core.PasteID(randomID("missing"))
		_, err := repo.FindOne(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNotFound)
		var notFound *core.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, id, notFound.ID)
		assert.Equal(t, "Not found: "+id.String(), err.Error())
	})

	t.Run("lookups are exact", func(t *testing.T) {
		id := randomID("exact")
		require.NoError(t, repo.Insert(ctx, newPaste(t, id, "x")))
		for _, other := range []string{id + " ", " " + id, strings.ToUpper(id)} {
			_, err := repo.FindOne(ctx, core.PasteID(other))
			assert.ErrorIs(t, err, core.ErrNotFound, other)
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		id := randomID("overwrite")
		require.NoError(t, repo.Insert(ctx, newPaste(t, id, "first")))
		require.NoError(t, repo.Insert(ctx, newPaste(t, id, "second")))
		got, err := repo.FindOne(ctx, core.PasteID(id))
		require.NoError(t, err)
		assert.Equal(t, core.PasteContent("second"), got)
	})

	t.Run("concurrent callers", func(t *testing.T) {
		const workers = 8
		const perWorker = 10
		prefix := randomID("concurrent")
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					id := fmt.Sprintf("%s-%d-%d", prefix, w, i)
					pid := core.PasteID(id)
					content := core.PasteContent("content " + id)
					if err := repo.Insert(ctx, core.NewPaste{ID: pid, Content: content}); err != nil {
						t.Errorf("insert %s: %v", id, err)
						return
					}
					got, err := repo.FindOne(ctx, pid)
					if err != nil {
						t.Errorf("find %s: %v", id, err)
						return
					}
					if got != content {
						t.Errorf("find %s: got %q", id, got)
					}
				}
			}(w)
		}
		wg.Wait()
	})
}
