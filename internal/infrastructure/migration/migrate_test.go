package migration

import (
	"io"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_EmbeddedMigrationsAreOrdered(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	versions := []uint{first}
	for v := first; ; {
		next, err := src.Next(v)
		if err != nil {
			assert.ErrorIs(t, err, os.ErrNotExist)
			break
		}
		versions = append(versions, next)
		v = next
	}
	assert.Equal(t, []uint{1, 2, 3}, versions)

	for _, v := range versions {
		up, _, err := src.ReadUp(v)
		require.NoError(t, err)
		_ = up.Close()
		down, _, err := src.ReadDown(v)
		require.NoError(t, err, "version %d has no down migration", v)
		_ = down.Close()
	}
}

func TestSource_InvoiceSchemaCarriesFeeConstraint(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	r, _, err := src.ReadUp(3)
	require.NoError(t, err)
	defer r.Close()
	body, err := io.ReadAll(r)
	require.NoError(t, err)

	assert.Contains(t, string(body), "WHERE reference = 'AMEND_FEE'")
}

func TestSourceFrom_IgnoresUnversionedFiles(t *testing.T) {
	src, err := sourceFrom(fstest.MapFS{
		"seed.sql": &fstest.MapFile{Data: []byte("SELECT 1")},
	})
	require.NoError(t, err)
	defer src.Close()

	_, err = src.First()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
