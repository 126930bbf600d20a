package prep

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandTabsAdvancesToNextStop(t *testing.T) {
	require.Equal(t, "a       b", expandTabs("a\tb", 8))
	require.Equal(t, "ab      c", expandTabs("ab\tc", 8))
}

func TestWrapAndPaginateHardWrapsLongLines(t *testing.T) {
	f, err := os.CreateTemp("", "wrap-*.txt")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	_, err = f.WriteString("0123456789\nshort\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = os.Open(f.Name())
	require.NoError(t, err)
	defer f.Close()

	pages := wrapAndPaginate(f, 5, 10)
	require.Len(t, pages, 1)
	require.Equal(t, []string{"01234", "56789", "short"}, pages[0])
}

func TestWrapAndPaginateGroupsIntoFixedSizePages(t *testing.T) {
	f, err := os.CreateTemp("", "wrap-*.txt")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	_, err = f.WriteString("a\nb\nc\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = os.Open(f.Name())
	require.NoError(t, err)
	defer f.Close()

	pages := wrapAndPaginate(f, 80, 2)
	require.Len(t, pages, 2)
	require.Equal(t, []string{"a", "b"}, pages[0])
	require.Equal(t, []string{"c"}, pages[1])
}
