package sink

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewCSVSinkWritesHeaderImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	s, err := NewCSVSink(path, []string{"name", "sku", "price", "availability"})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "\"name\",\"sku\",\"price\",\"availability\"\n", readFile(t, path))
}

func TestAppendRowsIsDurablePerCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	s, err := NewCSVSink(path, []string{"a", "b"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.AppendRows([][]string{{"1", "2"}}))
	// Rows from a completed batch are on disk before the next batch
	// starts.
	assert.Equal(t, "\"a\",\"b\"\n\"1\",\"2\"\n", readFile(t, path))

	require.NoError(t, s.AppendRows([][]string{{"3", "4"}, {"5", "6"}}))
	assert.Equal(t, "\"a\",\"b\"\n\"1\",\"2\"\n\"3\",\"4\"\n\"5\",\"6\"\n", readFile(t, path))
}

func TestQuotingDoublesEmbeddedQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	s, err := NewCSVSink(path, []string{"name"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.AppendRows([][]string{{`O"Brien`}}))

	assert.Contains(t, readFile(t, path), "\"O\"\"Brien\"\n")
}

func TestQuoteRow(t *testing.T) {
	assert.Equal(t, `"a","b,c",""""`, quoteRow([]string{"a", "b,c", `"`}))
	assert.Equal(t, `""`, quoteRow([]string{""}))
}

func TestWriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elements.csv")

	err := WriteAll(path, []string{"text", "href"}, [][]string{
		{"Deal of the day", "https://shop.example.com/products/widget"},
		{"no link", ""},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"\"text\",\"href\"\n\"Deal of the day\",\"https://shop.example.com/products/widget\"\n\"no link\",\"\"\n",
		readFile(t, path))
}

func TestFilePath(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	path := FilePath("out", "https://shop.example.com/collections", "products", now)
	assert.Equal(t, filepath.Join("out", "shop_example_com_products_20260830_120000.csv"), path)

	path = FilePath("out", "::not a url::", "products", now)
	assert.Equal(t, filepath.Join("out", "output_products_20260830_120000.csv"), path)
}
