package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestSpill[T any](t *testing.T) FileSpill[T] {
	t.Helper()

	spill, err := OpenFileSpill[T](filepath.Join(t.TempDir(), "spill", "items.log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = spill.Close() })

	return spill
}

func TestFileSpill(t *testing.T) {
	t.Run("OpenFileSpill creates the directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "items.log")

		spill, err := OpenFileSpill[int](path)
		require.NoError(t, err)
		defer spill.Close()

		require.Equal(t, path, spill.Path())
		require.FileExists(t, path)
	})

	t.Run("FileSpill Append and Get", func(t *testing.T) {
		spill := openTestSpill[string](t)

		require.NoError(t, spill.Append("first"))
		require.NoError(t, spill.Append("second"))

		val1, err := spill.Get(0)
		require.NoError(t, err)
		require.Equal(t, "first", val1)

		val2, err := spill.Get(1)
		require.NoError(t, err)
		require.Equal(t, "second", val2)

		val3, err := spill.Get(3)
		require.Error(t, err)
		require.Equal(t, "", val3)
	})

	t.Run("AppendBatch adds multiple items", func(t *testing.T) {
		spill := openTestSpill[int](t)

		require.NoError(t, spill.AppendBatch([]int{10, 20, 30, 40, 50}))
		require.Equal(t, uint64(5), spill.Len())

		val, err := spill.Get(4)
		require.NoError(t, err)
		require.Equal(t, 50, val)
	})

	t.Run("Range callback error stops iteration", func(t *testing.T) {
		spill := openTestSpill[int](t)
		require.NoError(t, spill.AppendBatch([]int{1, 2, 3}))

		count := 0
		rangeErr := spill.Range(func(index uint64, _ int) error {
			count++
			if index == 1 {
				return errors.New("stop at index 1")
			}

			return nil
		})

		require.Error(t, rangeErr)
		require.Equal(t, 2, count)
	})

	t.Run("Append after Close fails but data stays readable", func(t *testing.T) {
		spill, err := OpenFileSpill[int](filepath.Join(t.TempDir(), "items.log"))
		require.NoError(t, err)

		require.NoError(t, spill.Append(1))
		require.NoError(t, spill.Close())
		require.Error(t, spill.Append(2))

		val, err := spill.Get(0)
		require.NoError(t, err)
		require.Equal(t, 1, val)
	})
}

func TestFileSpill_Reopen(t *testing.T) {
	type sample struct {
		Project string
		At      time.Time
		Score   float64
	}

	path := filepath.Join(t.TempDir(), "trend.log")
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	first, err := OpenFileSpill[sample](path)
	require.NoError(t, err)
	require.NoError(t, first.Append(sample{Project: "a", At: at, Score: 60}))
	require.NoError(t, first.Close())

	second, err := OpenFileSpill[sample](path)
	require.NoError(t, err)
	defer second.Close()

	require.Equal(t, uint64(1), second.Len())
	require.NoError(t, second.Append(sample{Project: "a", At: at.Add(time.Hour), Score: 78}))

	var scores []float64
	require.NoError(t, second.Range(func(_ uint64, item sample) error {
		scores = append(scores, item.Score)
		return nil
	}))

	require.Equal(t, []float64{60, 78}, scores)

	got, err := second.Get(0)
	require.NoError(t, err)
	require.True(t, at.Equal(got.At))
}

func TestFileSpill_TruncatedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.log")

	spill, err := OpenFileSpill[string](path)
	require.NoError(t, err)
	require.NoError(t, spill.AppendBatch([]string{"kept", "also kept"}))
	require.NoError(t, spill.Close())

	// Simulate a crash halfway through writing a third record.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.Write([]byte{0, 0, 0, 50, 1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened, err := OpenFileSpill[string](path)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, uint64(2), reopened.Len())
	require.NoError(t, reopened.Append("after crash"))

	last, err := reopened.Get(2)
	require.NoError(t, err)
	require.Equal(t, "after crash", last)
}

func TestEdgeCases(t *testing.T) {
	t.Run("empty filespill range returns no items", func(t *testing.T) {
		spill := openTestSpill[int](t)

		count := 0
		err := spill.Range(func(uint64, int) error {
			count++
			return nil
		})

		require.NoError(t, err)
		require.Equal(t, 0, count)
	})

	t.Run("get on empty filespill returns error", func(t *testing.T) {
		spill := openTestSpill[int](t)

		_, err := spill.Get(0)
		require.Error(t, err)
	})

	t.Run("append empty string", func(t *testing.T) {
		spill := openTestSpill[string](t)

		require.NoError(t, spill.Append(""))

		val, err := spill.Get(0)
		require.NoError(t, err)
		require.Equal(t, "", val)
	})
}

func BenchmarkAppend(b *testing.B) {
	spill, err := OpenFileSpill[int](filepath.Join(b.TempDir(), "bench.log"))
	if err != nil {
		b.Fatalf("failed to open filespill: %v", err)
	}
	defer spill.Close()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = spill.Append(i)
	}
}

func BenchmarkRange(b *testing.B) {
	spill, err := OpenFileSpill[int](filepath.Join(b.TempDir(), "bench.log"))
	if err != nil {
		b.Fatalf("failed to open filespill: %v", err)
	}
	defer spill.Close()

	for i := 0; i < 1000; i++ {
		_ = spill.Append(i)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = spill.Range(func(uint64, int) error { return nil })
	}
}
