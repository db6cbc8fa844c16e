package passgen

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoSource(t *testing.T) {
	src := NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v, err := src.IntN(7)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}

	_, err := src.IntN(0)
	assert.Error(t, err)
}

func TestCryptoSourceReaderError(t *testing.T) {
	src := &CryptoSource{Reader: bytes.NewReader(nil)}
	_, err := src.IntN(10)
	assert.ErrorContains(t, err, "reading random source")
}

func TestSeededSourceRepeatable(t *testing.T) {
	a, b := NewSeededSource(99), NewSeededSource(99)
	for i := 0; i < 100; i++ {
		x, err := a.IntN(1000)
		require.NoError(t, err)
		y, err := b.IntN(1000)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}

	_, err := a.IntN(-1)
	assert.Error(t, err)
}

func TestSeededSourceConcurrent(t *testing.T) {
	src := NewSeededSource(1)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = src.IntN(205)
			}
		}()
	}
	wg.Wait()
}

func TestSourceFunc(t *testing.T) {
	var got int
	src := SourceFunc(func(n int) (int, error) {
		got = n
		return n - 1, nil
	})
	v, err := src.IntN(5)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Equal(t, 5, got)
}
