package phmmscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{
			SqFrom:  i * 10,
			SqTo:    i*10 + 5,
			HMMFrom: i + 1,
			HMMTo:   i + 6,
		}
	}
	return records
}

func TestDumpRecordBoundsRoundTrip(t *testing.T) {
	records := sampleRecords(5)
	dump := DumpRecordBounds(records)

	rb, err := LoadRecordBounds(dump)
	require.NoError(t, err)

	for i, r := range records {
		assert.Equal(t, uint32(r.SqFrom), rb.SqFrom[i])
		assert.Equal(t, uint32(r.SqTo), rb.SqTo[i])
		assert.Equal(t, uint32(r.HMMFrom), rb.HMMFrom[i])
		assert.Equal(t, uint32(r.HMMTo), rb.HMMTo[i])
	}
}

func TestDumpRecordBoundsSpansMultipleBlocks(t *testing.T) {
	records := sampleRecords(300) // > deltapack.BlockSize, forces multiple blocks per field
	dump := DumpRecordBounds(records)

	rb, err := LoadRecordBounds(dump)
	require.NoError(t, err)
	require.Len(t, rb.SqFrom, 300)
	assert.Equal(t, uint32(2990), rb.SqFrom[299])
}

func TestDumpRecordBoundsEmptyBatch(t *testing.T) {
	dump := DumpRecordBounds(nil)
	rb, err := LoadRecordBounds(dump)
	require.NoError(t, err)
	assert.Empty(t, rb.SqFrom)
}

func TestLoadRecordBoundsRejectsTruncatedInput(t *testing.T) {
	_, err := LoadRecordBounds([]byte{1, 2})
	assert.ErrorIs(t, err, ErrNotLoaded)
}
