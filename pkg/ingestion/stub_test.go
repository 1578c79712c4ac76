package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubSource_FetchCompany_Deterministic(t *testing.T) {
	s := NewStubSource()
	a, err := s.FetchCompany(context.Background(), "ACME")
	require.NoError(t, err)
	b, err := s.FetchCompany(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "ACME", a.Ticker)
}

func TestStubSource_FetchFilings_CountAndOrder(t *testing.T) {
	s := NewStubSource()
	filings, err := s.FetchFilings(context.Background(), "ACME", "10-K", 3)
	require.NoError(t, err)
	require.Len(t, filings, 3)
	for _, f := range filings {
		assert.Equal(t, "10-K", f.Form)
		assert.NotEmpty(t, f.AccessionNumber)
	}
	assert.NotEqual(t, filings[0].AccessionNumber, filings[1].AccessionNumber)
}

func TestStubSource_FetchDocuments_OnePerKnownType(t *testing.T) {
	s := NewStubSource()
	filings, err := s.FetchFilings(context.Background(), "ACME", "10-K", 1)
	require.NoError(t, err)
	docs, err := s.FetchDocuments(context.Background(), "ACME", filings[0])
	require.NoError(t, err)
	assert.Len(t, docs, len(stubDocumentTypes))
}
