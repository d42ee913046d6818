package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleAnalysis = RoomAnalysis{
	RoomDetails: RoomDetails{
		RoomType:     "bedroom",
		CurrentStyle: "scandinavian",
		Furniture:    []string{"bed", "nightstand"},
		ColorScheme:  []string{"white", "oak"},
		Lighting:     "warm",
	},
	Flashcards: []Flashcard{
		{Card: 1, Title: "Add texture", Content: json.RawMessage(`"Layer wool throws."`)},
	},
}

func analysisHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(10<<20))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "room.jpg", header.Filename)

		json.NewEncoder(w).Encode(sampleAnalysis)
	}
}

func TestAnalyzePrimaryHost(t *testing.T) {
	srv := httptest.NewServer(analysisHandler(t))
	defer srv.Close()

	analysis, err := NewClient(srv.URL).Analyze(context.Background(), "room.jpg", []byte("jpegdata"))
	require.NoError(t, err)
	assert.Equal(t, "bedroom", analysis.RoomDetails.RoomType)
	assert.False(t, analysis.Degraded)
	assert.Len(t, analysis.Flashcards, 1)
}

func TestAnalyzeFallsBackToSecondaryHost(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer primary.Close()
	secondary := httptest.NewServer(analysisHandler(t))
	defer secondary.Close()

	analysis, err := NewClient(primary.URL, secondary.URL).Analyze(context.Background(), "room.jpg", []byte("jpegdata"))
	require.NoError(t, err)
	assert.Equal(t, "scandinavian", analysis.RoomDetails.CurrentStyle)
}

func TestAnalyzeAllHostsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.URL).Analyze(context.Background(), "room.jpg", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}

func TestAnalyzeOrPlaceholderDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	analysis := NewClient(srv.URL).AnalyzeOrPlaceholder(context.Background(), "room.jpg", []byte("x"))
	require.NotNil(t, analysis)
	assert.True(t, analysis.Degraded, "placeholder results must be tagged")
	assert.NotEmpty(t, analysis.Flashcards)
}

func TestAnalyzeOrPlaceholderPassesThrough(t *testing.T) {
	srv := httptest.NewServer(analysisHandler(t))
	defer srv.Close()

	analysis := NewClient(srv.URL).AnalyzeOrPlaceholder(context.Background(), "room.jpg", []byte("jpegdata"))
	assert.False(t, analysis.Degraded)
	assert.Equal(t, "bedroom", analysis.RoomDetails.RoomType)
}

func TestPlaceholderShape(t *testing.T) {
	p := Placeholder()
	assert.True(t, p.Degraded)
	assert.NotEmpty(t, p.RoomDetails.RoomType)
	assert.NotEmpty(t, p.RoomDetails.Furniture)
	require.Len(t, p.Flashcards, 3)
	for i, card := range p.Flashcards {
		assert.Equal(t, i+1, card.Card)
		assert.NotEmpty(t, card.Title)
	}
}
