package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniassist/uniassist/model"
)

func insertTestDocument(t *testing.T, documents *DocumentsDBHandler, filename string) *model.DocumentRecord {
	t.Helper()
	doc := model.NewDocument(filename, model.DocTypeNotes, "some course content for records tests")
	record, err := documents.InsertDocument(doc, 1)
	require.NoError(t, err)
	t.Cleanup(func() {
		documents.DeleteDocument(filename)
	})
	return record
}

func testChunks(filename string, texts ...string) []*model.Chunk {
	doc := model.NewDocument(filename, model.DocTypeNotes, "")
	chunks := make([]*model.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, model.NewChunk(doc, model.ChunkTypeSection, text, string(rune('a'+i)), model.Metadata{
			model.MetaSectionHeading: "Heading",
		}))
	}
	return chunks
}

func TestRecordsNewRecordsDBHandler(t *testing.T) {
	database := initDB(t)

	// Needed because a record has a reference to a document
	_, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)

	t.Run("Valid call NewRecordsDBHandler", func(t *testing.T) {
		recordsDbHandler, err := NewRecordsDBHandler(database, 3, true)
		assert.NoError(t, err, "Expected NewRecordsDBHandler to not return an error")
		require.NotNil(t, recordsDbHandler, "Expected NewRecordsDBHandler to return a non-nil instance")
		assert.Equal(t, 3, recordsDbHandler.EmbeddingDim(), "Expected embedding dimension to be stored")
	})

	t.Run("Invalid call NewRecordsDBHandler with nil database", func(t *testing.T) {
		_, err := NewRecordsDBHandler(nil, 3, false)
		assert.Error(t, err, "Expected error when creating RecordsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})

	t.Run("Invalid call NewRecordsDBHandler with non-positive dimension", func(t *testing.T) {
		_, err := NewRecordsDBHandler(database, 0, false)
		assert.Error(t, err, "Expected error when creating RecordsDBHandler with zero dimension")
		assert.Contains(t, err.Error(), "embedding dimension must be positive", "Expected specific error message for invalid dimension")
	})
}

func TestRecordsUpsert(t *testing.T) {
	database := initDB(t)

	documents, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)
	records, err := NewRecordsDBHandler(database, 3, true)
	require.NoError(t, err)

	docRecord := insertTestDocument(t, documents, "upsert_test.pdf")

	t.Run("Upsert records", func(t *testing.T) {
		chunks := testChunks("upsert_test.pdf", "first chunk", "second chunk")
		embeddings := [][]float32{{1, 0, 0}, {0, 1, 0}}

		inserted, err := records.UpsertRecords(docRecord.ID, chunks, embeddings)
		assert.NoError(t, err, "Expected Upsert to not return an error")
		require.Len(t, inserted, 2, "Expected two records back")
		assert.Equal(t, chunks[0].RID, inserted[0].RID, "Expected record to keep the chunk id")
		assert.Equal(t, "first chunk", inserted[0].Content, "Expected content to match")
		assert.Equal(t, docRecord.ID, inserted[0].DocumentID, "Expected document id to be set")

		count, err := records.CountRecords()
		require.NoError(t, err)
		assert.Equal(t, int64(2), count, "Expected two records in the index")
	})

	t.Run("Re-ingesting the same chunks replaces instead of duplicating", func(t *testing.T) {
		chunks := testChunks("upsert_test.pdf", "first chunk updated", "second chunk")
		embeddings := [][]float32{{0.5, 0.5, 0}, {0, 1, 0}}

		_, err := records.UpsertRecords(docRecord.ID, chunks, embeddings)
		assert.NoError(t, err)

		count, err := records.CountRecords()
		require.NoError(t, err)
		assert.Equal(t, int64(2), count, "Expected the record count to stay stable across re-ingestion")
	})

	t.Run("Upsert with mismatched lengths fails", func(t *testing.T) {
		chunks := testChunks("upsert_test.pdf", "only one chunk")
		embeddings := [][]float32{{1, 0, 0}, {0, 1, 0}}

		_, err := records.UpsertRecords(docRecord.ID, chunks, embeddings)
		assert.Error(t, err, "Expected error for mismatched chunk and embedding counts")
	})

	t.Run("Upsert with wrong embedding dimension fails", func(t *testing.T) {
		chunks := testChunks("upsert_test.pdf", "bad dimension")
		embeddings := [][]float32{{1, 0}}

		_, err := records.UpsertRecords(docRecord.ID, chunks, embeddings)
		assert.Error(t, err, "Expected error for wrong embedding dimension")

		count, err := records.CountRecords()
		require.NoError(t, err)
		assert.Equal(t, int64(2), count, "Expected failed batch to leave the index untouched")
	})

	// Cleanup
	require.NoError(t, records.DeleteRecordsByDocument(docRecord.ID))
}

func TestRecordsSimilaritySearch(t *testing.T) {
	database := initDB(t)

	documents, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)
	records, err := NewRecordsDBHandler(database, 3, true)
	require.NoError(t, err)

	docRecord := insertTestDocument(t, documents, "similarity_test.pdf")

	chunks := testChunks("similarity_test.pdf", "pointers", "arrays", "loops")
	embeddings := [][]float32{{1, 0, 0}, {0.7, 0.7, 0}, {0, 0, 1}}
	_, err = records.UpsertRecords(docRecord.ID, chunks, embeddings)
	require.NoError(t, err)

	t.Run("Results come back in descending similarity order", func(t *testing.T) {
		results, err := records.SelectRecordsBySimilarity([]float32{1, 0, 0}, 3, nil)
		assert.NoError(t, err, "Expected similarity search to not return an error")
		require.Len(t, results, 3, "Expected all three records")

		assert.Equal(t, "pointers", results[0].Content, "Expected the identical vector to rank first")
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity, "Expected non-increasing similarity")
		}
		assert.InDelta(t, 1.0, results[0].Similarity, 0.001, "Expected identical vectors to score ~1")
	})

	t.Run("Limit is honored", func(t *testing.T) {
		results, err := records.SelectRecordsBySimilarity([]float32{1, 0, 0}, 1, nil)
		assert.NoError(t, err)
		assert.Len(t, results, 1, "Expected exactly one result")
	})

	t.Run("Metadata filter restricts candidates", func(t *testing.T) {
		results, err := records.SelectRecordsBySimilarity([]float32{1, 0, 0}, 3, model.Filter{
			model.MetaDocType: string(model.DocTypeNotes),
		})
		assert.NoError(t, err)
		assert.Len(t, results, 3, "Expected matching filter to keep all records")

		results, err = records.SelectRecordsBySimilarity([]float32{1, 0, 0}, 3, model.Filter{
			model.MetaDocType: string(model.DocTypeSlides),
		})
		assert.NoError(t, err)
		assert.Empty(t, results, "Expected non-matching filter to return no records")
	})

	t.Run("Query with wrong dimension fails", func(t *testing.T) {
		_, err := records.SelectRecordsBySimilarity([]float32{1, 0}, 3, nil)
		assert.Error(t, err, "Expected error for wrong query dimension")
	})

	t.Run("Empty index returns empty result", func(t *testing.T) {
		require.NoError(t, records.DeleteRecordsByDocument(docRecord.ID))

		results, err := records.SelectRecordsBySimilarity([]float32{1, 0, 0}, 3, nil)
		assert.NoError(t, err, "Expected empty index to not return an error")
		assert.Empty(t, results, "Expected no results from an empty index")
	})
}

func TestRecordsDeleteByDocument(t *testing.T) {
	database := initDB(t)

	documents, err := NewDocumentsDBHandler(database, true)
	require.NoError(t, err)
	records, err := NewRecordsDBHandler(database, 3, true)
	require.NoError(t, err)

	docRecord := insertTestDocument(t, documents, "delete_test.pdf")

	chunks := testChunks("delete_test.pdf", "one", "two")
	_, err = records.UpsertRecords(docRecord.ID, chunks, [][]float32{{1, 0, 0}, {0, 1, 0}})
	require.NoError(t, err)

	t.Run("Delete records by document", func(t *testing.T) {
		err := records.DeleteRecordsByDocument(docRecord.ID)
		assert.NoError(t, err, "Expected Delete to not return an error")

		count, err := records.CountRecords()
		require.NoError(t, err)
		assert.Equal(t, int64(0), count, "Expected no records after delete")
	})
}
