package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"contextual-chatbot-be/pkg/knowledge"

	"github.com/stretchr/testify/assert"
)

func TestRetrieveAndGenerateWireFormat(t *testing.T) {
	var captured map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/retrieve-and-generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"output": {"text": "the answer"},
			"sessionId": "tok-1",
			"citations": [{
				"retrievedReferences": [{
					"content": {"text": "excerpt one"},
					"location": {"s3Location": {"uri": "s3://docs/alice/a.pdf"}},
					"metadata": {"x-amz-bedrock-kb-document-page-number": 7}
				}, {
					"content": {"text": "excerpt two"},
					"location": {"s3Location": {"uri": ""}},
					"metadata": {"x-amz-bedrock-kb-source-uri": "s3://docs/alice/b.pdf"}
				}]
			}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	resp, err := client.RetrieveAndGenerate(context.Background(), &knowledge.RetrieveAndGenerateRequest{
		Query:           "what do my docs say?",
		KnowledgeBaseID: "KB123",
		ModelID:         "model-x",
		Filter:          knowledge.RetrievalFilter{Key: "user", Value: "alice"},
		NumberOfResults: 5,
		SessionToken:    "tok-0",
	})
	assert.NoError(t, err)

	// Request shape
	input := captured["input"].(map[string]interface{})
	assert.Equal(t, "what do my docs say?", input["text"])
	assert.Equal(t, "tok-0", captured["sessionId"])

	conf := captured["retrieveAndGenerateConfiguration"].(map[string]interface{})
	assert.Equal(t, "KNOWLEDGE_BASE", conf["type"])
	kbConf := conf["knowledgeBaseConfiguration"].(map[string]interface{})
	assert.Equal(t, "KB123", kbConf["knowledgeBaseId"])
	assert.Equal(t, "model-x", kbConf["modelArn"])

	vsConf := kbConf["retrievalConfiguration"].(map[string]interface{})["vectorSearchConfiguration"].(map[string]interface{})
	assert.Equal(t, float64(5), vsConf["numberOfResults"])
	equals := vsConf["filter"].(map[string]interface{})["equals"].(map[string]interface{})
	assert.Equal(t, "user", equals["key"])
	assert.Equal(t, "alice", equals["value"])

	// Response mapping
	assert.Equal(t, "the answer", resp.OutputText)
	assert.Equal(t, "tok-1", resp.SessionToken)
	assert.Len(t, resp.Citations, 1)
	refs := resp.Citations[0].RetrievedReferences
	assert.Len(t, refs, 2)
	assert.Equal(t, "s3://docs/alice/a.pdf", refs[0].SourceURI)
	assert.Equal(t, 7, refs[0].PageNumber)
	assert.Equal(t, "s3://docs/alice/b.pdf", refs[1].SourceURI, "falls back to metadata when the location is empty")
}

func TestIngestionJobEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/knowledge-bases/KB123/data-sources/DS456/ingestion-jobs":
			w.Write([]byte(`{"ingestionJob": {"ingestionJobId": "job-1", "status": "STARTING"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/knowledge-bases/KB123/data-sources/DS456/ingestion-jobs/job-1":
			w.Write([]byte(`{"ingestionJob": {"ingestionJobId": "job-1", "status": "IN_PROGRESS"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	jobID, err := client.StartIngestionJob(context.Background(), "KB123", "DS456")
	assert.NoError(t, err)
	assert.Equal(t, "job-1", jobID)

	status, err := client.GetIngestionJob(context.Background(), "KB123", "DS456", "job-1")
	assert.NoError(t, err)
	assert.Equal(t, knowledge.StatusInProgress, status)
}

func TestCallRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ingestionJob": {"ingestionJobId": "job-1", "status": "STARTING"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	jobID, err := client.StartIngestionJob(context.Background(), "KB123", "DS456")
	assert.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, 3, attempts)
}

func TestCallDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.StartIngestionJob(context.Background(), "KB123", "DS456")
	assert.Error(t, err)
	assert.Equal(t, 1, attempts, "4xx responses are permanent")
}
