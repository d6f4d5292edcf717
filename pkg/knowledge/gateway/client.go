// Package gateway implements knowledge.Provider against the HTTP gateway
// fronting the managed knowledge-base service. The wire format mirrors the
// upstream retrieve-and-generate API so the gateway can proxy it verbatim.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"contextual-chatbot-be/pkg/knowledge"
	"contextual-chatbot-be/pkg/provider"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultTimeout = 60 * time.Second
	maxAttempts    = 3
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// --- wire structures (upstream-compatible) ---

type ingestionJobEnvelope struct {
	IngestionJob struct {
		IngestionJobID string `json:"ingestionJobId"`
		Status         string `json:"status"`
	} `json:"ingestionJob"`
}

type rngRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	SessionID                        string `json:"sessionId,omitempty"`
	RetrieveAndGenerateConfiguration struct {
		Type                       string `json:"type"`
		KnowledgeBaseConfiguration struct {
			KnowledgeBaseID        string `json:"knowledgeBaseId"`
			ModelArn               string `json:"modelArn"`
			RetrievalConfiguration struct {
				VectorSearchConfiguration struct {
					Filter struct {
						Equals struct {
							Key   string `json:"key"`
							Value string `json:"value"`
						} `json:"equals"`
					} `json:"filter"`
					NumberOfResults int `json:"numberOfResults"`
				} `json:"vectorSearchConfiguration"`
			} `json:"retrievalConfiguration"`
		} `json:"knowledgeBaseConfiguration"`
	} `json:"retrieveAndGenerateConfiguration"`
}

type rngResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	SessionID string `json:"sessionId"`
	Citations []struct {
		RetrievedReferences []struct {
			Content struct {
				Text string `json:"text"`
			} `json:"content"`
			Location struct {
				S3Location struct {
					URI string `json:"uri"`
				} `json:"s3Location"`
			} `json:"location"`
			Metadata map[string]interface{} `json:"metadata"`
		} `json:"retrievedReferences"`
	} `json:"citations"`
}

func (c *Client) StartIngestionJob(ctx context.Context, knowledgeBaseID, dataSourceID string) (string, error) {
	endpoint := fmt.Sprintf("%s/knowledge-bases/%s/data-sources/%s/ingestion-jobs",
		c.baseURL, url.PathEscape(knowledgeBaseID), url.PathEscape(dataSourceID))

	var envelope ingestionJobEnvelope
	if err := c.call(ctx, http.MethodPost, endpoint, nil, &envelope); err != nil {
		return "", provider.Wrap("knowledge", "start ingestion job", err)
	}
	if envelope.IngestionJob.IngestionJobID == "" {
		return "", provider.Wrap("knowledge", "start ingestion job", fmt.Errorf("gateway returned no job id"))
	}
	return envelope.IngestionJob.IngestionJobID, nil
}

func (c *Client) GetIngestionJob(ctx context.Context, knowledgeBaseID, dataSourceID, jobID string) (knowledge.IngestionJobStatus, error) {
	endpoint := fmt.Sprintf("%s/knowledge-bases/%s/data-sources/%s/ingestion-jobs/%s",
		c.baseURL, url.PathEscape(knowledgeBaseID), url.PathEscape(dataSourceID), url.PathEscape(jobID))

	var envelope ingestionJobEnvelope
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &envelope); err != nil {
		return "", provider.Wrap("knowledge", "get ingestion job", err)
	}
	return knowledge.IngestionJobStatus(envelope.IngestionJob.Status), nil
}

func (c *Client) RetrieveAndGenerate(ctx context.Context, req *knowledge.RetrieveAndGenerateRequest) (*knowledge.RetrieveAndGenerateResponse, error) {
	var wireReq rngRequest
	wireReq.Input.Text = req.Query
	wireReq.SessionID = req.SessionToken

	kbConf := &wireReq.RetrieveAndGenerateConfiguration
	kbConf.Type = "KNOWLEDGE_BASE"
	kbConf.KnowledgeBaseConfiguration.KnowledgeBaseID = req.KnowledgeBaseID
	kbConf.KnowledgeBaseConfiguration.ModelArn = req.ModelID

	vsConf := &kbConf.KnowledgeBaseConfiguration.RetrievalConfiguration.VectorSearchConfiguration
	vsConf.Filter.Equals.Key = req.Filter.Key
	vsConf.Filter.Equals.Value = req.Filter.Value
	vsConf.NumberOfResults = req.NumberOfResults

	var wireResp rngResponse
	if err := c.call(ctx, http.MethodPost, c.baseURL+"/retrieve-and-generate", wireReq, &wireResp); err != nil {
		return nil, provider.Wrap("knowledge", "retrieve and generate", err)
	}

	resp := &knowledge.RetrieveAndGenerateResponse{
		OutputText:   wireResp.Output.Text,
		SessionToken: wireResp.SessionID,
	}
	for _, group := range wireResp.Citations {
		cg := knowledge.CitationGroup{}
		for _, ref := range group.RetrievedReferences {
			uri := ref.Location.S3Location.URI
			if uri == "" {
				uri = metadataString(ref.Metadata, "x-amz-bedrock-kb-source-uri")
			}
			cg.RetrievedReferences = append(cg.RetrievedReferences, knowledge.RetrievedReference{
				Excerpt:    ref.Content.Text,
				SourceURI:  uri,
				PageNumber: metadataInt(ref.Metadata, "x-amz-bedrock-kb-document-page-number"),
			})
		}
		resp.Citations = append(resp.Citations, cg)
	}
	return resp, nil
}

// call performs one gateway request with bounded retries on transport and
// server-side failures. Client errors (4xx) are permanent.
func (c *Client) call(ctx context.Context, method, endpoint string, reqBody, respBody interface{}) error {
	var payload []byte
	if reqBody != nil {
		var err error
		payload, err = json.Marshal(reqBody)
		if err != nil {
			return err
		}
	}

	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("gateway status %d: %s", resp.StatusCode, string(data))
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("gateway status %d: %s", resp.StatusCode, string(data)))
		}
		return data, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxAttempts),
	)
	if err != nil {
		return err
	}

	if respBody != nil {
		if err := json.Unmarshal(body, respBody); err != nil {
			return err
		}
	}
	return nil
}

func metadataString(metadata map[string]interface{}, key string) string {
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}

func metadataInt(metadata map[string]interface{}, key string) int {
	switch v := metadata[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
