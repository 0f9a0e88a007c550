package llm

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"nlsql/pkg/config"

	"github.com/Role1776/gigago"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	_ Generator = (*GigaChatClient)(nil)
	_ Embedder  = (*GigaChatClient)(nil)
)

const (
	// Base URL for the GigaChat REST API.
	// Documentation: https://developers.sber.ru/docs/ru/gigachat/api/main
	gigaChatBaseURL  = "https://gigachat.devices.sberbank.ru/api/v1"
	gigaChatOAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"

	tokenRefreshSlack = time.Minute
)

var gigaChatEmbeddingDims = map[string]int{
	"Embeddings": 1024,
}

var errTokenExpired = errors.New("access token expired")

// GigaChatClient serves both SQL generation and embeddings. Generation goes
// through the gigago SDK; embeddings are not covered by the SDK and use the
// REST API directly with a separately managed OAuth token.
type GigaChatClient struct {
	client        *gigago.Client
	model         *gigago.GenerativeModel
	readonlyModel *gigago.GenerativeModel
	plainModel    *gigago.GenerativeModel
	cfg           *config.GigaChatConfig
	logger        *zap.Logger
	httpClient    *http.Client
	baseURL       string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewGigaChat(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (*GigaChatClient, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.GigaChat.Scope),
	}
	if cfg.GigaChat.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.GigaChat.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.GigaChat.Model)
	model.SystemInstruction = systemPrompt(false)
	model.Temperature = cfg.Temperature

	readonlyModel := client.GenerativeModel(cfg.GigaChat.Model)
	readonlyModel.SystemInstruction = systemPrompt(true)
	readonlyModel.Temperature = cfg.Temperature

	// Validation and explanation prompts carry their own instructions and
	// run without a system prompt.
	plainModel := client.GenerativeModel(cfg.GigaChat.Model)
	plainModel.Temperature = cfg.Temperature

	httpClient := &http.Client{Timeout: 60 * time.Second}
	if cfg.GigaChat.InsecureSkipVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	c := &GigaChatClient{
		client:        client,
		model:         model,
		readonlyModel: readonlyModel,
		plainModel:    plainModel,
		cfg:           &cfg.GigaChat,
		logger:        logger,
		httpClient:    httpClient,
		baseURL:       gigaChatBaseURL,
	}

	if _, err := c.ensureToken(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	logger.Info("GigaChat client initialized",
		zap.String("model", cfg.GigaChat.Model),
		zap.String("embedding_model", cfg.GigaChat.EmbeddingModel),
	)

	return c, nil
}

// ensureToken returns a valid access token, refreshing it when the cached
// one is close to expiry. Vectorization jobs can outlive a single token.
func (c *GigaChatClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > tokenRefreshSlack {
		return c.accessToken, nil
	}

	formData := url.Values{}
	formData.Set("scope", c.cfg.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gigaChatOAuthURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create OAuth request: %w", err)
	}

	// The API key is already a Base64-encoded client id/secret pair.
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("RqUID", uuid.New().String())
	req.Header.Set("Authorization", "Basic "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.logger.Error("OAuth request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
		)
		return "", fmt.Errorf("OAuth failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var oauthResp struct {
		AccessToken string `json:"access_token"`
		ExpiresAt   int64  `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&oauthResp); err != nil {
		return "", fmt.Errorf("failed to decode OAuth response: %w", err)
	}
	if oauthResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in OAuth response")
	}

	c.accessToken = oauthResp.AccessToken
	// expires_at is unix milliseconds; fall back to a conservative window
	// when the field is missing.
	c.tokenExpiry = time.Now().Add(25 * time.Minute)
	if oauthResp.ExpiresAt > 0 {
		c.tokenExpiry = time.UnixMilli(oauthResp.ExpiresAt)
	}

	c.logger.Info("GigaChat access token obtained", zap.Time("expires_at", c.tokenExpiry))
	return c.accessToken, nil
}

func (c *GigaChatClient) invalidateToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

func (c *GigaChatClient) generate(ctx context.Context, model *gigago.GenerativeModel, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *GigaChatClient) GenerateSQL(ctx context.Context, question, schemaInfo string, readonly bool) (string, error) {
	model := c.model
	if readonly {
		model = c.readonlyModel
	}
	return c.generate(ctx, model, userPrompt(question, schemaInfo, readonly))
}

func (c *GigaChatClient) ExplainSQL(ctx context.Context, sql string) (string, error) {
	return c.generate(ctx, c.plainModel, explanationPrompt(sql))
}

func (c *GigaChatClient) ValidateSQL(ctx context.Context, sql string, readonly bool) (string, error) {
	return c.generate(ctx, c.plainModel, validationPrompt(sql, readonly))
}

type gigaChatEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type gigaChatEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *GigaChatClient) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 || embeddings[0] == nil {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

func (c *GigaChatClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := c.embedOnce(ctx, texts)
	if err == nil {
		return embeddings, nil
	}
	if !errors.Is(err, errTokenExpired) {
		return nil, err
	}

	// Token expired mid-flight. Refresh once and retry.
	c.invalidateToken()
	return c.embedOnce(ctx, texts)
}

func (c *GigaChatClient) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(gigaChatEmbeddingRequest{
		Model: c.cfg.EmbeddingModel,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return nil, errTokenExpired
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embeddings request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var embedResp gigaChatEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings response: %w", err)
	}

	embeddings := make([][]float32, len(texts))
	for _, item := range embedResp.Data {
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		if item.Index >= 0 && item.Index < len(embeddings) {
			embeddings[item.Index] = vec
		}
	}

	return embeddings, nil
}

func (c *GigaChatClient) Dimensions() int {
	if dims, ok := gigaChatEmbeddingDims[c.cfg.EmbeddingModel]; ok {
		return dims
	}
	return 1024
}

func (c *GigaChatClient) ModelName() string {
	return c.cfg.EmbeddingModel
}

// Ping checks API reachability via the models endpoint.
func (c *GigaChatClient) Ping(ctx context.Context) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach GigaChat API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GigaChat API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (c *GigaChatClient) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
