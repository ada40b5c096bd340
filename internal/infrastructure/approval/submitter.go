package approval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	appfinance "github.com/furnish/backend/internal/application/finance"
	"github.com/furnish/backend/internal/infrastructure/config"
)

// maxResponseSize caps how much of an approval system response we read (1MB)
const maxResponseSize = 1 * 1024 * 1024

// HTTPSubmitter hands bills to the external approval system over HTTP.
// Submit runs inside the caller's transaction, so a rejected or unreachable
// approval endpoint keeps the bill in DRAFT.
type HTTPSubmitter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPSubmitter creates a new HTTPSubmitter
func NewHTTPSubmitter(cfg config.ApprovalConfig, logger *zap.Logger) *HTTPSubmitter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSubmitter{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type submitRequest struct {
	TenantID string `json:"tenantId"`
	FlowCode string `json:"flowCode"`
	BillID   string `json:"billId"`
	BillNo   string `json:"billNo"`
	Amount   string `json:"amount"`
}

type submitResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// Submit posts the bill to the approval system's intake endpoint
func (s *HTTPSubmitter) Submit(ctx context.Context, submission appfinance.ApprovalSubmission) error {
	payload, err := json.Marshal(submitRequest{
		TenantID: submission.TenantID.String(),
		FlowCode: submission.FlowCode,
		BillID:   submission.BillID.String(),
		BillNo:   submission.BillNo,
		Amount:   submission.Amount.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode approval submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/approvals", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build approval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("approval system unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read approval response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("approval submission rejected",
			zap.String("bill_no", submission.BillNo),
			zap.String("flow_code", submission.FlowCode),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("approval system returned status %d", resp.StatusCode)
	}

	var parsed submitResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to decode approval response: %w", err)
	}
	if !parsed.Accepted {
		return fmt.Errorf("approval system declined submission: %s", parsed.Message)
	}

	s.logger.Info("bill submitted for approval",
		zap.String("bill_no", submission.BillNo),
		zap.String("flow_code", submission.FlowCode))
	return nil
}

var _ appfinance.ApprovalSubmitter = (*HTTPSubmitter)(nil)
