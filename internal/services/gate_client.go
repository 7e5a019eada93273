package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/payform/acceptance/internal/cards"
	"github.com/payform/acceptance/internal/models"
)

// ErrCardUnknown is returned when the gate does not know the card number
var ErrCardUnknown = errors.New("card unknown to the bank")

// GateClient asks the bank whether a card may be charged
type GateClient interface {
	Authorize(ctx context.Context, kind models.Kind, number string) (*GateResponse, error)
}

// GateRequest is the body sent to the bank gate
type GateRequest struct {
	Number string `json:"number"`
}

// GateResponse is the bank gate's verdict
type GateResponse struct {
	Status models.PaymentStatus `json:"status"`
}

// HTTPGateClient implements GateClient against an external gate service
type HTTPGateClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGateClient creates a client for the gate served at baseURL
func NewGateClient(baseURL string) *HTTPGateClient {
	return &HTTPGateClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// gatePath returns the gate endpoint serving kind
func gatePath(kind models.Kind) (string, error) {
	switch kind {
	case models.KindDirect:
		return "/payment", nil
	case models.KindCredit:
		return "/credit", nil
	default:
		return "", fmt.Errorf("%w: %q", models.ErrUnknownKind, string(kind))
	}
}

// Authorize sends the card number to the gate
func (c *HTTPGateClient) Authorize(ctx context.Context, kind models.Kind, number string) (*GateResponse, error) {
	path, err := gatePath(kind)
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(GateRequest{Number: number})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// The gate answers 4xx/5xx for numbers it has no verdict for
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gate returned status %d: %s", ErrCardUnknown, resp.StatusCode, string(body))
	}

	var gateResp GateResponse
	if err := json.Unmarshal(body, &gateResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if _, err := models.ParseStatus(string(gateResp.Status)); err != nil {
		return nil, fmt.Errorf("gate answered with %w", err)
	}

	return &gateResp, nil
}

// EmulatorGate answers like the bank emulator: the two designated cards get
// their fixed verdicts and every other number is unknown
type EmulatorGate struct{}

// Authorize returns the fixed verdict for number
func (EmulatorGate) Authorize(ctx context.Context, kind models.Kind, number string) (*GateResponse, error) {
	if _, err := gatePath(kind); err != nil {
		return nil, err
	}

	switch cards.FormatNumber(number) {
	case cards.ApprovedNumber:
		return &GateResponse{Status: models.StatusApproved}, nil
	case cards.DeclinedNumber:
		return &GateResponse{Status: models.StatusDeclined}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrCardUnknown, number)
	}
}
