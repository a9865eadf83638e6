package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"crm-service/internal/models"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"go.uber.org/zap"
)

// SMS validation and configuration errors
var (
	ErrSMSFieldsRequired   = errors.New("message and phone_numbers are required")
	ErrSMSGatewayNotConfig = errors.New("missing SMS gateway credentials")
)

// SMSGatewayConfig holds the Beem gateway settings
type SMSGatewayConfig struct {
	Endpoint string
	APIKey   string
	Secret   string
	SenderID string
}

// Configured reports whether the gateway credentials are present
func (c SMSGatewayConfig) Configured() bool {
	return c.APIKey != "" && c.Secret != "" && c.SenderID != ""
}

// SMSService sends SMS through the Beem gateway and records every attempt
type SMSService struct {
	store  *store.Store
	cfg    SMSGatewayConfig
	client *http.Client
	logger *zap.Logger
}

// NewSMSService creates a new SMS service
func NewSMSService(store *store.Store, cfg SMSGatewayConfig) *SMSService {
	return &SMSService{
		store:  store,
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: util.NamedLogger("sms"),
	}
}

// beemRecipient is one destination entry in a Beem send request
type beemRecipient struct {
	RecipientID int    `json:"recipient_id"`
	DestAddr    string `json:"dest_addr"`
}

// beemRequest is the Beem v1 send payload
type beemRequest struct {
	SourceAddr   string          `json:"source_addr"`
	ScheduleTime string          `json:"schedule_time"`
	Encoding     string          `json:"encoding"`
	Message      string          `json:"message"`
	Recipients   []beemRecipient `json:"recipients"`
}

// buildBeemRequest assembles the gateway payload for a send
func buildBeemRequest(senderID, message string, phoneNumbers []string) *beemRequest {
	recipients := make([]beemRecipient, 0, len(phoneNumbers))
	for _, num := range phoneNumbers {
		recipients = append(recipients, beemRecipient{
			RecipientID: rand.Intn(100000),
			DestAddr:    num,
		})
	}
	return &beemRequest{
		SourceAddr: senderID,
		Encoding:   "0",
		Message:    message,
		Recipients: recipients,
	}
}

// Send delivers an SMS to the given numbers via the gateway. Every attempt
// is recorded with its outcome; the record insert itself is best effort.
func (s *SMSService) Send(ctx context.Context, message string, phoneNumbers []string) error {
	ctx, span := util.StartSpan(ctx, "SMSService.Send")
	defer span.End()

	if message == "" || len(phoneNumbers) == 0 {
		return ErrSMSFieldsRequired
	}
	if !s.cfg.Configured() {
		return ErrSMSGatewayNotConfig
	}

	err := s.post(ctx, message, phoneNumbers)
	status := models.SMSStatusSent
	if err != nil {
		status = models.SMSStatusFailed
		s.logger.Error("SMS send failed",
			zap.Strings("recipients", phoneNumbers),
			zap.Error(err))
	} else {
		s.logger.Info("SMS sent", zap.Strings("recipients", phoneNumbers))
	}

	util.SMSSentTotal.WithLabelValues(status).Inc()
	s.record(ctx, message, phoneNumbers, status)

	return err
}

func (s *SMSService) post(ctx context.Context, message string, phoneNumbers []string) error {
	payload, err := json.Marshal(buildBeemRequest(s.cfg.SenderID, message, phoneNumbers))
	if err != nil {
		return fmt.Errorf("failed to marshal sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth(s.cfg.APIKey, s.cfg.Secret))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// record persists the send attempt; failures are logged, never propagated
func (s *SMSService) record(ctx context.Context, message string, phoneNumbers []string, status string) {
	rec := &models.SMSRecord{
		Message:      message,
		PhoneNumbers: strings.Join(phoneNumbers, ","),
		Status:       status,
	}
	if err := s.store.CreateSMSRecord(ctx, rec); err != nil {
		s.logger.Error("Failed to save SMS record", zap.Error(err))
	}
}

func basicAuth(key, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(key + ":" + secret))
}
