package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBeemRequest(t *testing.T) {
	req := buildBeemRequest("CRMCO", "Hello there", []string{"255700000001", "255700000002"})

	assert.Equal(t, "CRMCO", req.SourceAddr)
	assert.Equal(t, "Hello there", req.Message)
	assert.Equal(t, "0", req.Encoding)

	require.Len(t, req.Recipients, 2)
	assert.Equal(t, "255700000001", req.Recipients[0].DestAddr)
	assert.Equal(t, "255700000002", req.Recipients[1].DestAddr)
}

func TestSMSGatewayConfigured(t *testing.T) {
	cfg := SMSGatewayConfig{APIKey: "key", Secret: "secret", SenderID: "CRMCO"}
	assert.True(t, cfg.Configured())

	assert.False(t, SMSGatewayConfig{APIKey: "key", Secret: "secret"}.Configured())
	assert.False(t, SMSGatewayConfig{}.Configured())
}

func TestSendValidation(t *testing.T) {
	svc := NewSMSService(nil, SMSGatewayConfig{})
	ctx := context.Background()

	err := svc.Send(ctx, "", nil)
	assert.ErrorIs(t, err, ErrSMSFieldsRequired)

	err = svc.Send(ctx, "hi", []string{"255700000001"})
	assert.ErrorIs(t, err, ErrSMSGatewayNotConfig)
}
