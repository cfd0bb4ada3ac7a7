package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/marketplace"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/subscription"
)

func TestWriteSellerTable(t *testing.T) {
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	items := []marketplace.Item{
		{
			Record: normalize.Record{"id": float64(7), "name": "Acme", "status": "active"},
			Subscription: &marketplace.SubscriptionInfo{
				PackageName:    "Silver",
				PackageEndDate: &end,
				Expiry:         subscription.Expiry{DaysLeft: 10, Critical: true, Label: "10 days left"},
			},
		},
		{Record: normalize.Record{"id": "8"}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeSellerTable(&buf, items))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "NAME", "STATUS", "PACKAGE", "END", "DATE", "EXPIRY"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"7", "Acme", "active", "Silver", "2024-01-31", "10", "days", "left", "!"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"8", "-", "-", "-", "-", "N/A"}, strings.Fields(lines[2]))
}

func TestWriteRecordTable(t *testing.T) {
	items := []marketplace.Item{
		{Record: normalize.Record{"id": "1", "question": "How to ship?", "status": "active"}},
		{Record: normalize.Record{"id": "2", "code": "DE"}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeRecordTable(&buf, items))

	out := buf.String()
	assert.Contains(t, out, "How to ship?")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"2", "DE", "-"}, strings.Fields(lines[2]))
}

func TestKindList(t *testing.T) {
	list := kindList()
	assert.Contains(t, list, "sellers")
	assert.Contains(t, list, "subscription-packages")
}
