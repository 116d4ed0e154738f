package upi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateLink(t *testing.T) {
	link := GenerateLink(PaymentParams{
		UPIID:  "test@paytm",
		Name:   "A B",
		Amount: 100,
	})

	assert.Equal(t, "upi://pay?pa=test%40paytm&pn=A%20B&am=100&cu=INR&tn=Payment%20for%20A%20B", link)
}

func TestGenerateLinkExplicitNoteAndCurrency(t *testing.T) {
	link := GenerateLink(PaymentParams{
		UPIID:           "worker@ybl",
		Name:            "Ravi Kumar",
		Amount:          150.5,
		Currency:        "INR",
		TransactionNote: "Pothole repair",
	})

	assert.Equal(t, "upi://pay?pa=worker%40ybl&pn=Ravi%20Kumar&am=150.5&cu=INR&tn=Pothole%20repair", link)
}

func TestGenerateProviderLink(t *testing.T) {
	params := PaymentParams{UPIID: "test@paytm", Name: "A B", Amount: 50}

	tests := []struct {
		provider Provider
		prefix   string
	}{
		{ProviderGeneric, "upi://pay?"},
		{ProviderGooglePay, "tez://upi/pay?"},
		{ProviderPhonePe, "phonepe://pay?"},
		{ProviderPaytm, "paytmmp://pay?"},
		{ProviderBHIM, "bhim://pay?"},
		{Provider("unknown"), "upi://pay?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			link := GenerateProviderLink(params, tt.provider)
			assert.True(t, strings.HasPrefix(link, tt.prefix), "got %s", link)
			assert.Contains(t, link, "pa=test%40paytm")
			assert.Contains(t, link, "am=50")
		})
	}
}

func TestAllProviderLinks(t *testing.T) {
	links := AllProviderLinks(PaymentParams{UPIID: "test@paytm", Name: "A B", Amount: 100})

	assert.Len(t, links, 5)
	assert.True(t, strings.HasPrefix(links["generic"], "upi://pay?"))
	assert.True(t, strings.HasPrefix(links["googlepay"], "tez://upi/pay?"))
	assert.True(t, strings.HasPrefix(links["phonepe"], "phonepe://pay?"))
	assert.True(t, strings.HasPrefix(links["paytm"], "paytmmp://pay?"))
	assert.True(t, strings.HasPrefix(links["bhim"], "bhim://pay?"))
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"test@paytm", true},
		{"9876543210@paytm", true},
		{"user.name@oksbi", true},
		{"user-name_x@okhdfcbank", true},
		{"ab@bc", true},
		{"a@b", false},          // localpart and handle both too short
		{"test", false},         // no handle
		{"test@", false},        // empty handle
		{"@paytm", false},       // empty localpart
		{"test@pay tm", false},  // space in handle
		{"test@paytm1", false},  // digit in handle
		{"te st@paytm", false},  // space in localpart
		{"test@@paytm", false},  // double separator
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateID(tt.id))
		})
	}
}

func TestProviderFromID(t *testing.T) {
	tests := []struct {
		id       string
		provider string
	}{
		{"test@paytm", "Paytm"},
		{"test@ybl", "PhonePe"},
		{"test@oksbi", "SBI Pay"},
		{"test@okaxis", "Axis Pay"},
		{"test@okhdfcbank", "HDFC Pay"},
		{"test@okicici", "ICICI Pay"},
		{"test@upi", "Generic UPI"},
		{"test@YBL", "PhonePe"},       // handle lookup is case-insensitive
		{"test@myhandle", "MYHANDLE"}, // unknown handles come back uppercased
		{"noseparator", ""},
		{"a@b@c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.provider, ProviderFromID(tt.id))
		})
	}
}

func TestAmountFormatting(t *testing.T) {
	tests := []struct {
		amount   float64
		rendered string
	}{
		{100, "am=100&"},
		{150.5, "am=150.5&"},
		{99.99, "am=99.99&"},
	}

	for _, tt := range tests {
		link := GenerateLink(PaymentParams{UPIID: "test@paytm", Name: "X", Amount: tt.amount})
		assert.Contains(t, link, tt.rendered)
	}
}
