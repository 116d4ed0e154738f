// Package upi generates UPI deep links for settling worker payments and
// validates UPI payment addresses. All functions are pure.
package upi

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

type Provider string

const (
	ProviderGeneric   Provider = "generic"
	ProviderGooglePay Provider = "googlepay"
	ProviderPhonePe   Provider = "phonepe"
	ProviderPaytm     Provider = "paytm"
	ProviderBHIM      Provider = "bhim"
)

// PaymentParams describes a single UPI payment.
type PaymentParams struct {
	UPIID           string  // e.g. 9876543210@paytm, username@oksbi
	Name            string  // payee display name
	Amount          float64 // amount in rupees
	Currency        string  // defaults to INR
	TransactionNote string  // defaults to "Payment for <name>"
}

var upiIDPattern = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}$`)

// handleNames maps common UPI handles to their payment app names.
var handleNames = map[string]string{
	"paytm":      "Paytm",
	"ybl":        "PhonePe",
	"oksbi":      "SBI Pay",
	"okaxis":     "Axis Pay",
	"okhdfcbank": "HDFC Pay",
	"okicici":    "ICICI Pay",
	"upi":        "Generic UPI",
}

// schemes maps providers to their deep-link URI prefixes. Every app accepts
// the same query parameters; only the scheme differs.
var schemes = map[Provider]string{
	ProviderGeneric:   "upi://pay",
	ProviderGooglePay: "tez://upi/pay",
	ProviderPhonePe:   "phonepe://pay",
	ProviderPaytm:     "paytmmp://pay",
	ProviderBHIM:      "bhim://pay",
}

// GenerateLink builds the generic upi://pay deep link, understood by every
// UPI app.
func GenerateLink(params PaymentParams) string {
	return GenerateProviderLink(params, ProviderGeneric)
}

// GenerateProviderLink builds a deep link under the given provider's URI
// scheme. Unknown providers fall back to the generic scheme.
func GenerateProviderLink(params PaymentParams, provider Provider) string {
	currency := params.Currency
	if currency == "" {
		currency = "INR"
	}

	note := params.TransactionNote
	if note == "" {
		note = "Payment for " + params.Name
	}

	scheme, ok := schemes[provider]
	if !ok {
		scheme = schemes[ProviderGeneric]
	}

	return fmt.Sprintf("%s?pa=%s&pn=%s&am=%s&cu=%s&tn=%s",
		scheme,
		escape(params.UPIID),
		escape(params.Name),
		formatAmount(params.Amount),
		currency,
		escape(note),
	)
}

// AllProviderLinks returns one deep link per supported provider, keyed by
// provider name. Useful for showing multiple payment options.
func AllProviderLinks(params PaymentParams) map[string]string {
	return map[string]string{
		string(ProviderGeneric):   GenerateLink(params),
		string(ProviderGooglePay): GenerateProviderLink(params, ProviderGooglePay),
		string(ProviderPhonePe):   GenerateProviderLink(params, ProviderPhonePe),
		string(ProviderPaytm):     GenerateProviderLink(params, ProviderPaytm),
		string(ProviderBHIM):      GenerateProviderLink(params, ProviderBHIM),
	}
}

// ValidateID reports whether upiID is a well-formed localpart@handle address.
func ValidateID(upiID string) bool {
	return upiIDPattern.MatchString(upiID)
}

// ProviderFromID resolves the payment app behind a UPI id from its handle
// segment. Unknown handles are returned uppercased; malformed ids return "".
func ProviderFromID(upiID string) string {
	parts := strings.Split(upiID, "@")
	if len(parts) != 2 {
		return ""
	}

	handle := strings.ToLower(parts[1])
	if name, ok := handleNames[handle]; ok {
		return name
	}
	return strings.ToUpper(handle)
}

// escape percent-encodes a query value. UPI apps expect %20 for spaces, so
// the form-encoding "+" is rewritten.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// formatAmount renders the amount without a trailing ".00" for whole rupees.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
