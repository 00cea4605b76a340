package payment

import (
	"fmt"
	"moontech/internal/config"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	versionCode     = "2.1.0"
	commandPay      = "pay"
	localeDefault   = "vn"
	currencyCode    = "VND"
	orderTypeOther  = "other"
	defaultBankCode = "VNBANK"

	// signature fields are reserved: never part of the data they authenticate
	keySecureHash     = "vnp_SecureHash"
	keySecureHashType = "vnp_SecureHashType"

	// the gateway expects amounts in minor currency units
	minorUnitScale = 100

	// ResponseCodeSuccess is the gateway outcome code for a completed payment.
	// Outcome interpretation belongs to the caller; the verifier only proves
	// the callback is authentic.
	ResponseCodeSuccess = "00"

	KeyResponseCode = "vnp_ResponseCode"
	KeyTxnRef       = "vnp_TxnRef"
	KeyAmount       = "vnp_Amount"
)

// VNPay builds signed redirect URLs for the payment gateway and verifies
// return callbacks. Configuration is injected once at construction and
// read-only afterwards.
type VNPay struct {
	tmnCode   string
	baseUrl   string
	returnUrl string
	signer    *Signer
	location  *time.Location
	now       func() time.Time
}

func NewVNPay(conf *config.Config, location *time.Location) (*VNPay, error) {
	if conf.VNPay.TmnCode == "" {
		return nil, errConfig("missed TmnCode parameter in VNPay configuration")
	}
	if conf.VNPay.Url == "" {
		return nil, errConfig("missed Url parameter in VNPay configuration")
	}
	if conf.VNPay.ReturnUrl == "" {
		return nil, errConfig("missed ReturnUrl parameter in VNPay configuration")
	}
	signer, err := NewSigner(conf.VNPay.HashSecret)
	if err != nil {
		return nil, err
	}
	if location == nil {
		location = time.UTC
	}
	return &VNPay{
		tmnCode:   conf.VNPay.TmnCode,
		baseUrl:   conf.VNPay.Url,
		returnUrl: conf.VNPay.ReturnUrl,
		signer:    signer,
		location:  location,
		now:       time.Now,
	}, nil
}

// SetClock replaces the time source; timestamps and transaction references
// are captured once per payment attempt.
func (v *VNPay) SetClock(now func() time.Time) {
	v.now = now
}

// NormalizeIP strips the IPv4-mapped-IPv6 prefix so plain and prefixed
// addresses sign identically.
func NormalizeIP(ip string) string {
	return strings.TrimPrefix(ip, "::ffff:")
}

// PaymentURL assembles the signed redirect URL for a checkout attempt.
// Amount is in the store display currency; minor-unit scaling happens here.
// Returns the absolute URL and the transaction reference embedded in it.
func (v *VNPay) PaymentURL(amount int64, bankCode, ipAddr string) (string, string, error) {
	if amount <= 0 {
		return "", "", errValidation("payment amount must be positive, got %d", amount)
	}
	if bankCode == "" {
		bankCode = defaultBankCode
	}

	now := v.now().In(v.location)
	createDate := now.Format("20060102150405")
	txnRef := now.Format("150405")

	params := Params{
		{"vnp_Version", versionCode},
		{"vnp_Command", commandPay},
		{"vnp_TmnCode", v.tmnCode},
		{"vnp_Locale", localeDefault},
		{"vnp_CurrCode", currencyCode},
		{KeyTxnRef, txnRef},
		{"vnp_OrderInfo", fmt.Sprintf("Thanh toan don hang %s", txnRef)},
		{"vnp_OrderType", orderTypeOther},
		{KeyAmount, strconv.FormatInt(amount*minorUnitScale, 10)},
		{"vnp_ReturnUrl", v.returnUrl},
		{"vnp_IpAddr", NormalizeIP(ipAddr)},
		{"vnp_CreateDate", createDate},
		{"vnp_BankCode", bankCode},
	}

	signature, err := v.signer.Sign(params)
	if err != nil {
		return "", "", err
	}

	query := url.Values{}
	for _, param := range params {
		query.Set(param.Key, param.Value)
	}
	query.Set(keySecureHash, signature)

	return v.baseUrl + "?" + query.Encode(), txnRef, nil
}

// VerifyCallback authenticates a gateway return request. The signature
// fields are stripped from the received set before the digest is recomputed.
// A callback without a signature is a verification failure, not an error.
func (v *VNPay) VerifyCallback(values url.Values) bool {
	received := values.Get(keySecureHash)
	if received == "" {
		return false
	}
	params := make(Params, 0, len(values))
	for key := range values {
		if key == keySecureHash || key == keySecureHashType {
			continue
		}
		params = append(params, Param{Key: key, Value: values.Get(key)})
	}
	return v.signer.Verify(params, received)
}
