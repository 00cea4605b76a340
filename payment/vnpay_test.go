package payment

import (
	"moontech/internal/config"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	conf := &config.Config{}
	conf.VNPay.TmnCode = "MOON0001"
	conf.VNPay.HashSecret = testSecret
	conf.VNPay.Url = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	conf.VNPay.ReturnUrl = "https://shop.example.com/api/v1/orders/vnpay-return"
	return conf
}

func testGateway(t *testing.T) *VNPay {
	t.Helper()
	gateway, err := NewVNPay(testConfig(), time.UTC)
	require.NoError(t, err)
	gateway.SetClock(func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 59, 0, time.UTC)
	})
	return gateway
}

func TestNewVNPay_MissingConfiguration(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(conf *config.Config)
	}{
		{"tmn code", func(conf *config.Config) { conf.VNPay.TmnCode = "" }},
		{"hash secret", func(conf *config.Config) { conf.VNPay.HashSecret = "" }},
		{"base url", func(conf *config.Config) { conf.VNPay.Url = "" }},
		{"return url", func(conf *config.Config) { conf.VNPay.ReturnUrl = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conf := testConfig()
			tc.mutate(conf)
			gateway, err := NewVNPay(conf, time.UTC)
			require.Error(t, err)
			assert.Nil(t, gateway)
			var configErr *ConfigError
			assert.ErrorAs(t, err, &configErr)
		})
	}
}

func TestNormalizeIP(t *testing.T) {
	assert.Equal(t, "203.0.113.5", NormalizeIP("::ffff:203.0.113.5"))
	assert.Equal(t, "203.0.113.5", NormalizeIP("203.0.113.5"))
	assert.Equal(t, "2001:db8::1", NormalizeIP("2001:db8::1"))
}

func TestVNPay_PaymentURL(t *testing.T) {
	gateway := testGateway(t)

	paymentUrl, txnRef, err := gateway.PaymentURL(500000, "", "::ffff:203.0.113.5")
	require.NoError(t, err)
	assert.Equal(t, "103059", txnRef)
	assert.True(t, strings.HasPrefix(paymentUrl, "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html?"))

	parsed, err := url.Parse(paymentUrl)
	require.NoError(t, err)
	query := parsed.Query()

	assert.Equal(t, "2.1.0", query.Get("vnp_Version"))
	assert.Equal(t, "pay", query.Get("vnp_Command"))
	assert.Equal(t, "MOON0001", query.Get("vnp_TmnCode"))
	assert.Equal(t, "vn", query.Get("vnp_Locale"))
	assert.Equal(t, "VND", query.Get("vnp_CurrCode"))
	assert.Equal(t, "103059", query.Get("vnp_TxnRef"))
	assert.Equal(t, "Thanh toan don hang 103059", query.Get("vnp_OrderInfo"))
	assert.Equal(t, "other", query.Get("vnp_OrderType"))
	assert.Equal(t, "50000000", query.Get("vnp_Amount"), "display amount scaled to minor units")
	assert.Equal(t, "203.0.113.5", query.Get("vnp_IpAddr"), "IPv4-mapped prefix stripped")
	assert.Equal(t, "20240315103059", query.Get("vnp_CreateDate"))
	assert.Equal(t, "VNBANK", query.Get("vnp_BankCode"), "empty bank code falls back to sentinel")
	assert.NotEmpty(t, query.Get("vnp_SecureHash"))
}

func TestVNPay_PaymentURLBankCode(t *testing.T) {
	gateway := testGateway(t)

	paymentUrl, _, err := gateway.PaymentURL(1000, "NCB", "203.0.113.5")
	require.NoError(t, err)

	parsed, err := url.Parse(paymentUrl)
	require.NoError(t, err)
	assert.Equal(t, "NCB", parsed.Query().Get("vnp_BankCode"))
}

func TestVNPay_PaymentURLRejectsBadAmount(t *testing.T) {
	gateway := testGateway(t)

	for _, amount := range []int64{0, -1, -500000} {
		_, _, err := gateway.PaymentURL(amount, "", "203.0.113.5")
		require.Error(t, err)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
}

// The signature in the produced URL must cover exactly the parameter set the
// gateway echoes back: parsing the URL and re-signing everything except the
// signature field reproduces the embedded signature.
func TestVNPay_PaymentURLRoundTrip(t *testing.T) {
	gateway := testGateway(t)

	paymentUrl, _, err := gateway.PaymentURL(500000, "", "::ffff:203.0.113.5")
	require.NoError(t, err)

	parsed, err := url.Parse(paymentUrl)
	require.NoError(t, err)
	query := parsed.Query()
	embedded := query.Get("vnp_SecureHash")
	require.NotEmpty(t, embedded)

	assert.True(t, gateway.VerifyCallback(query))

	params := make(Params, 0, len(query))
	for key := range query {
		if key == "vnp_SecureHash" {
			continue
		}
		params = append(params, Param{Key: key, Value: query.Get(key)})
	}
	signer, err := NewSigner(testSecret)
	require.NoError(t, err)
	recomputed, err := signer.Sign(params)
	require.NoError(t, err)
	assert.Equal(t, embedded, recomputed)
}

func TestVNPay_VerifyCallback(t *testing.T) {
	gateway := testGateway(t)
	signer, err := NewSigner(testSecret)
	require.NoError(t, err)

	params := Params{
		{"vnp_Amount", "50000000"},
		{"vnp_ResponseCode", "00"},
		{"vnp_TmnCode", "MOON0001"},
		{"vnp_TxnRef", "103059"},
	}
	signature, err := signer.Sign(params)
	require.NoError(t, err)

	values := url.Values{}
	for _, param := range params {
		values.Set(param.Key, param.Value)
	}
	values.Set("vnp_SecureHash", signature)
	values.Set("vnp_SecureHashType", "HMACSHA512")

	assert.True(t, gateway.VerifyCallback(values), "signature field stripped before recompute")

	tampered, _ := url.ParseQuery(values.Encode())
	tampered.Set("vnp_Amount", "99999999")
	assert.False(t, gateway.VerifyCallback(tampered))

	forged, _ := url.ParseQuery(values.Encode())
	forged.Set("vnp_SecureHash", strings.Repeat("ab", 64))
	assert.False(t, gateway.VerifyCallback(forged))

	unsigned, _ := url.ParseQuery(values.Encode())
	unsigned.Del("vnp_SecureHash")
	assert.False(t, gateway.VerifyCallback(unsigned), "missing signature is a verification failure")
}

func TestVNPay_VerifyCallbackIdempotent(t *testing.T) {
	gateway := testGateway(t)

	paymentUrl, _, err := gateway.PaymentURL(250000, "NCB", "203.0.113.5")
	require.NoError(t, err)
	parsed, err := url.Parse(paymentUrl)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.True(t, gateway.VerifyCallback(parsed.Query()))
	}
}
