package services

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKid      = "test-key-1"
	testAudience = "gallery-backend.apps.googleusercontent.com"
)

func newSigningKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func newJWKSServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	jwks := GoogleJWKS{Keys: []GoogleJWK{{
		Kty: "RSA",
		Kid: testKid,
		Use: "sig",
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
	}}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signAssertion(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func assertionClaims(aud string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"sub":   "google-sub-99",
		"aud":   aud,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"email": "verified@example.com",
		"name":  "Verified User",
	}
}

func TestVerifyAcceptsValidAssertion(t *testing.T) {
	key := newSigningKey(t)
	srv := newJWKSServer(t, key)
	client := NewGoogleJWKSClient(srv.URL, testAudience)

	claims, err := client.Verify(signAssertion(t, key, testKid, assertionClaims(testAudience)))
	require.NoError(t, err)
	assert.Equal(t, "google-sub-99", claims.Sub)
	assert.Equal(t, "verified@example.com", claims.Email)
	assert.Equal(t, "Verified User", claims.Name)
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	key := newSigningKey(t)
	srv := newJWKSServer(t, key)
	client := NewGoogleJWKSClient(srv.URL, testAudience)

	// signed with a different key but carrying the published kid
	imposter := newSigningKey(t)
	_, err := client.Verify(signAssertion(t, imposter, testKid, assertionClaims(testAudience)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature verification failed")
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	key := newSigningKey(t)
	srv := newJWKSServer(t, key)
	client := NewGoogleJWKSClient(srv.URL, testAudience)

	claims := assertionClaims(testAudience)
	claims["iss"] = "https://evil.example.com"
	_, err := client.Verify(signAssertion(t, key, testKid, claims))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid issuer")
}

func TestVerifyRejectsExpiredAssertion(t *testing.T) {
	key := newSigningKey(t)
	srv := newJWKSServer(t, key)
	client := NewGoogleJWKSClient(srv.URL, testAudience)

	claims := assertionClaims(testAudience)
	claims["iat"] = time.Now().Add(-2 * time.Hour).Unix()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err := client.Verify(signAssertion(t, key, testKid, claims))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	key := newSigningKey(t)
	srv := newJWKSServer(t, key)
	client := NewGoogleJWKSClient(srv.URL, testAudience)

	_, err := client.Verify(signAssertion(t, key, testKid, assertionClaims("some-other-app.apps.googleusercontent.com")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid audience")
}

func TestVerifyRejectsWhenNoAudienceConfigured(t *testing.T) {
	key := newSigningKey(t)
	srv := newJWKSServer(t, key)

	// a missing relying-party id must fail closed, never accept any audience
	client := NewGoogleJWKSClient(srv.URL, "")
	_, err := client.Verify(signAssertion(t, key, testKid, assertionClaims("some-other-app.apps.googleusercontent.com")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audience configured")
}

func TestVerifyRejectsUnknownKid(t *testing.T) {
	key := newSigningKey(t)
	srv := newJWKSServer(t, key)
	client := NewGoogleJWKSClient(srv.URL, testAudience)

	_, err := client.Verify(signAssertion(t, key, "rotated-away", assertionClaims(testAudience)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestVerifyRejectsNonRS256(t *testing.T) {
	key := newSigningKey(t)
	srv := newJWKSServer(t, key)
	client := NewGoogleJWKSClient(srv.URL, testAudience)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, assertionClaims(testAudience))
	token.Header["kid"] = testKid
	signed, err := token.SignedString([]byte("hmac-secret"))
	require.NoError(t, err)

	_, err = client.Verify(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported algorithm")

	_, err = client.Verify("not-a-jwt")
	assert.Error(t, err)
}
