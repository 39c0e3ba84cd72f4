package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	recaptchaVerifyURL       = "https://www.google.com/recaptcha/api/siteverify"
	DefaultRecaptchaMinScore = 0.5
)

// ErrRecaptchaFailed marks a token Google rejected or scored too low
var ErrRecaptchaFailed = errors.New("reCAPTCHA verification failed")

// RecaptchaService handles reCAPTCHA v3 verification
type RecaptchaService struct {
	secretKey string
	minScore  float64
	verifyURL string
	client    *http.Client
}

// NewRecaptchaService creates a new reCAPTCHA service.
// It returns nil when no secret key is configured, which disables verification.
func NewRecaptchaService(secretKey string, minScore float64) *RecaptchaService {
	if secretKey == "" {
		return nil
	}
	if minScore <= 0 {
		minScore = DefaultRecaptchaMinScore
	}
	return &RecaptchaService{
		secretKey: secretKey,
		minScore:  minScore,
		verifyURL: recaptchaVerifyURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithVerifyURL points the service at another siteverify endpoint
func (s *RecaptchaService) WithVerifyURL(verifyURL string) *RecaptchaService {
	s.verifyURL = verifyURL
	return s
}

// recaptchaResponse represents the response from Google's reCAPTCHA API
type recaptchaResponse struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// VerifyToken checks a token with Google. Rejections wrap ErrRecaptchaFailed;
// any other error means Google could not be asked.
func (s *RecaptchaService) VerifyToken(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrRecaptchaFailed)
	}

	data := url.Values{}
	data.Set("secret", s.secretKey)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create reCAPTCHA request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to verify reCAPTCHA: %w", err)
	}
	defer resp.Body.Close()

	var result recaptchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse reCAPTCHA response: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("%w: %v", ErrRecaptchaFailed, result.ErrorCodes)
	}

	// Check score (for reCAPTCHA v3)
	if result.Score < s.minScore {
		return fmt.Errorf("%w: score too low: %.2f < %.2f", ErrRecaptchaFailed, result.Score, s.minScore)
	}
	return nil
}
