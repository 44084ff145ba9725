// Package google is a Cloud Translation v2 backend.
package google

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/translate"
)

// DefaultBaseURL is the public v2 endpoint.
const DefaultBaseURL = "https://translation.googleapis.com/language/translate/v2"

// Client calls the translate and detect endpoints with an API key.
type Client struct {
	apiKey  string
	baseURL string
	http    *resty.Client
	log     *zerolog.Logger
}

// New creates a client. An empty baseURL selects DefaultBaseURL.
func New(apiKey, baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    c,
		log:     logger,
	}
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

type detectResponse struct {
	Data struct {
		Detections [][]struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		} `json:"detections"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// Translate implements translate.Translator. HTML entities in the response
// are decoded.
func (c *Client) Translate(ctx context.Context, text, target, source string) (string, error) {
	body := map[string]string{
		"q":      text,
		"target": target,
		"format": "text",
	}
	if source != "" {
		body["source"] = source
	}

	var resp translateResponse
	if err := c.post(ctx, "translate", c.baseURL, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Data.Translations) == 0 {
		return "", translate.TransportError("translate", errors.New("empty translations in response"))
	}
	return html.UnescapeString(resp.Data.Translations[0].TranslatedText), nil
}

// Detect implements translate.Detector and returns the top detection.
func (c *Client) Detect(ctx context.Context, text string) (translate.Detection, error) {
	var resp detectResponse
	if err := c.post(ctx, "detect", c.baseURL+"/detect", map[string]string{"q": text}, &resp); err != nil {
		return translate.Detection{}, err
	}
	if len(resp.Data.Detections) == 0 || len(resp.Data.Detections[0]) == 0 {
		return translate.Detection{}, translate.UndetectableError("detect", nil)
	}
	top := resp.Data.Detections[0][0]
	return translate.Detection{Language: top.Language, Confidence: top.Confidence}, nil
}

func (c *Client) post(ctx context.Context, op, url string, body any, result any) error {
	var apiErr errorResponse
	r, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(result).
		SetError(&apiErr).
		Post(url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return translate.TransportError(op, err)
	}
	if !r.IsError() {
		return nil
	}

	c.log.Error().
		Str("op", op).
		Int("status", r.StatusCode()).
		Str("body", r.String()).
		Msg("translation api error")
	return classify(op, r.StatusCode(), apiErr)
}

// classify maps an API error onto the translate error kinds. A 400 that
// names the "und" language or a bad language pair means the input language
// could not be identified. Other 400s blame the text, unless they are about
// credentials.
func classify(op string, status int, apiErr errorResponse) error {
	msg := apiErr.Error.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	err := fmt.Errorf("status %d: %s", status, msg)

	switch {
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return translate.TransportError(op, err)
	case status == http.StatusBadRequest && undefinedLanguage(apiErr):
		return translate.UndetectableError(op, fmt.Errorf("%w: %v", translate.ErrUndefinedLanguage, err))
	case status == http.StatusBadRequest && !credentialProblem(apiErr):
		return translate.InputError(op, err)
	default:
		return translate.ClientError(op, err)
	}
}

func credentialProblem(apiErr errorResponse) bool {
	texts := []string{apiErr.Error.Message}
	for _, e := range apiErr.Error.Errors {
		texts = append(texts, e.Message, e.Reason)
	}
	for _, t := range texts {
		lower := strings.ToLower(t)
		if strings.Contains(lower, "api key") || strings.Contains(lower, "keyinvalid") ||
			strings.Contains(lower, "keyexpired") {
			return true
		}
	}
	return false
}

func undefinedLanguage(apiErr errorResponse) bool {
	texts := []string{apiErr.Error.Message}
	for _, e := range apiErr.Error.Errors {
		texts = append(texts, e.Message, e.Reason)
	}
	for _, t := range texts {
		lower := strings.ToLower(t)
		if strings.Contains(lower, "bad language pair") ||
			strings.Contains(lower, "'und'") ||
			strings.Contains(lower, "language: und") ||
			strings.Contains(lower, "invalid value") && strings.Contains(lower, "und") {
			return true
		}
	}
	return false
}
