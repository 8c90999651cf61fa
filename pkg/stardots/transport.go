package stardots

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/stardots-io/stardots-sdk-go/pkg/api"
)

// transport sends one signed request. It optionally validates the request
// against the OpenAPI document first and logs the exchange.
type transport struct {
	next      api.HttpRequestDoer
	logger    zerolog.Logger
	validator *api.Validator
}

func (t *transport) Do(req *http.Request) (*http.Response, error) {
	if t.validator != nil {
		if err := t.validator.ValidateRequest(req.Context(), req); err != nil {
			return nil, &ValidationError{
				Code:    ErrCodeSchemaViolation,
				Message: err.Error(),
			}
		}
	}

	start := time.Now()
	resp, err := t.next.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		t.logger.Warn().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("elapsed", elapsed).
			Msg("stardots request failed")
		return nil, err
	}

	t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("stardots request")
	return resp, nil
}

// exchange runs one call under the client timeout and maps its outcome onto
// the error taxonomy. A non-2xx response that still decodes as an envelope
// is returned together with its *StatusError.
func exchange[T envelope](ctx context.Context, c *Client, op string, call func(context.Context) (*api.Envelope[T], error)) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.timeout)
	defer cancel()

	resp, err := call(ctx)
	if err != nil {
		err = c.classify(ctx, op, err)
		c.opts.logger.Debug().Err(err).Str("op", op).Msg("stardots call failed")
		return nil, err
	}

	if resp.JSON != nil {
		c.logEnvelope(op, (*resp.JSON).Header())
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return resp.JSON, newStatusError(resp.StatusCode(), resp.Body)
	}
	return resp.JSON, nil
}

// envelope is satisfied by every response type through CommonResponse.
type envelope interface {
	Header() api.CommonResponse
}

func (c *Client) logEnvelope(op string, h api.CommonResponse) {
	event := c.opts.logger.Debug()
	if !h.Success {
		event = c.opts.logger.Info()
	}
	event.
		Str("op", op).
		Str("request_id", h.RequestId).
		Int("code", h.Code).
		Bool("success", h.Success).
		Msg(h.Message)
}

func (c *Client) classify(ctx context.Context, op string, err error) error {
	var ve *ValidationError
	var de *DecodeError
	switch {
	case errors.As(err, &ve), errors.As(err, &de):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &TimeoutError{Op: op, After: c.opts.timeout, Err: err}
	default:
		return &TransportError{Op: op, Err: err}
	}
}
