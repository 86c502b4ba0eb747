package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/linguo/internal/platform/logger"
)

// Transport is one named entry in a FallbackProvider chain.
type Transport struct {
	Name     string
	Provider Provider
}

// FallbackProvider tries its transports in order and returns the first
// non-empty reply. There is no backoff and no retry of the same transport.
type FallbackProvider struct {
	transports []Transport
	log        *logger.Logger
}

// WithFallback chains transports in the given order.
func WithFallback(log *logger.Logger, transports ...Transport) *FallbackProvider {
	return &FallbackProvider{transports: transports, log: logger.OrNop(log)}
}

func (f *FallbackProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(f.transports) == 0 {
		return nil, ErrNoCredential
	}

	var errs []error
	for i, t := range f.transports {
		resp, err := t.Provider.Generate(ctx, req)
		if err == nil && strings.TrimSpace(resp.Text) == "" {
			err = &ErrInvalidResponse{Err: errors.New("empty reply")}
		}
		if err == nil {
			if i > 0 {
				f.log.Info("llm fallback transport succeeded", "transport", t.Name)
			}
			return resp, nil
		}

		errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		if !shouldFallBack(err) {
			break
		}
		if i < len(f.transports)-1 {
			f.log.Warn("llm transport failed, trying next",
				"transport", t.Name,
				"next", f.transports[i+1].Name,
				"error", err,
			)
		}
	}

	return nil, errors.Join(errs...)
}

// ModelID reports the primary transport's model.
func (f *FallbackProvider) ModelID() string {
	if len(f.transports) == 0 {
		return ""
	}
	return f.transports[0].Provider.ModelID()
}

// shouldFallBack reports whether the next transport is worth trying.
// Once the caller's context is done no transport can succeed.
func shouldFallBack(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
