package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"RateLimited", &openai.APIError{HTTPStatusCode: 429}, true},
		{"ServerError", &openai.APIError{HTTPStatusCode: 503}, true},
		{"BadRequest", &openai.APIError{HTTPStatusCode: 400}, false},
		{"Unauthorized", &openai.APIError{HTTPStatusCode: 401}, false},
		{"NotFound", &openai.APIError{HTTPStatusCode: 404}, false},
		{"WrappedAPIError", fmt.Errorf("embed: %w", &openai.APIError{HTTPStatusCode: 500}), true},
		{"TransportError", errors.New("connection reset by peer"), true},
		{"Canceled", context.Canceled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryable(tc.err); got != tc.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
