package extract_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monetalab/fincoach/internal/extract"
	"github.com/monetalab/fincoach/pkg/llm"
)

type profile struct {
	Name  string   `json:"name"`
	Goals []string `json:"goals"`
}

const profileSchema = `{"type":"object","properties":{"name":{"type":"string"},"goals":{"type":"array","items":{"type":"string"}}},"required":["name","goals"],"additionalProperties":false}`

func newExtractor(mock *llm.Mock) *extract.Extractor[profile] {
	return extract.New[profile](mock, "gpt-4o-mini", "profile", json.RawMessage(profileSchema))
}

func TestExtract_DecodesResponse(t *testing.T) {
	mock := (&llm.Mock{}).EnqueueText(`{"name":"Ada","goals":["save","invest"]}`)

	result, err := newExtractor(mock).Extract(context.Background(), "extract the profile", nil)

	require.NoError(t, err)
	assert.Equal(t, "Ada", result.Name)
	assert.Equal(t, []string{"save", "invest"}, result.Goals)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	require.NotNil(t, reqs[0].ResponseFormat)
	assert.Equal(t, "profile", reqs[0].ResponseFormat.Name)
	assert.True(t, reqs[0].ResponseFormat.Strict)
}

func TestExtract_StripsCodeFences(t *testing.T) {
	mock := (&llm.Mock{}).EnqueueText("```json\n{\"name\":\"Ada\",\"goals\":[]}\n```")

	result, err := newExtractor(mock).Extract(context.Background(), "extract", nil)

	require.NoError(t, err)
	assert.Equal(t, "Ada", result.Name)
}

func TestExtract_RejectsUnknownFields(t *testing.T) {
	mock := (&llm.Mock{}).EnqueueText(`{"name":"Ada","goals":[],"surprise":true}`)

	_, err := newExtractor(mock).Extract(context.Background(), "extract", nil)

	var exErr *extract.Error
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, "decode", exErr.Stage)
}

func TestExtract_ProviderError(t *testing.T) {
	providerErr := &llm.Error{Op: "complete", StatusCode: 500, Retryable: true}
	mock := &llm.Mock{
		CompleteFunc: func(context.Context, llm.CompletionRequest) (*llm.Completion, error) {
			return nil, providerErr
		},
	}

	_, err := newExtractor(mock).Extract(context.Background(), "extract", nil)

	var exErr *extract.Error
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, "complete", exErr.Stage)
	assert.True(t, errors.Is(err, providerErr))
}

func TestExtract_MalformedJSON(t *testing.T) {
	mock := (&llm.Mock{}).EnqueueText("I could not produce JSON, sorry.")

	_, err := newExtractor(mock).Extract(context.Background(), "extract", nil)

	var exErr *extract.Error
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, "decode", exErr.Stage)
}
