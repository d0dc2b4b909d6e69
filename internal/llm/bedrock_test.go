package llm

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBedrockClient implements bedrockRuntimeClient for testing
type mockBedrockClient struct {
	response *bedrockruntime.ConverseOutput
	err      error
	lastIn   *bedrockruntime.ConverseInput
}

func (m *mockBedrockClient) Converse(ctx context.Context, input *bedrockruntime.ConverseInput, opts ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.lastIn = input
	return m.response, m.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Role:    types.ConversationRoleAssistant,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: text}},
			},
		},
	}
}

func TestBedrockProvider_Generate_Success(t *testing.T) {
	mock := &mockBedrockClient{response: textOutput("```json\n{\"title\":\"b\"}\n```")}
	p := NewBedrockProvider(mock, DefaultConfig(), nil)

	resp, err := p.Generate(context.Background(), GenerateRequest{SystemPrompt: "sys", UserPrompt: "usr"})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"b"}`, resp.Text)
	assert.False(t, p.RequiresCredentials())

	require.NotNil(t, mock.lastIn)
	assert.Equal(t, DefaultConfig().BedrockModel, aws.ToString(mock.lastIn.ModelId))
	require.Len(t, mock.lastIn.System, 1)
	sys, ok := mock.lastIn.System[0].(*types.SystemContentBlockMemberText)
	require.True(t, ok)
	assert.Equal(t, "sys", sys.Value)
}

func TestBedrockProvider_Generate_Empty(t *testing.T) {
	p := NewBedrockProvider(&mockBedrockClient{response: &bedrockruntime.ConverseOutput{}}, DefaultConfig(), nil)
	_, err := p.Generate(context.Background(), GenerateRequest{UserPrompt: "usr"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestBedrockProvider_Generate_MapsExceptions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"throttled", &types.ThrottlingException{Message: aws.String("slow down")}, ErrRateLimited},
		{"quota", &types.ServiceQuotaExceededException{Message: aws.String("quota")}, ErrQuotaExceeded},
		{"denied", &types.AccessDeniedException{Message: aws.String("no")}, ErrInvalidCredentials},
		{"not found", &types.ResourceNotFoundException{Message: aws.String("model")}, ErrModelNotFound},
		{"unavailable", &types.ServiceUnavailableException{Message: aws.String("busy")}, ErrOverloaded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBedrockProvider(&mockBedrockClient{err: tt.err}, DefaultConfig(), nil)
			_, err := p.Generate(context.Background(), GenerateRequest{UserPrompt: "usr"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
