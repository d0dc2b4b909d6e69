package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

type bedrockRuntimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockProvider calls Anthropic models through the Bedrock Converse
// API. Credentials come from the AWS default chain, not the request.
type BedrockProvider struct {
	brc      bedrockRuntimeClient
	cfg      Config
	observer Observer
}

// NewBedrockProvider wraps an existing Bedrock runtime client.
func NewBedrockProvider(brc bedrockRuntimeClient, cfg Config, observer Observer) *BedrockProvider {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &BedrockProvider{brc: brc, cfg: cfg, observer: observer}
}

// NewBedrockProviderFromEnv loads the AWS default config and builds a
// BedrockProvider on top of it.
func NewBedrockProviderFromEnv(ctx context.Context, cfg Config, observer Observer) (*BedrockProvider, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewBedrockProvider(bedrockruntime.NewFromConfig(awsCfg), cfg, observer), nil
}

func (p *BedrockProvider) Key() domain.ProviderKey  { return domain.ProviderBedrock }
func (p *BedrockProvider) RequiresCredentials() bool { return false }

func (p *BedrockProvider) Generate(ctx context.Context, req GenerateRequest) (resp *GenerateResponse, err error) {
	start := time.Now()
	defer func() { report(p.observer, p.Key(), "generate", p.cfg.BedrockModel, start, err) }()

	in := &bedrockruntime.ConverseInput{
		ModelId: aws.String(p.cfg.BedrockModel),
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: req.UserPrompt}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(p.cfg.MaxTokens)),
			Temperature: aws.Float32(float32(p.cfg.Temperature)),
		},
	}
	if req.SystemPrompt != "" {
		in.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: req.SystemPrompt}}
	}

	out, err := p.brc.Converse(ctx, in)
	if err != nil {
		return nil, bedrockError(err)
	}

	cleaned := StripCodeFence(converseText(out))
	if cleaned == "" {
		return nil, emptyResponse(p.Key())
	}
	return &GenerateResponse{
		Text:      cleaned,
		Model:     p.cfg.BedrockModel,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

func converseText(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return ""
	}
	var b strings.Builder
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t != nil {
			b.WriteString(t.Value)
		}
	}
	return b.String()
}

// bedrockError maps typed Bedrock exceptions onto provider failure kinds.
func bedrockError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var (
		throttling  *types.ThrottlingException
		quota       *types.ServiceQuotaExceededException
		denied      *types.AccessDeniedException
		notFound    *types.ResourceNotFoundException
		notReady    *types.ModelNotReadyException
		unavailable *types.ServiceUnavailableException
		modelTO     *types.ModelTimeoutException
	)
	var kind error
	switch {
	case errors.As(err, &quota):
		kind = ErrQuotaExceeded
	case errors.As(err, &throttling):
		kind = ErrRateLimited
	case errors.As(err, &denied):
		kind = ErrInvalidCredentials
	case errors.As(err, &notFound):
		kind = ErrModelNotFound
	case errors.As(err, &notReady), errors.As(err, &unavailable):
		kind = ErrOverloaded
	case errors.As(err, &modelTO), errors.Is(err, context.DeadlineExceeded):
		kind = ErrTimeout
	default:
		kind = Classify(0, err.Error())
	}
	return &ProviderError{Provider: domain.ProviderBedrock, Kind: kind, Detail: truncate(err.Error(), maxErrorDetail)}
}
