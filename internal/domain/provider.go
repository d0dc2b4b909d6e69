package domain

// ProviderKey identifies a model provider implementation.
type ProviderKey string

const (
	ProviderOpenAI    ProviderKey = "openai"
	ProviderGoogle    ProviderKey = "google"
	ProviderAnthropic ProviderKey = "anthropic"
	ProviderOllama    ProviderKey = "ollama"
	ProviderBedrock   ProviderKey = "bedrock"
)

// KnownProviders lists every provider key the registry may hold.
var KnownProviders = []ProviderKey{
	ProviderOpenAI, ProviderGoogle, ProviderAnthropic, ProviderOllama, ProviderBedrock,
}

// Known reports whether p is one of KnownProviders.
func (p ProviderKey) Known() bool {
	for _, k := range KnownProviders {
		if p == k {
			return true
		}
	}
	return false
}
