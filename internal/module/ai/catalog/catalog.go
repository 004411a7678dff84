// Package catalog holds the static generation profiles for every operation
// the dispatcher can run, keyed by operation kind and sub-type.
package catalog

import "strings"

// Kind identifies a paid operation.
type Kind string

const (
	KindEnhancePrompt    Kind = "enhance_prompt"
	KindGenerateResponse Kind = "generate_response"
	KindTextToSpeech     Kind = "text_to_speech"
)

// DefaultSubType is the profile every unknown or missing sub-type resolves to.
const DefaultSubType = "general"

// Entry is one generation profile.
type Entry struct {
	Instruction   string  // system guidance sent to the capability
	MaxTokens     int     // output token budget, 0 means provider default
	Temperature   float64 // sampling randomness
	MaxInputChars int     // input length cap, 0 means unlimited
}

var enhanceEntries = map[string]Entry{
	"general": {
		Instruction: "You are an expert prompt engineer. Rewrite the user's prompt so it is clear, specific, and self-contained. Preserve the original intent. Return only the rewritten prompt, with no commentary.",
		MaxTokens:   1024,
		Temperature: 0.7,
	},
	"educational": {
		Instruction: "You are an expert prompt engineer specializing in learning material. Rewrite the user's prompt to name the learning goal, the audience's level, and the structure the answer should follow, requesting worked examples where useful. Return only the rewritten prompt.",
		MaxTokens:   1024,
		Temperature: 0.5,
	},
	"code": {
		Instruction: "You are an expert prompt engineer for programming tasks. Rewrite the user's prompt to pin down the language, inputs, outputs, constraints, and edge cases, and to ask for idiomatic, working code. Return only the rewritten prompt.",
		MaxTokens:   1024,
		Temperature: 0.3,
	},
	"creative": {
		Instruction: "You are an expert prompt engineer for creative writing. Rewrite the user's prompt to sharpen its imagery, voice, and constraints while preserving the author's intent. Return only the rewritten prompt.",
		MaxTokens:   1024,
		Temperature: 0.9,
	},
	"analytical": {
		Instruction: "You are an expert prompt engineer for analytical work. Rewrite the user's prompt to require explicit assumptions, structured reasoning, and evidence-backed conclusions. Return only the rewritten prompt.",
		MaxTokens:   1024,
		Temperature: 0.3,
	},
	"step-by-step": {
		Instruction: "You are an expert prompt engineer. Rewrite the user's prompt to ask for a numbered sequence of steps with prerequisites and the expected outcome of each step. Return only the rewritten prompt.",
		MaxTokens:   1024,
		Temperature: 0.4,
	},
	"fun": {
		Instruction: "You are an expert prompt engineer. Rewrite the user's prompt to be playful and engaging while keeping the original intent intact. Return only the rewritten prompt.",
		MaxTokens:   1024,
		Temperature: 0.9,
	},
}

var generateEntries = map[string]Entry{
	"general": {
		Instruction: "You are a helpful assistant. Respond to the user's content directly and concisely.",
		MaxTokens:   2048,
		Temperature: 0.7,
	},
	"educational": {
		Instruction: "You are a patient teacher. Explain the user's content with clear definitions, concrete examples, and a short summary at the end.",
		MaxTokens:   2048,
		Temperature: 0.5,
	},
	"code": {
		Instruction: "You are a senior software engineer. Respond with working, idiomatic code and brief notes on the key decisions. Prefer complete examples over fragments.",
		MaxTokens:   2048,
		Temperature: 0.2,
	},
	"creative": {
		Instruction: "You are a creative writer. Respond with vivid, original prose that matches the tone and style the content calls for.",
		MaxTokens:   2048,
		Temperature: 0.9,
	},
	"analytical": {
		Instruction: "You are a careful analyst. Break the content down, state your assumptions, reason step by step, and finish with a clear conclusion.",
		MaxTokens:   2048,
		Temperature: 0.3,
	},
	"step-by-step": {
		Instruction: "You are a methodical guide. Respond with a numbered list of steps, noting prerequisites and expected results where they matter.",
		MaxTokens:   2048,
		Temperature: 0.4,
	},
	"fun": {
		Instruction: "You are a witty companion. Respond with playful energy and humor while staying accurate and useful.",
		MaxTokens:   2048,
		Temperature: 0.9,
	},
}

// Speech has a single profile; the cap matches the synthesis API input limit.
var speechEntry = Entry{
	MaxInputChars: 4096,
}

// Lookup returns the profile for kind and subType together with the resolved
// sub-type name. Unknown and missing sub-types resolve to the kind's general
// profile; the resolution is deterministic and never an error.
func Lookup(kind Kind, subType string) (Entry, string) {
	if kind == KindTextToSpeech {
		return speechEntry, "default"
	}

	table := generateEntries
	if kind == KindEnhancePrompt {
		table = enhanceEntries
	}

	key := strings.ToLower(strings.TrimSpace(subType))
	if entry, ok := table[key]; ok {
		return entry, key
	}
	return table[DefaultSubType], DefaultSubType
}

// PromptInput carries the user-supplied fields assembled into the final
// prompt.
type PromptInput struct {
	Primary    string
	Audience   string
	Tone       string
	LengthHint string
}

// BuildPrompt assembles the capability prompt: the primary content first,
// then each present context field under its fixed heading, always in the
// order Audience, Tone, Length. Absent fields are omitted entirely.
func BuildPrompt(in *PromptInput) string {
	primary := strings.TrimSpace(in.Primary)

	var extras []string
	if v := strings.TrimSpace(in.Audience); v != "" {
		extras = append(extras, "Audience: "+v)
	}
	if v := strings.TrimSpace(in.Tone); v != "" {
		extras = append(extras, "Tone: "+v)
	}
	if v := strings.TrimSpace(in.LengthHint); v != "" {
		extras = append(extras, "Length: "+v)
	}

	if len(extras) == 0 {
		return primary
	}
	return primary + "\n\n" + strings.Join(extras, "\n")
}
