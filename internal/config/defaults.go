package config

import "github.com/formworks/sheetmap/internal/mapping"

// DefaultConfig returns configuration with sensible defaults. Heuristic
// sections left zero fall back to the built-in defaults of their package
// (header.DefaultOptions, the spatial option defaults), so only the parts
// that need explicit seeding appear here.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMCfg{
			Model:          "gpt-4o-mini",
			APIKey:         "${OPENAI_API_KEY}",
			TimeoutSeconds: 45,
			MaxRetries:     3,
			RateLimit:      60,
			Enabled:        true,
		},
		Checklist: DefaultChecklist(),
	}
}

// DefaultChecklist lists the fields a filled personnel form must carry.
func DefaultChecklist() []mapping.RequiredField {
	return []mapping.RequiredField{
		{Name: "성명", Aliases: []string{"이름", "name"}},
		{Name: "생년월일", Aliases: []string{"생일", "birth"}},
		{Name: "연락처", Aliases: []string{"전화번호", "휴대폰", "phone"}},
		{Name: "이메일", Aliases: []string{"email", "e-mail"}},
		{Name: "주소", Aliases: []string{"address"}},
	}
}
