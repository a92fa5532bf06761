package roast

import (
	"fmt"
	"strings"
)

type Language string

const (
	JavaScript Language = "javascript"
	Python     Language = "python"
	Cpp        Language = "cpp"
	Java       Language = "java"
)

type LanguageOption struct {
	Value Language `json:"value"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
}

var languageOptions = []LanguageOption{
	{Value: JavaScript, Label: "JavaScript", Icon: "🟨"},
	{Value: Python, Label: "Python", Icon: "🐍"},
	{Value: Cpp, Label: "C++", Icon: "⚡"},
	{Value: Java, Label: "Java", Icon: "☕"},
}

func Languages() []LanguageOption {
	out := make([]LanguageOption, len(languageOptions))
	copy(out, languageOptions)
	return out
}

func ParseLanguage(s string) (Language, error) {
	v := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, opt := range languageOptions {
		if opt.Value == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

func (l Language) Valid() bool {
	_, err := ParseLanguage(string(l))
	return err == nil
}

func (l Language) Label() string {
	for _, opt := range languageOptions {
		if opt.Value == l {
			return opt.Label
		}
	}
	return string(l)
}
