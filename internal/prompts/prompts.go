// Package prompts renders the chat requests sent upstream for each mode.
// Everything here is a pure function of its inputs.
package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/inference/config"
	"github.com/yungbote/roastmycode-backend/internal/inference/engine"
	"github.com/yungbote/roastmycode-backend/internal/platform/dataurl"
)

// Request is a composed prompt ready for the gateway. Mode selects the
// upstream profile.
type Request struct {
	Mode     string
	Messages []engine.Message
}

// Input is the data visible to templates as {{.Field}}.
type Input struct {
	Code          string
	Language      string
	LanguageLabel string
	CorrectedCode string
	Explanation   string
}

type modePrompt struct {
	mode   string
	system *template.Template
	user   *template.Template
}

var registry = map[string]modePrompt{}

func register(mode, system, user string) {
	sysT := template.Must(template.New(mode + ".system").Option("missingkey=zero").Parse(system))
	userT := template.Must(template.New(mode + ".user").Option("missingkey=zero").Parse(user))
	registry[mode] = modePrompt{mode: mode, system: sysT, user: userT}
}

func init() {
	register(config.ModeRoast, roastSystem, roastUser)
	register(config.ModeExplainBack, explainBackSystem, explainBackUser)
	register(config.ModeExtractCode, extractCodeSystem, extractCodeUser)
	register(config.ModeSolveQuestion, solveQuestionSystem, solveQuestionUser)
}

func render(t *template.Template, in Input) string {
	var b bytes.Buffer
	if err := t.Execute(&b, in); err != nil {
		// Templates are static and only reference Input fields.
		panic(fmt.Sprintf("prompts: render %s: %v", t.Name(), err))
	}
	return strings.TrimSpace(b.String())
}

func compose(mode string, in Input, images ...string) Request {
	s := registry[mode]
	user := engine.Message{Role: engine.RoleUser, Content: render(s.user, in)}
	if len(images) > 0 {
		user.ImageURLs = append([]string(nil), images...)
	}
	return Request{
		Mode: mode,
		Messages: []engine.Message{
			{Role: engine.RoleSystem, Content: render(s.system, in)},
			user,
		},
	}
}

func ComposeRoast(code string, lang roast.Language) Request {
	return compose(config.ModeRoast, Input{
		Code:          code,
		Language:      string(lang),
		LanguageLabel: lang.Label(),
	})
}

func ComposeExplainBack(code string, lang roast.Language, correctedCode, explanation string) Request {
	return compose(config.ModeExplainBack, Input{
		Code:          code,
		Language:      string(lang),
		LanguageLabel: lang.Label(),
		CorrectedCode: correctedCode,
		Explanation:   explanation,
	})
}

func ComposeExtractCode(imageDataURL string) Request {
	return compose(config.ModeExtractCode, Input{}, NormalizeImageURL(imageDataURL))
}

func ComposeSolveQuestion(imageDataURL string) Request {
	return compose(config.ModeSolveQuestion, Input{}, NormalizeImageURL(imageDataURL))
}

// ComposeImage picks the template for an analyze-image mode.
func ComposeImage(imageDataURL string, mode roast.ImageMode) Request {
	if mode == roast.ImageModeExtractCode {
		return ComposeExtractCode(imageDataURL)
	}
	return ComposeSolveQuestion(imageDataURL)
}

// NormalizeImageURL re-labels any image data URL (or bare base64) as JPEG.
func NormalizeImageURL(image string) string {
	payload := strings.TrimSpace(image)
	if _, p, ok := dataurl.Split(payload); ok {
		payload = p
	}
	return "data:image/jpeg;base64," + payload
}
