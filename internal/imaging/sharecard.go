package imaging

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	CardWidth  = 1200
	CardHeight = 630
)

// Card is the content of a share image.
type Card struct {
	Language   string
	Score      int
	MaxScore   int
	GoldenRule string
	Roast      string
}

var (
	cardBG     = color.NRGBA{R: 0x12, G: 0x12, B: 0x1a, A: 0xff}
	cardAccent = color.NRGBA{R: 0xff, G: 0x6b, B: 0x35, A: 0xff}
	cardMuted  = color.NRGBA{R: 0xb8, G: 0xb8, B: 0xc8, A: 0xff}
)

type faces struct {
	title font.Face
	score font.Face
	body  font.Face
}

var (
	facesOnce sync.Once
	cardFaces faces
	facesErr  error
)

func loadFaces() (faces, error) {
	facesOnce.Do(func() {
		bold, err := truetype.Parse(gobold.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parse bold font: %w", err)
			return
		}
		regular, err := truetype.Parse(goregular.TTF)
		if err != nil {
			facesErr = fmt.Errorf("parse regular font: %w", err)
			return
		}
		cardFaces = faces{
			title: newFace(bold, 56),
			score: newFace(bold, 120),
			body:  newFace(regular, 32),
		}
	})
	return cardFaces, facesErr
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
}

// RenderShareCard draws card as a CardWidth x CardHeight PNG.
func RenderShareCard(card Card) ([]byte, error) {
	ff, err := loadFaces()
	if err != nil {
		return nil, err
	}
	if card.MaxScore <= 0 {
		card.MaxScore = 10
	}

	dc := gg.NewContext(CardWidth, CardHeight)
	dc.SetColor(cardBG)
	dc.DrawRectangle(0, 0, CardWidth, CardHeight)
	dc.Fill()

	dc.SetColor(cardAccent)
	dc.DrawRectangle(0, 0, CardWidth, 12)
	dc.Fill()

	const pad = 64.0
	dc.SetFontFace(ff.title)
	dc.SetColor(color.White)
	title := "Roast My Code"
	if lang := strings.TrimSpace(card.Language); lang != "" {
		title += " | " + lang
	}
	dc.DrawStringAnchored(title, pad, pad+20, 0, 0.5)

	dc.SetFontFace(ff.score)
	dc.SetColor(cardAccent)
	dc.DrawStringAnchored(fmt.Sprintf("%d/%d", card.Score, card.MaxScore), CardWidth-pad, pad+60, 1, 0.5)

	dc.SetFontFace(ff.body)
	dc.SetColor(color.White)
	y := 230.0
	if rule := strings.TrimSpace(card.GoldenRule); rule != "" {
		for _, line := range firstLines(dc.WordWrap("Golden rule: "+rule, CardWidth-2*pad), 4) {
			dc.DrawString(line, pad, y)
			y += 44
		}
		y += 20
	}
	dc.SetColor(cardMuted)
	if r := strings.TrimSpace(card.Roast); r != "" {
		for _, line := range firstLines(dc.WordWrap(r, CardWidth-2*pad), CardHeight/44-int(y/44)-1) {
			dc.DrawString(line, pad, y)
			y += 44
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func firstLines(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) <= n {
		return lines
	}
	out := append([]string(nil), lines[:n]...)
	out[n-1] = strings.TrimRight(out[n-1], " .") + "..."
	return out
}

// ShareText is the brag copied by the share buttons. A score of 0 means the
// quiz was not taken and the score line is omitted.
func ShareText(roastText, goldenRule string, score int) string {
	emoji := "🔥"
	if score >= 7 {
		emoji = "🏆"
	}
	quote := []rune(roastText)
	excerpt := string(quote[:min(len(quote), 100)])
	if len(quote) > 100 {
		excerpt += "..."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s Just got roasted by RoastMyCode!\n\n", emoji)
	fmt.Fprintf(&b, "💬 \"%s\"\n\n", excerpt)
	if score > 0 {
		fmt.Fprintf(&b, "📊 Quiz Score: %d/10\n", score)
	}
	fmt.Fprintf(&b, "💡 Golden Rule: \"%s\"\n\n", goldenRule)
	b.WriteString("🔥 Apna bhi code roast karwa: ")
	return b.String()
}
