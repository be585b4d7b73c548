package ui

import (
	"strings"

	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/text"
)

type UILabel struct {
	Common[*UILabel]
	text     string
	font     *text.Font
	wrap     bool
	maxWidth float32
	laidOut  string
}

func Label(str string) *UILabel {
	l := &UILabel{text: str}
	l.Common = newCommon(l)
	l.base.color = colors.White
	return l
}

func (l *UILabel) Font(f *text.Font) *UILabel { l.font = f; return l }
func (l *UILabel) Wrap(enabled bool) *UILabel { l.wrap = enabled; return l }
func (l *UILabel) MaxWidth(width float32) *UILabel {
	l.maxWidth = width
	if width > 0 {
		l.wrap = true
	}
	return l
}

func (l *UILabel) Layout(ctx *Context, c Constraints) LayoutResult {
	f := l.resolveFont(ctx)
	if f == nil {
		return LayoutResult{}
	}
	b := &l.base
	limit := c.Max[0]
	if l.maxWidth > 0 && (limit <= 0 || l.maxWidth < limit) {
		limit = l.maxWidth
	}
	if limit > 0 {
		limit = max(0, limit-b.padSum(0))
	}

	w, h, s := l.measure(f, limit)
	l.laidOut = s
	b.size = [2]float32{
		b.resolveAxis(0, w+b.padSum(0), c),
		b.resolveAxis(1, h+b.padSum(1), c),
	}
	return LayoutResult{Size: b.size}
}

func (l *UILabel) Draw(ctx *Context) {
	f := l.resolveFont(ctx)
	if f == nil || l.laidOut == "" || l.base.color.A == 0 {
		return
	}
	p := l.base.innerPosition()
	ctx.List.AddText(f, p[0], p[1], l.base.color, l.laidOut)
}

func (l *UILabel) resolveFont(ctx *Context) *text.Font {
	if l.font != nil {
		return l.font
	}
	return ctx.DefaultFont
}

// measure returns the text block size and the string with wrap breaks
// inserted when wrapping at maxWidth.
func (l *UILabel) measure(f *text.Font, maxWidth float32) (float32, float32, string) {
	if l.text == "" {
		return 0, 0, ""
	}
	if !l.wrap || maxWidth <= 0 {
		w, h := f.MeasureText(l.text)
		return w, h, l.text
	}

	space, _ := f.MeasureText(" ")
	var lines []string
	var widest float32
	for _, raw := range strings.Split(l.text, "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := words[0]
		curW, _ := f.MeasureText(cur)
		for _, word := range words[1:] {
			ww, _ := f.MeasureText(word)
			if curW+space+ww > maxWidth {
				lines = append(lines, cur)
				widest = max(widest, curW)
				cur, curW = word, ww
				continue
			}
			cur += " " + word
			curW += space + ww
		}
		lines = append(lines, cur)
		widest = max(widest, curW)
	}
	return widest, f.LineHeight * float32(len(lines)), strings.Join(lines, "\n")
}
