package common

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/Freeeeeet/headsup_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Размеры карточки
const (
	rosterWidth      = 640
	rosterPadding    = 24.0
	rosterHeader     = 56.0
	rosterRowHeight  = 26.0
	rosterGap        = 10.0
	rosterCornerSize = 8.0
)

// Цветовая схема
var (
	rosterBgColor     = color.RGBA{245, 246, 248, 255}
	rosterTitleColor  = color.RGBA{40, 44, 52, 255}
	rosterTextColor   = color.RGBA{80, 85, 90, 230}
	rosterLeaderColor = color.RGBA{120, 40, 50, 255}
	rosterEvenColor   = color.NRGBA{232, 240, 226, 255}
	rosterOddColor    = color.NRGBA{226, 232, 240, 255}
)

// GenerateRosterImage рисует PNG-карточку с парами или группами сессии
func GenerateRosterImage(s *model.Session) ([]byte, error) {
	rows := 0
	for _, bucket := range s.Pairs {
		rows += rosterBucketRows(s.Type, bucket)
	}
	height := int(rosterHeader + rosterPadding*2 + float64(rows)*rosterRowHeight + float64(len(s.Pairs))*rosterGap)

	dc := gg.NewContext(rosterWidth, height)
	dc.SetColor(rosterBgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(rosterTitleColor)
	dc.DrawStringAnchored(fmt.Sprintf("%s - %s", SessionTitle(s.Type), s.Group), rosterPadding, rosterPadding+13, 0, 0)

	y := rosterPadding + rosterHeader
	for i, bucket := range s.Pairs {
		n := rosterBucketRows(s.Type, bucket)
		drawRosterBucket(dc, s.Type, i, bucket, y, float64(n)*rosterRowHeight)
		y += float64(n)*rosterRowHeight + rosterGap
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode roster png: %w", err)
	}
	return buf.Bytes(), nil
}

// пара занимает одну строку, группа по строке на участника
func rosterBucketRows(t model.SessionType, bucket []model.SessionMember) int {
	if isPairSession(t) || len(bucket) == 0 {
		return 1
	}
	return len(bucket)
}

func isPairSession(t model.SessionType) bool {
	return t == model.SessionTypeMoonWalk || t == model.SessionTypePairProgramming
}

func drawRosterBucket(dc *gg.Context, t model.SessionType, index int, bucket []model.SessionMember, y, h float64) {
	if index%2 == 0 {
		dc.SetColor(rosterEvenColor)
	} else {
		dc.SetColor(rosterOddColor)
	}
	dc.DrawRoundedRectangle(rosterPadding, y, rosterWidth-rosterPadding*2, h, rosterCornerSize)
	dc.Fill()

	textX := rosterPadding * 1.5
	if isPairSession(t) {
		dc.SetColor(rosterTextColor)
		dc.DrawStringAnchored(pairLine(bucket), textX, y+h/2, 0, 0.35)
		return
	}

	for j, member := range bucket {
		rowY := y + float64(j)*rosterRowHeight + rosterRowHeight/2
		label := DisplayName(member.Name)
		if j == 0 {
			dc.SetColor(rosterLeaderColor)
			label = fmt.Sprintf("Group %d: %s (leader)", index+1, label)
		} else {
			dc.SetColor(rosterTextColor)
			label = "    " + label
		}
		dc.DrawStringAnchored(label, textX, rowY, 0, 0.35)
	}
}

// basicfont не содержит emoji, поэтому разделитель текстовый
func pairLine(pair []model.SessionMember) string {
	switch len(pair) {
	case 0:
		return ""
	case 1:
		return DisplayName(pair[0].Name) + " (unpaired)"
	default:
		line := DisplayName(pair[0].Name)
		for _, m := range pair[1:] {
			line += "  <->  " + DisplayName(m.Name)
		}
		return line
	}
}
