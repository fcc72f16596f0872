// Package render draws a teacher's week as a PNG: one column per day,
// work-day windows as light blocks, booked lessons on top of them.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"tutor-service/internal/model"
	"tutor-service/internal/schedule"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 80
	leftLabelsWidth = 70
	dayPaddingX     = 6
	totalDays       = 7

	defaultMinHour = 8
	defaultMaxHour = 20
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 255}
	hourLineColor  = color.RGBA{200, 200, 200, 255}
	oddDayColor    = color.RGBA{235, 235, 238, 255}
	workColor      = color.RGBA{133, 193, 85, 200}
	lessonColor    = color.RGBA{255, 182, 193, 255}
	lessonTxtColor = color.RGBA{120, 40, 50, 255}
)

// Week renders the seven days starting at weekStart. Work intervals and
// lessons outside that range are ignored.
func Week(weekStart time.Time, work []schedule.Interval, lessons []*model.Lesson) ([]byte, error) {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(bgColor)
	dc.Clear()

	minHour, maxHour := hourRange(work, lessons)
	grid := newGrid(weekStart, minHour, maxHour)

	grid.drawBackground(dc)
	grid.drawHourLines(dc)
	grid.drawDayHeaders(dc)

	for _, w := range work {
		grid.drawBlock(dc, w, workColor, "")
	}
	for _, l := range lessons {
		iv := l.Interval()
		label := fmt.Sprintf("%s #%d", iv.Start.Format("15:04"), l.StudentID)
		grid.drawBlock(dc, iv, lessonColor, label)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

// hourRange picks the hour span to display so the grid stays readable on
// empty and on long days alike.
func hourRange(work []schedule.Interval, lessons []*model.Lesson) (int, int) {
	minHour, maxHour := defaultMinHour, defaultMaxHour
	consider := func(iv schedule.Interval) {
		if h := iv.Start.Hour(); h < minHour {
			minHour = h
		}
		if h := iv.End.Hour() + 1; h > maxHour {
			maxHour = h
		}
	}
	for _, w := range work {
		consider(w)
	}
	for _, l := range lessons {
		consider(l.Interval())
	}
	if maxHour > 24 {
		maxHour = 24
	}
	return minHour, maxHour
}

type grid struct {
	weekStart time.Time
	minHour   int
	maxHour   int
	dayWidth  float64
	hourH     float64
}

func newGrid(weekStart time.Time, minHour, maxHour int) *grid {
	return &grid{
		weekStart: weekStart,
		minHour:   minHour,
		maxHour:   maxHour,
		dayWidth:  float64(imageWidth-leftLabelsWidth) / totalDays,
		hourH:     float64(imageHeight-headerHeight) / float64(maxHour-minHour),
	}
}

func (g *grid) drawBackground(dc *gg.Context) {
	for day := 0; day < totalDays; day++ {
		if day%2 == 0 {
			continue
		}
		x := leftLabelsWidth + float64(day)*g.dayWidth
		dc.SetColor(oddDayColor)
		dc.DrawRectangle(x, headerHeight, g.dayWidth, float64(imageHeight-headerHeight))
		dc.Fill()
	}
}

func (g *grid) drawHourLines(dc *gg.Context) {
	for hour := g.minHour; hour <= g.maxHour; hour++ {
		y := g.yFor(hour, 0)
		dc.SetColor(hourLineColor)
		dc.DrawLine(leftLabelsWidth, y, imageWidth, y)
		dc.Stroke()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hour), leftLabelsWidth-8, y, 1, 0.35)
	}
}

func (g *grid) drawDayHeaders(dc *gg.Context) {
	for day := 0; day < totalDays; day++ {
		date := g.weekStart.AddDate(0, 0, day)
		x := leftLabelsWidth + float64(day)*g.dayWidth + g.dayWidth/2
		dc.SetColor(textColor)
		dc.DrawStringAnchored(date.Format("Mon 02.01"), x, headerHeight/2, 0.5, 0.35)
	}
}

// drawBlock paints one interval in its day column. Intervals outside the
// rendered week are skipped.
func (g *grid) drawBlock(dc *gg.Context, iv schedule.Interval, fill color.Color, label string) {
	day := int(iv.Start.Sub(g.weekStart).Hours() / 24)
	if day < 0 || day >= totalDays {
		return
	}

	x := leftLabelsWidth + float64(day)*g.dayWidth + dayPaddingX
	yTop := g.yFor(iv.Start.Hour(), iv.Start.Minute())
	yBottom := g.yFor(iv.End.Hour(), iv.End.Minute())
	if yBottom <= yTop {
		return
	}

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, yTop, g.dayWidth-2*dayPaddingX, yBottom-yTop, 5)
	dc.Fill()

	if label != "" {
		dc.SetColor(lessonTxtColor)
		dc.DrawStringAnchored(label, x+(g.dayWidth-2*dayPaddingX)/2, (yTop+yBottom)/2, 0.5, 0.35)
	}
}

func (g *grid) yFor(hour, minute int) float64 {
	offset := float64(hour-g.minHour) + float64(minute)/60
	return headerHeight + offset*g.hourH
}
