package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/resume-site/internal/contrib"
)

// Calendar geometry, in SVG user units.
const (
	cellSize    = 11
	cellSpacing = 2
	cellStep    = cellSize + cellSpacing
	gridLeft    = 30
	gridTop     = 20
)

// levelColors is GitHub's dark green palette, indexed by level.
var levelColors = [contrib.MaxLevel + 1]string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

type svgCell struct {
	X, Y  int
	Fill  string
	Date  string
	Count int
}

type svgLabel struct {
	X, Y int
	Text string
}

// calendarView is the activity panel's template data.
type calendarView struct {
	User     string
	Origin   contrib.Origin
	Total    int
	Width    int
	Height   int
	Cells    []svgCell
	Months   []svgLabel
	Weekdays []svgLabel
	Legend   []string
}

// newCalendarView lays out cal as weekly columns of seven rows. Month
// labels run over the twelve months ending with now's month.
func newCalendarView(user string, cal contrib.Calendar, origin contrib.Origin, now time.Time) calendarView {
	weeks := cal.Weeks()
	v := calendarView{
		User:   user,
		Origin: origin,
		Total:  cal.TotalCount(),
		Width:  cellStep*len(weeks) + gridLeft + 20,
		Height: cellStep*7 + gridTop + 20,
		Legend: levelColors[:],
	}

	for w, week := range weeks {
		for d, day := range week {
			v.Cells = append(v.Cells, svgCell{
				X:     cellStep*w + gridLeft,
				Y:     cellStep*d + gridTop,
				Fill:  levelColors[max(0, min(day.Level, contrib.MaxLevel))],
				Date:  day.Date.String(),
				Count: day.Count,
			})
		}
	}

	current := int(now.Month()) - 1
	for i := range 12 {
		month := time.Month((current-11+i+12)%12 + 1)
		v.Months = append(v.Months, svgLabel{
			X:    i*len(weeks)/12*cellStep + gridLeft,
			Y:    10,
			Text: month.String()[:3],
		})
	}

	for i, name := range []string{"Mon", "Wed", "Fri"} {
		v.Weekdays = append(v.Weekdays, svgLabel{X: 0, Y: (i*2+1)*cellStep + gridTop + 9, Text: name})
	}
	return v
}

// activity renders the GitHub activity panel. The fetcher never fails, so
// the error fragment with its Retry button only appears when the panel
// itself cannot be rendered.
func (s *Server) activity(c *gin.Context) {
	user := s.githubUser(c.Query("user"))
	if user != "" && !usernamePattern.MatchString(user) {
		s.activityError(c, fmt.Errorf("invalid GitHub username %q", user))
		return
	}

	ctx := c.Request.Context()
	cal, origin := s.fetcher.Load(ctx, user)
	s.recordActivityLoad(ctx, user, origin)

	data := gin.H{
		"view": newCalendarView(user, cal, origin, s.clock.Now()),
		"orgs": s.doc().Orgs,
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "activity.html", data); err != nil {
		s.activityError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) activityError(c *gin.Context, err error) {
	s.logger.Error("rendering activity panel", "error", err)
	c.HTML(http.StatusOK, "activity-error.html", gin.H{
		"message": "Failed to load GitHub contributions.",
		"retry":   c.Request.URL.RequestURI(),
	})
}

// apiContributions serves the calendar in the public API's wire shape.
func (s *Server) apiContributions(c *gin.Context) {
	user := c.Param("user")
	if !usernamePattern.MatchString(user) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid GitHub username"})
		return
	}
	ctx := c.Request.Context()
	cal, origin := s.fetcher.Load(ctx, user)
	s.recordActivityLoad(ctx, user, origin)

	c.Header("X-Contributions-Origin", string(origin))
	c.JSON(http.StatusOK, cal)
}

func (s *Server) recordActivityLoad(ctx context.Context, user string, origin contrib.Origin) {
	s.background(ctx, func(ctx context.Context) {
		if err := s.store.RecordActivityLoad(ctx, user, string(origin)); err != nil {
			s.logger.Error("recording activity load", "error", err)
		}
	})
}
