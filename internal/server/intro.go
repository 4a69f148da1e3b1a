package server

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/resume-site/internal/intro"
	"github.com/Zachkp/resume-site/internal/store"
)

const (
	introSeenCookie = "intro_seen"
	sessionCookie   = "session"
)

// index plays the intro on a visitor's first page view of the session and
// shows the résumé afterwards. ?skipIntro=true goes straight to the résumé.
func (s *Server) index(c *gin.Context) {
	_, seenErr := c.Cookie(introSeenCookie)
	if c.Query("skipIntro") == "true" || seenErr == nil {
		markIntroSeen(c)
		s.renderResume(c)
		return
	}

	session := s.session(c)
	device := deviceClass(c)
	c.HTML(http.StatusOK, "intro.html", gin.H{
		"title":   s.doc().Name,
		"device":  device.String(),
		"session": session,
		"first":   firstLine(s.script),
	})
}

// introSeen is where the intro page goes once playback completes.
func (s *Server) introSeen(c *gin.Context) {
	markIntroSeen(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// introStream plays the script server-side and streams every state change
// as a "frame" event, followed by one "done" event. A client disconnect
// cancels playback.
func (s *Server) introStream(c *gin.Context) {
	device := deviceClass(c)
	session := s.session(c)
	feed := intro.NewFeed()
	p := intro.NewPlayer(s.script,
		intro.WithClock(s.clock),
		intro.WithDevice(device),
		intro.WithTiming(s.timing(device)),
		intro.WithOnChange(feed.Push),
		intro.WithLogger(s.logger),
	)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("frame", p.Snapshot())
	p.Start(nil)

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case snap := <-feed.C():
			c.SSEvent("frame", snap)
			return true
		case <-p.Done():
			c.SSEvent("frame", p.Snapshot())
			c.SSEvent("done", gin.H{"skipped": false})
			return false
		case <-ctx.Done():
			return false
		}
	})
	// Ends playback if the client went away before it finished.
	p.Cancel()

	final := p.Snapshot()
	outcome := store.IntroCompleted
	if p.Skipped() {
		outcome = store.IntroSkipped
	}
	ev := store.IntroEvent{
		Session: session,
		Device:  device.String(),
		Outcome: outcome,
		Lines:   len(final.CompletedLines),
	}
	s.background(ctx, func(ctx context.Context) {
		if err := s.store.RecordIntro(ctx, ev); err != nil {
			s.logger.Error("recording intro outcome", "error", err)
		}
	})
	s.logger.Debug("intro stream ended", "outcome", outcome, "device", ev.Device, "lines", ev.Lines)
}

// session returns the visitor's session id, issuing one when missing.
func (s *Server) session(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
	return id
}

// markIntroSeen sets the session-scoped flag that suppresses the intro.
func markIntroSeen(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(introSeenCookie, "true", 0, "/", "", false, true)
}

// deviceClass honours ?device= and otherwise guesses from the User-Agent.
func deviceClass(c *gin.Context) intro.DeviceClass {
	if d := c.Query("device"); d != "" {
		return intro.ParseDeviceClass(d)
	}
	ua := c.GetHeader("User-Agent")
	for _, marker := range []string{"Mobi", "Android", "iPhone", "iPad"} {
		if strings.Contains(ua, marker) {
			return intro.Touch
		}
	}
	return intro.Desktop
}

func firstLine(script intro.Script) string {
	if len(script) == 0 {
		return ""
	}
	return script[0].Text
}
