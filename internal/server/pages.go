package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/resume-site/internal/resume"
)

func (s *Server) renderResume(c *gin.Context) {
	r := s.doc()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":    r.Name + " | " + r.Title,
		"resume":   r,
		"username": s.githubUser(""),
	})
}

// print renders the condensed one-page layout. Saving it as a PDF is left
// to the browser's print dialog.
func (s *Server) print(c *gin.Context) {
	r := s.doc()
	c.HTML(http.StatusOK, "print.html", gin.H{
		"title":  r.Name + " | Résumé",
		"resume": resume.Condense(r, resume.DefaultLimits),
	})
}

func (s *Server) apiResume(c *gin.Context) {
	c.JSON(http.StatusOK, s.doc())
}

// githubUser picks the requested user, then the configured one, then the
// résumé's GitHub link.
func (s *Server) githubUser(requested string) string {
	switch {
	case requested != "":
		return requested
	case s.cfg.GitHubUser != "":
		return s.cfg.GitHubUser
	default:
		return s.doc().GitHubUsername()
	}
}
