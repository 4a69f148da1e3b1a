package resume

// Limits bounds how much of the résumé fits on the print layout.
type Limits struct {
	Roles          int
	Bullets        int
	SkillsPerGroup int
}

// DefaultLimits fit a US Letter page at standard margins.
var DefaultLimits = Limits{Roles: 6, Bullets: 3, SkillsPerGroup: 7}

// Condensed is the one-page print view.
type Condensed struct {
	Name        string
	Title       string
	Summary     string
	Contact     Contact
	Skills      []SkillGroup
	Experiences []Experience
	Education   []Education
	Metrics     []Metric
}

// Condense trims r to lim. The print summary replaces the regular one when
// set. Education entries keep their headline and drop their bullets. A
// zero limit leaves that dimension untouched.
func Condense(r *Resume, lim Limits) Condensed {
	c := Condensed{
		Name:    r.Name,
		Title:   r.Title,
		Summary: r.Summary,
		Contact: r.Contact,
		Metrics: r.Print.Metrics,
	}
	if r.Print.Summary != "" {
		c.Summary = r.Print.Summary
	}

	roles := r.Experiences
	if lim.Roles > 0 && len(roles) > lim.Roles {
		roles = roles[:lim.Roles]
	}
	for _, e := range roles {
		e.Achievements = head(e.Achievements, lim.Bullets)
		c.Experiences = append(c.Experiences, e)
	}

	for _, g := range r.Skills {
		c.Skills = append(c.Skills, SkillGroup{Category: g.Category, Skills: head(g.Skills, lim.SkillsPerGroup)})
	}

	for _, e := range r.Education {
		e.Achievements = nil
		e.Description = ""
		c.Education = append(c.Education, e)
	}
	return c
}

func head(s []string, n int) []string {
	if n <= 0 || len(s) <= n {
		return append([]string(nil), s...)
	}
	return append([]string(nil), s[:n]...)
}
