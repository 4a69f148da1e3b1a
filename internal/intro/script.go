// Package intro plays the terminal-style introduction shown before the
// résumé: a fixed script of lines, commands typed one character at a
// time, with a blinking caret and a skip control.
package intro

import "strings"

// Kind selects how a script line is played.
type Kind int

const (
	// StaticLine is shown verbatim. The first line of a script is always
	// treated this way and is on screen before playback starts.
	StaticLine Kind = iota
	// TypedCommand is revealed one character at a time.
	TypedCommand
	// OutputLine appears all at once after a short delay.
	OutputLine
	// BlankLine adds an empty row.
	BlankLine
)

var kindNames = [...]string{"static-line", "typed-command", "output-line", "blank-line"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Line is one entry of a Script.
type Line struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Script is an ordered, read-only sequence of lines.
type Script []Line

// Static, Command, Output and Blank build script lines.
func Static(text string) Line  { return Line{Kind: StaticLine, Text: text} }
func Command(text string) Line { return Line{Kind: TypedCommand, Text: text} }
func Output(text string) Line  { return Line{Kind: OutputLine, Text: text} }
func Blank() Line              { return Line{Kind: BlankLine} }

// DefaultLongRunningMarker is the substring that marks a typed command as
// a slow remote operation.
const DefaultLongRunningMarker = "helm install"

// CommandPrompt prefixes every typed command in DefaultScript.
const CommandPrompt = "❯ "

// DefaultScript is the session played on the résumé site.
var DefaultScript = Script{
	Static("on arn:aws:eks:us-east-1:123456789012:cluster/prod ~ on main [!+?] is 📦 v1.0.0"),
	Command(CommandPrompt + "helm repo add resume https://charts.example.dev/resume/"),
	Output(`"resume" has been added to your repositories`),
	Blank(),
	Command(CommandPrompt + "helm install resume resume/resume"),
	Output("NAME: resume"),
	Output("LAST DEPLOYED: Tue Mar 04 14:35:21 2025"),
	Output("NAMESPACE: default"),
	Output("STATUS: deployed"),
	Output("REVISION: 1"),
	Blank(),
	Command(CommandPrompt + "kubectl get pod -l app=resume"),
	Output("NAME                      READY     STATUS    RESTARTS   AGE"),
	Output("resume-6f7d9c7b8d-x2zs1   1/1       Running   0          42s"),
	Blank(),
	Command(CommandPrompt + "kubectl port-forward resume-6f7d9c7b8d-x2zs1 8080:80"),
	Output("Forwarding from 127.0.0.1:8080 -> 80"),
	Blank(),
	Command(CommandPrompt + "open http://localhost:8080"),
}

// IsCommand reports whether a rendered line is a typed command.
func IsCommand(line string) bool {
	return strings.HasPrefix(line, strings.TrimSpace(CommandPrompt))
}

// IsSuccess reports whether a rendered line reports a successful deploy.
func IsSuccess(line string) bool {
	return strings.Contains(line, "STATUS: deployed")
}
