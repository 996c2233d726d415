// Package actions performs the side effects offered on a file screen:
// opening a signed link externally and saving it to disk.
package actions

import (
	"os/exec"
	"runtime"
	"strings"

	"docbrowse/internal/errors"
	"docbrowse/internal/log"
)

// Opener command names
const (
	XDGOpenCommand = "xdg-open"
	OpenCommand    = "open"
	CmdCommand     = "rundll32"
	CmdURLHandler  = "url.dll,FileProtocolHandler"
)

// Opener launches URLs in an external program.
type Opener struct {
	// Command overrides the platform opener. It is split on whitespace and
	// the URL is appended as the last argument.
	Command string

	start func(name string, args ...string) (wait func() error, err error)
}

// NewOpener returns an opener that uses command when it is non-empty and the
// platform default otherwise.
func NewOpener(command string) *Opener {
	return &Opener{Command: command, start: startProcess}
}

// WithCommand returns a copy of o using command. o itself is left untouched.
func (o *Opener) WithCommand(command string) *Opener {
	c := *o
	c.Command = command
	return &c
}

func startProcess(name string, args ...string) (func() error, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Wait, nil
}

// Open launches url. Any failure is reported as a PopupBlocked error.
func (o *Opener) Open(url string) error {
	name, args := o.commandLine(url)
	if name == "" {
		return errors.NewKind(errors.PopupBlocked, "no opener configured", nil)
	}

	start := o.start
	if start == nil {
		start = startProcess
	}
	wait, err := start(name, args...)
	if err != nil {
		log.LogWithError(err).With(log.F("opener", name)).Warn("failed to open link")
		return errors.NewKind(errors.PopupBlocked, "could not open link, copy it from the screen instead", err)
	}
	// Reap the opener once it exits
	if wait != nil {
		go func() {
			if err := wait(); err != nil {
				log.LogWithError(err).With(log.F("opener", name)).Debug("opener exited with error")
			}
		}()
	}
	log.Debugf("opened link with %s", name)
	return nil
}

func (o *Opener) commandLine(url string) (string, []string) {
	if fields := strings.Fields(o.Command); len(fields) > 0 {
		return fields[0], append(fields[1:], url)
	}
	switch runtime.GOOS {
	case "darwin":
		return OpenCommand, []string{url}
	case "windows":
		return CmdCommand, []string{CmdURLHandler, url}
	default:
		return XDGOpenCommand, []string{url}
	}
}
