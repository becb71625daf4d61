package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/vk/argram/command"
)

// fallbackVersion renders when a command carries no metadata at all,
// which only happens for manually assembled trees.
const fallbackVersion = "1.0.0"

// Version writes the version page for cmd: the release header, the
// metadata scalars, then the bulleted contributor lists. In fancy mode
// the copyright moves into the panel subtitle instead of the body.
func (r *Renderer) Version(w io.Writer, cmd *command.Command) {
	p := &page{}
	meta := cmd.Metadata()

	version := fallbackVersion
	if meta != nil && meta.Version != "" {
		version = meta.Version
	}
	p.add(r.newLine().add(r.pal.programName, cmd.Name()).plain(" — ").
		add(r.pal.programVersion, version))

	if meta != nil {
		scalars := []struct {
			label string
			value string
			style *color.Color
		}{
			{"license", meta.License, r.pal.scalarValue},
			{"homepage", meta.Homepage, r.pal.link},
			{"support", meta.Support, r.pal.link},
			{"bugtracker", meta.Bugtracker, r.pal.link},
			{"copyright", meta.Copyright, r.pal.scalarValue},
		}
		for _, s := range scalars {
			if s.value == "" {
				continue
			}
			if s.label == "copyright" && r.opts.Fancy {
				continue
			}
			p.add(r.newLine().add(r.pal.scalarLabel, s.label).plain(": ").
				add(s.style, s.value))
		}

		if len(meta.Developers) > 0 {
			p.blank()
			r.bulletSection(p, "developers", r.pal.devLabel, meta.Developers, r.width())
		}
		if len(meta.Maintainers) > 0 {
			p.blank()
			r.bulletSection(p, "maintainers", r.pal.maintLabel, meta.Maintainers, r.width())
		}
	}

	if r.opts.Fancy {
		title := r.newLine().add(r.pal.panelTitle,
			"[ "+strings.ToUpper(cmd.Name())+" VERSION ]")
		var subtitle *line
		if meta != nil && meta.Copyright != "" {
			subtitle = r.newLine().add(r.pal.panelSubtitle, meta.Copyright)
		}
		fmt.Fprint(w, r.frame(p, r.opts.Width, title, subtitle))
		return
	}
	fmt.Fprint(w, p.String())
}
