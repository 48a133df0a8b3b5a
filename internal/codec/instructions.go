package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"botnav/internal/model"
	"botnav/internal/render"
)

// Instruction file lines.
const (
	lineCollect = "collect food"
	lineDeliver = "deliver food"
	lineGoTo    = "go to "
)

// WriteInstructions writes per-bot scripts: a [bot_id] header followed
// by "go to <node>", "collect food" and "deliver food" lines.
func WriteInstructions(w io.Writer, scripts []render.BotScript) error {
	bw := bufio.NewWriter(w)
	for _, s := range scripts {
		if _, err := fmt.Fprintf(bw, "[%s]\n", s.Bot); err != nil {
			return err
		}
		for _, a := range s.Actions {
			var line string
			switch a.Kind {
			case render.ActionMove:
				line = lineGoTo + string(a.Node)
			case render.ActionCollect:
				line = lineCollect
			case render.ActionDeliver:
				line = lineDeliver
			default:
				return fmt.Errorf("unknown action kind %q", a.Kind)
			}
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ParseInstructions reads an instruction file back into bot scripts,
// used to verify round trips.
func ParseInstructions(r io.Reader) ([]render.BotScript, error) {
	var scripts []render.BotScript
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			scripts = append(scripts, render.BotScript{
				Bot:     model.BotID(line[1 : len(line)-1]),
				Actions: []render.Action{},
			})
			continue
		}
		if len(scripts) == 0 {
			return nil, &ParseError{Line: lineNo, Msg: "instruction before any [bot] header"}
		}
		cur := &scripts[len(scripts)-1]
		switch {
		case line == lineCollect:
			cur.Actions = append(cur.Actions, render.Action{Kind: render.ActionCollect})
		case line == lineDeliver:
			cur.Actions = append(cur.Actions, render.Action{Kind: render.ActionDeliver})
		case strings.HasPrefix(line, lineGoTo):
			node := strings.TrimSpace(strings.TrimPrefix(line, lineGoTo))
			if node == "" {
				return nil, &ParseError{Line: lineNo, Msg: "go to line without node"}
			}
			cur.Actions = append(cur.Actions, render.Action{Kind: render.ActionMove, Node: model.NodeID(node)})
		default:
			return nil, &ParseError{Line: lineNo, Msg: "unknown instruction " + line}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return scripts, nil
}
