package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilupskalvis/annotate/internal/history"
	"github.com/kilupskalvis/annotate/internal/models"
)

// ErrUnknownCommand is returned for script lines that start with an unknown verb.
var ErrUnknownCommand = errors.New("unknown command")

// ScriptResult summarizes the effect of an edit script.
type ScriptResult struct {
	Lines    int // commands executed, comments and blank lines excluded
	Added    int
	Removed  int
	Modified int
	Undone   int
	Redone   int
	Cleared  bool
}

// TotalChanges returns the number of logged mutations made by the script.
func (r *ScriptResult) TotalChanges() int {
	return r.Added + r.Removed + r.Modified
}

// ScriptError reports the script line that failed.
type ScriptError struct {
	Line int
	Text string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// ApplyScript runs a line-oriented edit script against h. Execution stops at
// the first failing line; earlier lines stay applied and remain undoable.
//
// Commands:
//
//	add rect <label> <x1> <y1> <x2> <y2>
//	add seg <label> <x,y> <x,y> <x,y> ...
//	remove <idx>
//	move <idx> <dx> <dy>
//	relabel <idx> <label>
//	select <idx>
//	undo [n]
//	redo [n]
//	clear
//
// New items and relabeled items take the next free instance id of their label.
// Lines starting with '#' are comments.
func ApplyScript(h *history.History, r io.Reader) (*ScriptResult, error) {
	result := &ScriptResult{}
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if err := applyLine(h, strings.Fields(text), result); err != nil {
			return result, &ScriptError{Line: lineNo, Text: text, Err: err}
		}
		result.Lines++
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("read script: %w", err)
	}
	return result, nil
}

func applyLine(h *history.History, fields []string, result *ScriptResult) error {
	verb, args := fields[0], fields[1:]

	switch verb {
	case "add":
		item, err := parseNewItem(h, args)
		if err != nil {
			return err
		}
		h.Add(item)
		result.Added++

	case "remove":
		if err := wantArgs(args, 1); err != nil {
			return err
		}
		idx, err := parseInt("index", args[0])
		if err != nil {
			return err
		}
		if err := h.Remove(idx); err != nil {
			return err
		}
		result.Removed++

	case "move":
		if err := wantArgs(args, 3); err != nil {
			return err
		}
		nums, err := parseInts(args)
		if err != nil {
			return err
		}
		item, err := h.At(nums[0])
		if err != nil {
			return err
		}
		if err := h.Modify(nums[0], item.Translate(models.Point{X: nums[1], Y: nums[2]})); err != nil {
			return err
		}
		result.Modified++

	case "relabel":
		if err := wantArgs(args, 2); err != nil {
			return err
		}
		idx, err := parseInt("index", args[0])
		if err != nil {
			return err
		}
		item, err := h.At(idx)
		if err != nil {
			return err
		}
		id, err := h.NextInstanceID(args[1])
		if err != nil {
			return err
		}
		if err := h.Modify(idx, item.WithIdentity(models.Meta{Label: args[1], ID: id})); err != nil {
			return err
		}
		result.Modified++

	case "select":
		if err := wantArgs(args, 1); err != nil {
			return err
		}
		idx, err := parseInt("index", args[0])
		if err != nil {
			return err
		}
		return h.Select(idx)

	case "undo", "redo":
		n := 1
		if len(args) > 0 {
			var err error
			if n, err = parseInt("count", args[0]); err != nil {
				return err
			}
		}
		step, counter := h.Undo, &result.Undone
		if verb == "redo" {
			step, counter = h.Redo, &result.Redone
		}
		for i := 0; i < n && step(); i++ {
			*counter++
		}

	case "clear":
		h.Clear()
		result.Cleared = true

	default:
		return fmt.Errorf("%w '%s'", ErrUnknownCommand, verb)
	}
	return nil
}

// parseNewItem builds the item described by the arguments of an add command.
func parseNewItem(h *history.History, args []string) (models.Item, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: add rect|seg <label> ...")
	}
	kind, label, coords := args[0], args[1], args[2:]

	id, err := h.NextInstanceID(label)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "rect":
		if err := wantArgs(coords, 4); err != nil {
			return nil, err
		}
		n, err := parseInts(coords)
		if err != nil {
			return nil, err
		}
		return models.NewRectAnnotation(label, id, models.Point{X: n[0], Y: n[1]}, models.Point{X: n[2], Y: n[3]}), nil

	case "seg":
		if len(coords) < 3 {
			return nil, fmt.Errorf("a polygon needs at least 3 points, got %d", len(coords))
		}
		poly := make(models.Polygon, 0, len(coords))
		for _, c := range coords {
			pt, err := parsePoint(c)
			if err != nil {
				return nil, err
			}
			poly = append(poly, pt)
		}
		return models.NewSegmentationAnnotation(label, id, poly), nil

	default:
		return nil, fmt.Errorf("unknown annotation kind '%s' (want rect or seg)", kind)
	}
}

func wantArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func parseInt(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s'", what, s)
	}
	return n, nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := parseInt("number", a)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func parsePoint(s string) (models.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return models.Point{}, fmt.Errorf("invalid point '%s' (want x,y)", s)
	}
	x, err := parseInt("x", xs)
	if err != nil {
		return models.Point{}, err
	}
	y, err := parseInt("y", ys)
	if err != nil {
		return models.Point{}, err
	}
	return models.Point{X: x, Y: y}, nil
}
