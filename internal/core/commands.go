package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/ratings/internal/logging"
)

// CommandKind names a user action.
type CommandKind string

const (
	CmdSelectCategory CommandKind = "select_category"
	CmdSetRating      CommandKind = "set_rating"
	CmdAddItem        CommandKind = "add_item"
	CmdLoad           CommandKind = "load"
	CmdSave           CommandKind = "save"
	CmdReset          CommandKind = "reset"
)

// Command is one discrete user action against a session. Only the fields
// relevant to Kind are read.
type Command struct {
	Kind     CommandKind
	Category string
	Item     string
	Rating   Rating

	// Source and Table carry an uploaded file for CmdLoad.
	Source string
	Table  *Table

	// Layout selects the file layout for CmdSave ("long" or "wide").
	Layout string
}

// DirectiveKind tells the presentation layer how to present a directive.
type DirectiveKind string

const (
	DirectiveRender  DirectiveKind = "render"
	DirectiveNotice  DirectiveKind = "notice"
	DirectiveSuccess DirectiveKind = "success"
	DirectiveError   DirectiveKind = "error"
)

// Directive is the result of a command: what to show next.
type Directive struct {
	Kind       DirectiveKind `json:"kind"`
	Message    string        `json:"message,omitempty"`
	Selected   string        `json:"selected"`
	Categories []string      `json:"categories"`
	Items      []Entry       `json:"items"`
	Ratings    []Rating      `json:"ratings"`
}

// Messages shown for commands that succeed without changing anything.
const (
	MsgNoItemEntered = "No food entered"
	MsgItemExists    = "%s is already in %s"
	MsgSaved         = "Data saved to %s"
	MsgLoaded        = "Loaded %d items from %s"
	MsgAlreadyLoaded = "%s is already loaded"
)

// Handle applies cmd to sess and returns the directive to render. Errors are
// returned for commands that cannot be applied (unknown category or item,
// invalid rating, unreadable upload). Write failures on save are reported in
// the directive, not as errors.
//
// The caller must hold the session lock.
func (s *Service) Handle(ctx context.Context, sess *Session, cmd Command) (Directive, error) {
	logger := logging.WithFields(ctx, "session_id", sess.ID, "command", string(cmd.Kind))

	switch cmd.Kind {
	case CmdSelectCategory:
		cat := NormalizeName(cmd.Category)
		if !sess.Store.HasCategory(cat) {
			return Directive{}, fmt.Errorf("%w: %s", ErrUnknownCategory, cmd.Category)
		}
		sess.Selected = cat
		return render(sess, DirectiveRender, ""), nil

	case CmdSetRating:
		if err := sess.Store.SetRating(cmd.Category, cmd.Item, cmd.Rating); err != nil {
			return Directive{}, err
		}
		sess.Selected = NormalizeName(cmd.Category)
		sess.UpdatedAt = time.Now()
		logger.Debug("rating set", "category", cmd.Category, "item", cmd.Item, "rating", cmd.Rating)
		return render(sess, DirectiveRender, ""), nil

	case CmdAddItem:
		cat := NormalizeName(cmd.Category)
		if cat == "" {
			cat = sess.Selected
		}
		if cat == "" {
			return Directive{}, fmt.Errorf("%w: no category selected", ErrUnknownCategory)
		}
		item := NormalizeName(cmd.Item)
		if item == "" {
			return render(sess, DirectiveNotice, MsgNoItemEntered), nil
		}
		sess.Selected = cat
		if !sess.Store.Add(cat, item) {
			return render(sess, DirectiveNotice, fmt.Sprintf(MsgItemExists, item, cat)), nil
		}
		sess.UpdatedAt = time.Now()
		logger.Debug("item added", "category", cat, "item", item)
		return render(sess, DirectiveRender, ""), nil

	case CmdLoad:
		if cmd.Table == nil {
			return Directive{}, ErrEmptyFile
		}
		rebuilt, err := sess.Load(cmd.Source, cmd.Table, Reconcile)
		if err != nil {
			return Directive{}, fmt.Errorf("load %s: %w", cmd.Source, err)
		}
		if !rebuilt {
			return render(sess, DirectiveNotice, fmt.Sprintf(MsgAlreadyLoaded, cmd.Source)), nil
		}
		logger.Info("file loaded", "source", cmd.Source, "rows", len(cmd.Table.Rows), "items", sess.Store.Len())
		return render(sess, DirectiveSuccess, fmt.Sprintf(MsgLoaded, sess.Store.Len(), cmd.Source)), nil

	case CmdSave:
		layout, err := GetLayout(cmd.Layout)
		if err != nil {
			return Directive{}, err
		}
		table, err := layout.Encode(sess.Store)
		if err != nil {
			return Directive{}, err
		}
		if dropped := UnencodedCategories(sess.Store); layout.Info.Key == "wide" && len(dropped) > 0 {
			logger.Warn("categories not representable in wide layout", "categories", dropped)
		}
		res := WriteTableFile(s.OutputPath(), table)
		if !res.Success {
			logger.Warn("save failed", "path", res.Path, "reason", res.Message)
			return render(sess, DirectiveError, res.Message), nil
		}
		logger.Info("file saved", "path", res.Path, "layout", layout.Info.Key, "rows", len(table.Rows))
		return render(sess, DirectiveSuccess, fmt.Sprintf(MsgSaved, res.Path)), nil

	case CmdReset:
		sess.Reset()
		return render(sess, DirectiveRender, ""), nil

	default:
		return Directive{}, fmt.Errorf("unknown command: %q", cmd.Kind)
	}
}

// Render returns a plain render directive for the session's current state.
func Render(sess *Session) Directive {
	return render(sess, DirectiveRender, "")
}

func render(sess *Session, kind DirectiveKind, msg string) Directive {
	sess.selectDefault()
	items := sess.Store.Items(sess.Selected)
	if items == nil {
		items = []Entry{}
	}
	return Directive{
		Kind:       kind,
		Message:    msg,
		Selected:   sess.Selected,
		Categories: sess.Store.Categories(),
		Items:      items,
		Ratings:    Ratings(),
	}
}
