package outlineservice

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/org"
)

// EditOp is one structural or field mutation applied to a heading,
// addressed by its zero-based document-order position.
type EditOp struct {
	Op       string   `json:"op"`
	Position int      `json:"position"`
	Keyword  string   `json:"keyword,omitempty"`
	Key      string   `json:"key,omitempty"`
	Value    string   `json:"value,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// EditOutline applies a sequence of operations to one document: the file
// is read and parsed, every operation is applied in order, and only when
// all of them succeed is the re-rendered text written back and reindexed.
// Any failure leaves the file untouched. ifMatch carries the optimistic
// concurrency checksum; empty skips the check.
func (s *Service) EditOutline(_ context.Context, path, ifMatch string, ops []EditOp) (*DocumentDetail, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no operations", apperr.ErrInvalid)
	}

	s.editMu.Lock()
	defer s.editMu.Unlock()

	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(data) {
		return nil, apperr.ErrConflict
	}

	doc, err := org.Parse(string(data), s.kw)
	if err != nil {
		return nil, err
	}
	for i, op := range ops {
		if err := applyOp(doc, op); err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Op, err)
		}
	}

	rendered := []byte(doc.String())
	if err := s.store.Write(path, rendered); err != nil {
		return nil, err
	}
	if err := s.IndexDocument(path, rendered); err != nil {
		return nil, err
	}
	return s.buildDetail(path, rendered)
}

func applyOp(doc *org.Document, op EditOp) error {
	h, ok := doc.HeadingAt(op.Position)
	if !ok {
		return fmt.Errorf("%w: no heading at position %d", apperr.ErrInvalid, op.Position)
	}
	hl := h.Headline()

	switch op.Op {
	case "promote":
		return h.Promote()
	case "promote_tree":
		return h.PromoteTree()
	case "demote":
		return h.Demote()
	case "demote_tree":
		return h.DemoteTree()
	case "set_todo":
		return hl.SetTodo(op.Value)
	case "set_title":
		hl.SetTitle(op.Value)
		return nil
	case "set_tags":
		hl.SetTags(op.Tags)
		return nil
	case "set_priority":
		return hl.SetPriority(op.Value)
	case "raise_priority":
		return hl.RaisePriority()
	case "lower_priority":
		return hl.LowerPriority()
	case "toggle_comment":
		hl.ToggleComment()
		return nil
	case "set_property":
		if op.Key == "" {
			return fmt.Errorf("%w: set_property requires a key", apperr.ErrInvalid)
		}
		h.SetProperty(op.Key, op.Value)
		return nil
	case "delete_property":
		if op.Key == "" {
			return fmt.Errorf("%w: delete_property requires a key", apperr.ErrInvalid)
		}
		h.DeleteProperty(op.Key)
		return nil
	case "set_scheduling":
		return applyScheduling(h, op)
	case "set_body":
		h.SetBody(op.Value)
		return nil
	default:
		return fmt.Errorf("%w: unknown operation %q", apperr.ErrInvalid, op.Op)
	}
}

func applyScheduling(h *org.Heading, op EditOp) error {
	sched := h.Scheduling()
	if sched == nil {
		sched = org.NewScheduling()
	}
	if op.Value == "" {
		if err := sched.Set(op.Keyword, nil); err != nil {
			return err
		}
	} else {
		ts, err := org.ParseTimeStamp(op.Value)
		if err != nil {
			return err
		}
		if err := sched.Set(op.Keyword, ts); err != nil {
			return err
		}
	}
	if sched.Empty() {
		h.SetScheduling(nil)
	} else {
		h.SetScheduling(sched)
	}
	return nil
}
