package notes

import (
	"context"

	"github.com/optiretail/optiretail/internal/platform/apperr"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

type Service struct {
	repo       Repository
	engine     *validation.Engine
	events     lifecycle.Emitter
	createForm validation.Form
	listForm   validation.Form
}

func NewService(repo Repository, engine *validation.Engine, events lifecycle.Emitter) *Service {
	if events == nil {
		events = lifecycle.Nop{}
	}
	return &Service{
		repo:       repo,
		engine:     engine,
		events:     events,
		createForm: createForm(engine.Lookup()),
		listForm:   listForm(engine.Lookup()),
	}
}

// CreateNote attaches a note to the noteable named by the route params
// noteable_type and noteable_id. The caller is recorded as author.
func (s *Service) CreateNote(ctx context.Context, req validation.Request) (*Note, error) {
	in, err := s.engine.Validate(ctx, s.createForm, req)
	if err != nil {
		return nil, err
	}
	kind, _ := ParseKind(req.Params["noteable_type"])
	id, _ := req.Params.UUID("noteable_id")
	n := &Note{NoteableType: kind, NoteableID: id, AuthorID: req.Identity.UserID}
	if err := validation.Decode(in, n); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperr.Persistence("create note", err)
	}
	if err := s.events.Dispatch(ctx, lifecycle.Created{Entity: EntityNote, Record: n}); err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotes returns the noteable's notes, newest first.
func (s *Service) ListNotes(ctx context.Context, req validation.Request, limit, offset int) ([]*Note, int, error) {
	if _, err := s.engine.Validate(ctx, s.listForm, req); err != nil {
		return nil, 0, err
	}
	kind, _ := ParseKind(req.Params["noteable_type"])
	id, _ := req.Params.UUID("noteable_id")
	items, total, err := s.repo.ListFor(ctx, kind, id, limit, offset)
	if err != nil {
		return nil, 0, apperr.Persistence("list notes", err)
	}
	return items, total, nil
}
